package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// SaleRepository handles data access for POS sales.
type SaleRepository struct {
	db *sqlx.DB
}

// NewSaleRepository creates a new SaleRepository.
func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// CreateTx inserts the sale header inside the stock transaction so the
// receipt, its movements, and the quantity updates commit atomically.
func (r *SaleRepository) CreateTx(tx *sqlx.Tx, s *models.Sale) error {
	const q = `
        INSERT INTO sales (
            site_id, reference, status, payment_method, total_amount,
            customer_name, notes, user_id
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return tx.QueryRowx(q,
		s.SiteID, s.Reference, s.Status, s.PaymentMethod, s.TotalAmount,
		s.CustomerName, s.Notes, s.UserID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// CreateItemTx inserts one sale line inside the same transaction.
func (r *SaleRepository) CreateItemTx(tx *sqlx.Tx, item *models.SaleItem) error {
	const q = `
        INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, total_price)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`

	return tx.QueryRowx(q,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
}

// GetByID returns a sale with its items.
func (r *SaleRepository) GetByID(id, siteID int) (*models.Sale, error) {
	const q = `SELECT * FROM sales WHERE id = $1 AND site_id = $2 LIMIT 1`

	var s models.Sale
	if err := r.db.Get(&s, q, id, siteID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	const itemsQuery = `
        SELECT i.id, i.sale_id, i.product_id, p.name AS product_name,
               i.quantity, i.unit_price, i.total_price
        FROM sale_items i
        JOIN products p ON p.id = i.product_id
        WHERE i.sale_id = $1
        ORDER BY i.id`

	if err := r.db.Select(&s.Items, itemsQuery, id); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns sales for a site, newest first, with pagination.
func (r *SaleRepository) List(siteID, page, limit int) ([]models.Sale, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(1) FROM sales WHERE site_id = $1`
	var total int
	if err := r.db.Get(&total, countQuery, siteID); err != nil {
		return nil, 0, err
	}

	const listQuery = `
        SELECT * FROM sales
        WHERE site_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`

	var sales []models.Sale
	if err := r.db.Select(&sales, listQuery, siteID, limit, offset); err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// UpdateStatusTx marks a sale cancelled inside a stock transaction so the
// compensating inbound movements commit together with the status flip.
func (r *SaleRepository) UpdateStatusTx(tx *sqlx.Tx, id, siteID int, status models.SaleStatus) error {
	const q = `UPDATE sales SET status = $3, updated_at = NOW() WHERE id = $1 AND site_id = $2`
	res, err := tx.Exec(q, id, siteID, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DailyTotal sums completed sales for a site since midnight (server time).
func (r *SaleRepository) DailyTotal(siteID int) (int64, error) {
	const q = `
        SELECT COALESCE(SUM(total_amount), 0) FROM sales
        WHERE site_id = $1 AND status = 'completed' AND created_at >= CURRENT_DATE`

	var total int64
	if err := r.db.Get(&total, q, siteID); err != nil {
		return 0, err
	}
	return total, nil
}
