package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// MovementRepository handles data access for stock movements.
// Movements are append-only: there is no update or delete path.
type MovementRepository struct {
	db *sqlx.DB
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(db *sqlx.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// CreateTx inserts a movement row inside the transaction that also holds
// the product row lock, so the quantity update and its audit record are
// committed or rolled back together.
func (r *MovementRepository) CreateTx(tx *sqlx.Tx, m *models.StockMovement) error {
	const q = `
        INSERT INTO stock_movements (
            site_id, product_id, type, quantity, quantity_before, quantity_after,
            unit_price, total_amount, notes, sale_id, user_id
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at`

	return tx.QueryRowx(q,
		m.SiteID, m.ProductID, m.Type, m.Quantity, m.QuantityBefore, m.QuantityAfter,
		m.UnitPrice, m.TotalAmount, m.Notes, m.SaleID, m.UserID,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListByProduct returns the movement history of one product, newest first.
func (r *MovementRepository) ListByProduct(productID, siteID, page, limit int) ([]models.StockMovement, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const countQuery = `SELECT COUNT(1) FROM stock_movements WHERE product_id = $1 AND site_id = $2`
	var total int
	if err := r.db.Get(&total, countQuery, productID, siteID); err != nil {
		return nil, 0, err
	}

	const listQuery = `
        SELECT m.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_movements m
        JOIN products p ON p.id = m.product_id
        WHERE m.product_id = $1 AND m.site_id = $2
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $3 OFFSET $4`

	var movements []models.StockMovement
	if err := r.db.Select(&movements, listQuery, productID, siteID, limit, offset); err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// ListRecent returns the latest movements across a site for the dashboard.
func (r *MovementRepository) ListRecent(siteID, limit int) ([]models.StockMovement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const q = `
        SELECT m.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_movements m
        JOIN products p ON p.id = m.product_id
        WHERE m.site_id = $1
        ORDER BY m.created_at DESC, m.id DESC
        LIMIT $2`

	var movements []models.StockMovement
	if err := r.db.Select(&movements, q, siteID, limit); err != nil {
		return nil, err
	}
	return movements, nil
}

// GetByID returns a single movement.
func (r *MovementRepository) GetByID(id, siteID int) (*models.StockMovement, error) {
	const q = `
        SELECT m.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_movements m
        JOIN products p ON p.id = m.product_id
        WHERE m.id = $1 AND m.site_id = $2
        LIMIT 1`

	var m models.StockMovement
	if err := r.db.Get(&m, q, id, siteID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &m, nil
}

// ListBySale returns the outbound movements generated by one sale.
func (r *MovementRepository) ListBySale(saleID, siteID int) ([]models.StockMovement, error) {
	const q = `
        SELECT m.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_movements m
        JOIN products p ON p.id = m.product_id
        WHERE m.sale_id = $1 AND m.site_id = $2
        ORDER BY m.id`

	var movements []models.StockMovement
	if err := r.db.Select(&movements, q, saleID, siteID); err != nil {
		return nil, err
	}
	return movements, nil
}
