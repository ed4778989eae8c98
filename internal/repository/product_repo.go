package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// DB exposes the underlying handle for transaction-scoped flows.
func (r *ProductRepository) DB() *sqlx.DB {
	return r.db
}

const productColumns = `
    p.id, p.site_id, p.cug, p.name, p.description, p.category_id, p.brand_id,
    p.quantity, p.alert_threshold, p.purchase_price, p.selling_price,
    p.image_url, p.is_active, p.created_at, p.updated_at`

// GetByID returns a single product by id within a site.
func (r *ProductRepository) GetByID(id, siteID int) (*models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND p.site_id = $2 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, id, siteID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetByCUG returns a single product by its scan code within a site.
func (r *ProductRepository) GetByCUG(siteID int, cug string) (*models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p WHERE p.site_id = $1 AND p.cug = $2 LIMIT 1`

	var p models.Product
	if err := r.db.Get(&p, q, siteID, cug); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetForUpdate loads a product row inside tx with a row-level lock.
// Every stock mutation goes through this lock so concurrent movements
// against the same product serialize instead of losing updates.
func (r *ProductRepository) GetForUpdate(tx *sqlx.Tx, id, siteID int) (*models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1 AND p.site_id = $2 FOR UPDATE`

	var p models.Product
	if err := tx.Get(&p, q, id, siteID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// UpdateQuantityTx writes the new quantity inside the same transaction
// that holds the row lock taken by GetForUpdate.
func (r *ProductRepository) UpdateQuantityTx(tx *sqlx.Tx, id int, quantity decimal.Decimal) error {
	const q = `UPDATE products SET quantity = $2, updated_at = NOW() WHERE id = $1`
	_, err := tx.Exec(q, id, quantity)
	return err
}

// ProductFilter holds filters for product list queries.
type ProductFilter struct {
	SiteID        int
	CategoryID    int
	BrandID       int
	Search        string
	LowStockOnly  bool
	BackorderOnly bool
	IncludeStale  bool // include inactive products
	Page          int
	Limit         int
}

// List returns products for a site with filters and pagination, plus total count.
// Search matches name or CUG (ILIKE). Low-stock means 0 < quantity <= threshold.
func (r *ProductRepository) List(filter *ProductFilter) ([]models.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit

	baseWhere := `WHERE p.site_id = $1`
	args := []interface{}{filter.SiteID}
	argIdx := 2

	if !filter.IncludeStale {
		baseWhere += ` AND p.is_active = true`
	}
	if filter.CategoryID > 0 {
		baseWhere += fmt.Sprintf(" AND p.category_id = $%d", argIdx)
		args = append(args, filter.CategoryID)
		argIdx++
	}
	if filter.BrandID > 0 {
		baseWhere += fmt.Sprintf(" AND p.brand_id = $%d", argIdx)
		args = append(args, filter.BrandID)
		argIdx++
	}
	if filter.Search != "" {
		baseWhere += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.cug ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.LowStockOnly {
		baseWhere += ` AND p.quantity > 0 AND p.quantity <= p.alert_threshold`
	}
	if filter.BackorderOnly {
		baseWhere += ` AND p.quantity < 0`
	}

	countQuery := `SELECT COUNT(1) FROM products p ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + productColumns + `,
        c.name AS category_name, b.name AS brand_name
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        LEFT JOIN brands b ON b.id = p.brand_id
        ` + baseWhere + fmt.Sprintf(`
        ORDER BY p.name LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var products []models.Product
	if err := r.db.Select(&products, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Create creates a new product.
func (r *ProductRepository) Create(p *models.Product) error {
	const q = `
        INSERT INTO products (
            site_id, cug, name, description, category_id, brand_id,
            quantity, alert_threshold, purchase_price, selling_price, image_url, is_active
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.SiteID, p.CUG, p.Name, p.Description, p.CategoryID, p.BrandID,
		p.Quantity, p.AlertThreshold, p.PurchasePrice, p.SellingPrice, p.ImageURL, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update updates the catalog fields of an existing product.
// Quantity is deliberately excluded: it only changes through movements.
func (r *ProductRepository) Update(p *models.Product) error {
	const q = `
        UPDATE products SET
            cug = $3,
            name = $4,
            description = $5,
            category_id = $6,
            brand_id = $7,
            alert_threshold = $8,
            purchase_price = $9,
            selling_price = $10,
            is_active = $11,
            updated_at = NOW()
        WHERE id = $1 AND site_id = $2
        RETURNING updated_at`

	return r.db.QueryRowx(q,
		p.ID, p.SiteID, p.CUG, p.Name, p.Description, p.CategoryID, p.BrandID,
		p.AlertThreshold, p.PurchasePrice, p.SellingPrice, p.IsActive,
	).Scan(&p.UpdatedAt)
}

// SetImageURL records the uploaded product image location.
func (r *ProductRepository) SetImageURL(id, siteID int, imageURL string) error {
	const q = `UPDATE products SET image_url = $3, updated_at = NOW() WHERE id = $1 AND site_id = $2`
	_, err := r.db.Exec(q, id, siteID, imageURL)
	return err
}

// ExistsCUG reports whether a CUG is already taken within a site,
// optionally excluding one product id (for updates).
func (r *ProductRepository) ExistsCUG(siteID int, cug string, excludeID int) (bool, error) {
	const q = `SELECT COUNT(1) FROM products WHERE site_id = $1 AND cug = $2 AND id != $3`
	var n int
	if err := r.db.Get(&n, q, siteID, cug, excludeID); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Deactivate soft-deletes a product. Movements stay untouched.
func (r *ProductRepository) Deactivate(id, siteID int) error {
	const q = `UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1 AND site_id = $2`
	res, err := r.db.Exec(q, id, siteID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetLowStock returns active products at or below their alert threshold,
// including backordered ones.
func (r *ProductRepository) GetLowStock(siteID int) ([]models.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products p
        WHERE p.site_id = $1 AND p.is_active = true AND p.quantity <= p.alert_threshold
        ORDER BY p.quantity ASC`

	var products []models.Product
	if err := r.db.Select(&products, q, siteID); err != nil {
		return nil, err
	}
	return products, nil
}

// DashboardCounts aggregates the stock position of a site.
type DashboardCounts struct {
	TotalProducts  int             `db:"total_products"`
	InStock        int             `db:"in_stock"`
	LowStock       int             `db:"low_stock"`
	OutOfStock     int             `db:"out_of_stock"`
	Backorders     int             `db:"backorders"`
	InventoryValue decimal.Decimal `db:"inventory_value"`
}

// GetDashboardCounts computes status counts and the purchase-price valuation
// in a single scan. Status buckets mirror the derivation rule: quantity <= 0
// is out of stock, quantity <= threshold is low.
func (r *ProductRepository) GetDashboardCounts(siteID int) (*DashboardCounts, error) {
	const q = `
        SELECT
            COUNT(1) AS total_products,
            COUNT(1) FILTER (WHERE quantity > alert_threshold) AS in_stock,
            COUNT(1) FILTER (WHERE quantity > 0 AND quantity <= alert_threshold) AS low_stock,
            COUNT(1) FILTER (WHERE quantity <= 0) AS out_of_stock,
            COUNT(1) FILTER (WHERE quantity < 0) AS backorders,
            COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity * purchase_price ELSE 0 END), 0) AS inventory_value
        FROM products
        WHERE site_id = $1 AND is_active = true`

	var counts DashboardCounts
	if err := r.db.Get(&counts, q, siteID); err != nil {
		return nil, err
	}
	return &counts, nil
}
