package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// CategoryRepository handles data access for categories and brands.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCategories returns all categories of a site with product counts.
func (r *CategoryRepository) ListCategories(siteID int) ([]models.Category, error) {
	const q = `
        SELECT c.id, c.site_id, c.name, c.created_at, c.updated_at,
               COUNT(p.id) AS product_count
        FROM categories c
        LEFT JOIN products p ON p.category_id = c.id AND p.is_active = true
        WHERE c.site_id = $1
        GROUP BY c.id
        ORDER BY c.name`

	var categories []models.Category
	if err := r.db.Select(&categories, q, siteID); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetCategory returns one category by id.
func (r *CategoryRepository) GetCategory(id, siteID int) (*models.Category, error) {
	const q = `SELECT id, site_id, name, created_at, updated_at, 0 AS product_count
        FROM categories WHERE id = $1 AND site_id = $2 LIMIT 1`

	var c models.Category
	if err := r.db.Get(&c, q, id, siteID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &c, nil
}

// CreateCategory inserts a category. The unique (site_id, name) index
// rejects duplicates.
func (r *CategoryRepository) CreateCategory(c *models.Category) error {
	const q = `
        INSERT INTO categories (site_id, name) VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, c.SiteID, c.Name).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// UpdateCategory renames a category.
func (r *CategoryRepository) UpdateCategory(c *models.Category) error {
	const q = `UPDATE categories SET name = $3, updated_at = NOW()
        WHERE id = $1 AND site_id = $2 RETURNING updated_at`
	return r.db.QueryRowx(q, c.ID, c.SiteID, c.Name).Scan(&c.UpdatedAt)
}

// DeleteCategory removes a category; products keep a NULL category_id.
func (r *CategoryRepository) DeleteCategory(id, siteID int) error {
	const q = `DELETE FROM categories WHERE id = $1 AND site_id = $2`
	res, err := r.db.Exec(q, id, siteID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBrands returns all brands of a site.
func (r *CategoryRepository) ListBrands(siteID int) ([]models.Brand, error) {
	const q = `SELECT * FROM brands WHERE site_id = $1 ORDER BY name`

	var brands []models.Brand
	if err := r.db.Select(&brands, q, siteID); err != nil {
		return nil, err
	}
	return brands, nil
}

// CreateBrand inserts a brand.
func (r *CategoryRepository) CreateBrand(b *models.Brand) error {
	const q = `
        INSERT INTO brands (site_id, name) VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, b.SiteID, b.Name).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// DeleteBrand removes a brand; products keep a NULL brand_id.
func (r *CategoryRepository) DeleteBrand(id, siteID int) error {
	const q = `DELETE FROM brands WHERE id = $1 AND site_id = $2`
	res, err := r.db.Exec(q, id, siteID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
