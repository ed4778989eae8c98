package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// SiteRepository handles data access for sites.
type SiteRepository struct {
	db *sqlx.DB
}

// NewSiteRepository creates a new SiteRepository.
func NewSiteRepository(db *sqlx.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// List returns all active sites.
func (r *SiteRepository) List() ([]models.Site, error) {
	const q = `SELECT * FROM sites WHERE is_active = true ORDER BY name`

	var sites []models.Site
	if err := r.db.Select(&sites, q); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetByID returns a single site.
func (r *SiteRepository) GetByID(id int) (*models.Site, error) {
	const q = `SELECT * FROM sites WHERE id = $1 LIMIT 1`

	var s models.Site
	if err := r.db.Get(&s, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &s, nil
}

// ListActiveIDs returns the ids of all active sites, used by the workers
// to iterate site by site.
func (r *SiteRepository) ListActiveIDs() ([]int, error) {
	const q = `SELECT id FROM sites WHERE is_active = true ORDER BY id`

	var ids []int
	if err := r.db.Select(&ids, q); err != nil {
		return nil, err
	}
	return ids, nil
}
