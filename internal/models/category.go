package models

import "time"

// Category groups products within a site. Names are unique per site.
type Category struct {
	ID        int       `db:"id" json:"id"`
	SiteID    int       `db:"site_id" json:"siteId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	ProductCount int `db:"product_count" json:"productCount"`
}

// Brand identifies a product manufacturer within a site.
type Brand struct {
	ID        int       `db:"id" json:"id"`
	SiteID    int       `db:"site_id" json:"siteId"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
