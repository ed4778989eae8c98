package models

import "time"

// User is an operator account. The password hash is never serialized.
type User struct {
	ID           int       `db:"id" json:"id"`
	SiteID       int       `db:"site_id" json:"siteId"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}
