package models

import "time"

// Site is one retail location. All catalog and stock data is scoped to a
// site; operations carry the acting site explicitly via OperationContext.
type Site struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address,omitempty"`
	Currency  string    `db:"currency" json:"currency"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// OperationContext identifies the acting site and user for a mutating
// operation. It replaces the ambient request/session state of the legacy
// system: every service method that writes takes it as an explicit value.
type OperationContext struct {
	SiteID int
	UserID int
}
