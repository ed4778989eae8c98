package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

// Product represents a catalog item on one site. Quantity is a signed
// decimal: negative values encode backorders. Prices are FCFA amounts
// with no subunit.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID             int             `db:"id" json:"id"`
	SiteID         int             `db:"site_id" json:"siteId"`
	CUG            string          `db:"cug" json:"cug"`
	Name           string          `db:"name" json:"name"`
	Description    string          `db:"description" json:"description,omitempty"`
	CategoryID     *int            `db:"category_id" json:"categoryId,omitempty"`
	BrandID        *int            `db:"brand_id" json:"brandId,omitempty"`
	Quantity       decimal.Decimal `db:"quantity" json:"quantity"`
	AlertThreshold decimal.Decimal `db:"alert_threshold" json:"alertThreshold"`
	PurchasePrice  int64           `db:"purchase_price" json:"purchasePrice"`
	SellingPrice   int64           `db:"selling_price" json:"sellingPrice"`
	ImageURL       *string         `db:"image_url" json:"imageUrl,omitempty"`
	IsActive       bool            `db:"is_active" json:"isActive"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`

	// Joined display names (populated by list queries).
	CategoryName *string `db:"category_name" json:"categoryName,omitempty"`
	BrandName    *string `db:"brand_name" json:"brandName,omitempty"`
}

// StockStatus derives the current status; it is never persisted.
func (p *Product) StockStatus() stock.StockStatus {
	return stock.DeriveStatus(p.Quantity, p.AlertThreshold)
}

// HasBackorder reports whether the product quantity is negative.
func (p *Product) HasBackorder() bool {
	return stock.HasBackorder(p.Quantity)
}

// BackorderQuantity returns the units owed, zero when stock is non-negative.
func (p *Product) BackorderQuantity() decimal.Decimal {
	return stock.BackorderQuantity(p.Quantity)
}

// Margin returns selling price minus purchase price per unit.
func (p *Product) Margin() int64 {
	return p.SellingPrice - p.PurchasePrice
}
