package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

// StockMovement is one append-only audit record of a stock mutation.
// Rows are immutable after creation. QuantityBefore/QuantityAfter snapshot
// the product quantity around the movement so the trail is self-contained.
type StockMovement struct {
	ID             int                `db:"id" json:"id"`
	SiteID         int                `db:"site_id" json:"siteId"`
	ProductID      int                `db:"product_id" json:"productId"`
	Type           stock.MovementKind `db:"type" json:"type"`
	Quantity       decimal.Decimal    `db:"quantity" json:"quantity"`
	QuantityBefore decimal.Decimal    `db:"quantity_before" json:"quantityBefore"`
	QuantityAfter  decimal.Decimal    `db:"quantity_after" json:"quantityAfter"`
	UnitPrice      int64              `db:"unit_price" json:"unitPrice"`
	TotalAmount    int64              `db:"total_amount" json:"totalAmount"`
	Notes          *string            `db:"notes" json:"notes,omitempty"`
	SaleID         *int               `db:"sale_id" json:"saleId,omitempty"`
	UserID         int                `db:"user_id" json:"-"`
	CreatedAt      time.Time          `db:"created_at" json:"createdAt"`

	// Joined fields for list responses.
	ProductName string `db:"product_name" json:"productName,omitempty"`
	ProductCUG  string `db:"product_cug" json:"productCug,omitempty"`
}
