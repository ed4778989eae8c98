package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind enumerates stock alert categories.
type AlertKind string

const (
	AlertLowStock  AlertKind = "low_stock"
	AlertBackorder AlertKind = "backorder"
)

// AlertStatus tracks webhook delivery of an alert.
type AlertStatus string

const (
	AlertPending AlertStatus = "pending"
	AlertSent    AlertStatus = "sent"
	AlertFailed  AlertStatus = "failed"
)

// StockAlert is a queued notification for a product that crossed its
// threshold or went into backorder. The alert worker delivers pending
// rows to the configured webhook with a bounded retry budget.
type StockAlert struct {
	ID         int             `db:"id" json:"id"`
	SiteID     int             `db:"site_id" json:"siteId"`
	ProductID  int             `db:"product_id" json:"productId"`
	Kind       AlertKind       `db:"kind" json:"kind"`
	Quantity   decimal.Decimal `db:"quantity" json:"quantity"`
	Status     AlertStatus     `db:"status" json:"status"`
	RetryCount int             `db:"retry_count" json:"retryCount"`
	LastError  *string         `db:"last_error" json:"lastError,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	SentAt     *time.Time      `db:"sent_at" json:"sentAt,omitempty"`

	ProductName string `db:"product_name" json:"productName,omitempty"`
	ProductCUG  string `db:"product_cug" json:"productCug,omitempty"`
}
