package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod enumerates the supported POS payment methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentMobile   PaymentMethod = "mobile_money"
	PaymentCredit   PaymentMethod = "credit"
	PaymentTransfer PaymentMethod = "transfer"
)

// SaleStatus enumerates the lifecycle states of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleCancelled SaleStatus = "cancelled"
)

// Sale is a POS receipt. Each item generates one outbound stock movement
// referencing the sale, so the stock trail and the receipt stay linked.
type Sale struct {
	ID            int           `db:"id" json:"id"`
	SiteID        int           `db:"site_id" json:"siteId"`
	Reference     string        `db:"reference" json:"reference"`
	Status        SaleStatus    `db:"status" json:"status"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	TotalAmount   int64         `db:"total_amount" json:"totalAmount"`
	CustomerName  *string       `db:"customer_name" json:"customerName,omitempty"`
	Notes         *string       `db:"notes" json:"notes,omitempty"`
	UserID        int           `db:"user_id" json:"-"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"-"`

	Items []SaleItem `db:"-" json:"items,omitempty"`
}

// SaleItem is one line of a sale. UnitPrice is snapshotted at sale time.
type SaleItem struct {
	ID          int             `db:"id" json:"id"`
	SaleID      int             `db:"sale_id" json:"-"`
	ProductID   int             `db:"product_id" json:"productId"`
	ProductName string          `db:"product_name" json:"productName,omitempty"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitPrice   int64           `db:"unit_price" json:"unitPrice"`
	TotalPrice  int64           `db:"total_price" json:"totalPrice"`
}
