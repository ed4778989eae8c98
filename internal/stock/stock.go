package stock

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MovementKind enumerates the supported stock movement types.
type MovementKind string

const (
	MovementIn         MovementKind = "in"
	MovementOut        MovementKind = "out"
	MovementLoss       MovementKind = "loss"
	MovementAdjustment MovementKind = "adjustment"
	// MovementBackorder is never requested by a caller. Outbound movements
	// that drive the quantity negative are relabeled to it for traceability.
	MovementBackorder MovementKind = "backorder"
)

// StockStatus classifies a product quantity against its alert threshold.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

var (
	// ErrInvalidQuantity is returned when the magnitude of an in/out/loss
	// movement is zero or negative.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrUnknownKind is returned for a movement kind outside the enumeration.
	ErrUnknownKind = errors.New("unknown movement kind")
)

// Result is the outcome of applying a movement to a quantity.
type Result struct {
	NewQuantity  decimal.Decimal
	RecordedKind MovementKind
}

// ApplyMovement computes the quantity after a stock movement and the kind
// under which the movement is recorded. It is the single authority for the
// stock arithmetic: every entry point (API, sale, script) delegates here.
//
// Outbound movements are never blocked by insufficient stock. When the
// resulting quantity is negative the movement is recorded as "backorder"
// and the deficit is tracked through BackorderQuantity.
//
// For MovementAdjustment the magnitude is the absolute target quantity,
// not a delta, and may be negative. Adjustments keep their own kind even
// when the target is negative; backorder state stays a derived property.
func ApplyMovement(current decimal.Decimal, kind MovementKind, magnitude decimal.Decimal) (Result, error) {
	switch kind {
	case MovementIn:
		if magnitude.Sign() <= 0 {
			return Result{}, ErrInvalidQuantity
		}
		return Result{NewQuantity: current.Add(magnitude), RecordedKind: MovementIn}, nil

	case MovementOut, MovementLoss:
		if magnitude.Sign() <= 0 {
			return Result{}, ErrInvalidQuantity
		}
		newQty := current.Sub(magnitude)
		recorded := kind
		if newQty.Sign() < 0 {
			recorded = MovementBackorder
		}
		return Result{NewQuantity: newQty, RecordedKind: recorded}, nil

	case MovementAdjustment:
		return Result{NewQuantity: magnitude, RecordedKind: MovementAdjustment}, nil

	default:
		return Result{}, ErrUnknownKind
	}
}

// DeriveStatus classifies a quantity. A quantity exactly equal to the
// threshold is low stock; a quantity of exactly zero is out of stock.
// Pure and stateless: the status is re-derived on every read, never stored.
func DeriveStatus(quantity, threshold decimal.Decimal) StockStatus {
	switch {
	case quantity.Sign() <= 0:
		return StatusOutOfStock
	case quantity.LessThanOrEqual(threshold):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// StatusLabel returns the user-facing French label for a status.
func StatusLabel(status StockStatus, quantity decimal.Decimal) string {
	switch status {
	case StatusOutOfStock:
		if quantity.Sign() < 0 {
			return "Rupture de stock (backorder)"
		}
		return "Rupture de stock"
	case StatusLowStock:
		return "Stock faible"
	default:
		return "En stock"
	}
}

// HasBackorder reports whether the quantity is strictly negative.
func HasBackorder(quantity decimal.Decimal) bool {
	return quantity.Sign() < 0
}

// BackorderQuantity returns max(0, -quantity): the number of units owed.
func BackorderQuantity(quantity decimal.Decimal) decimal.Decimal {
	if quantity.Sign() < 0 {
		return quantity.Neg()
	}
	return decimal.Zero
}
