package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

func TestProductDerivedState(t *testing.T) {
	tests := []struct {
		name          string
		quantity      string
		threshold     string
		wantStatus    stock.StockStatus
		wantBackorder bool
		wantBackQty   string
	}{
		{"comfortable stock", "50", "5", stock.StatusInStock, false, "0"},
		{"at threshold", "5", "5", stock.StatusLowStock, false, "0"},
		{"zero", "0", "5", stock.StatusOutOfStock, false, "0"},
		{"negative is backorder", "-7", "5", stock.StatusOutOfStock, true, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{
				Quantity:       decimal.RequireFromString(tt.quantity),
				AlertThreshold: decimal.RequireFromString(tt.threshold),
			}
			if got := p.StockStatus(); got != tt.wantStatus {
				t.Errorf("StockStatus() = %s, want %s", got, tt.wantStatus)
			}
			if got := p.HasBackorder(); got != tt.wantBackorder {
				t.Errorf("HasBackorder() = %v, want %v", got, tt.wantBackorder)
			}
			if got := p.BackorderQuantity(); !got.Equal(decimal.RequireFromString(tt.wantBackQty)) {
				t.Errorf("BackorderQuantity() = %s, want %s", got, tt.wantBackQty)
			}
		})
	}
}

func TestProductMargin(t *testing.T) {
	p := &Product{PurchasePrice: 1000, SellingPrice: 1500}
	if got := p.Margin(); got != 500 {
		t.Errorf("Margin() = %d, want 500", got)
	}
}
