package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSnapshotUnitPrice(t *testing.T) {
	product := &models.Product{PurchasePrice: 1000, SellingPrice: 1500}

	tests := []struct {
		kind stock.MovementKind
		want int64
	}{
		{stock.MovementIn, 1000},
		{stock.MovementOut, 1500},
		{stock.MovementLoss, 1000},
		{stock.MovementAdjustment, 1000},
	}
	for _, tt := range tests {
		if got := snapshotUnitPrice(tt.kind, product); got != tt.want {
			t.Errorf("snapshotUnitPrice(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestMovementTotal(t *testing.T) {
	tests := []struct {
		name      string
		kind      stock.MovementKind
		magnitude string
		before    string
		unitPrice int64
		want      int64
	}{
		{"inbound values magnitude", stock.MovementIn, "10", "5", 500, 5000},
		{"outbound values magnitude", stock.MovementOut, "3", "8", 1500, 4500},
		{"adjustment values delta up", stock.MovementAdjustment, "12", "10", 500, 1000},
		{"adjustment values delta down", stock.MovementAdjustment, "4", "10", 500, 3000},
		{"adjustment to same quantity is free", stock.MovementAdjustment, "7", "7", 500, 0},
		{"fractional quantities truncate to whole francs", stock.MovementOut, "2.5", "10", 100, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := movementTotal(tt.kind, dec(tt.magnitude), dec(tt.before), tt.unitPrice)
			if got != tt.want {
				t.Errorf("movementTotal = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildStockOperationResult(t *testing.T) {
	movement := &models.StockMovement{
		Type:           stock.MovementBackorder,
		Quantity:       dec("8"),
		QuantityBefore: dec("5"),
		QuantityAfter:  dec("-3"),
	}

	result := buildStockOperationResult(movement, dec("5"))

	if !result.Success {
		t.Error("expected success=true")
	}
	if !result.OldQuantity.Equal(dec("5")) {
		t.Errorf("OldQuantity = %s, want 5", result.OldQuantity)
	}
	if !result.NewQuantity.Equal(dec("-3")) {
		t.Errorf("NewQuantity = %s, want -3", result.NewQuantity)
	}
	if result.StockStatus != stock.StatusOutOfStock {
		t.Errorf("StockStatus = %s, want %s", result.StockStatus, stock.StatusOutOfStock)
	}
	if !result.HasBackorder {
		t.Error("expected HasBackorder=true")
	}
	if !result.BackorderQuantity.Equal(dec("3")) {
		t.Errorf("BackorderQuantity = %s, want 3", result.BackorderQuantity)
	}
}

func TestBuildStockOperationResultInStock(t *testing.T) {
	movement := &models.StockMovement{
		Type:           stock.MovementIn,
		Quantity:       dec("20"),
		QuantityBefore: dec("2"),
		QuantityAfter:  dec("22"),
	}

	result := buildStockOperationResult(movement, dec("5"))

	if result.StockStatus != stock.StatusInStock {
		t.Errorf("StockStatus = %s, want %s", result.StockStatus, stock.StatusInStock)
	}
	if result.HasBackorder {
		t.Error("expected HasBackorder=false")
	}
	if !result.BackorderQuantity.IsZero() {
		t.Errorf("BackorderQuantity = %s, want 0", result.BackorderQuantity)
	}
}

func TestMovementMessage(t *testing.T) {
	tests := []struct {
		movement models.StockMovement
		contains string
	}{
		{models.StockMovement{Type: stock.MovementIn, Quantity: dec("10")}, "Ajout de 10"},
		{models.StockMovement{Type: stock.MovementOut, Quantity: dec("3")}, "Retrait de 3"},
		{models.StockMovement{Type: stock.MovementLoss, Quantity: dec("2")}, "Perte de 2"},
		{models.StockMovement{Type: stock.MovementBackorder, Quantity: dec("8")}, "backorder"},
		{models.StockMovement{Type: stock.MovementAdjustment, QuantityAfter: dec("15")}, "ajusté à 15"},
	}
	for _, tt := range tests {
		got := movementMessage(&tt.movement)
		if !strings.Contains(got, tt.contains) {
			t.Errorf("movementMessage(%s) = %q, want substring %q", tt.movement.Type, got, tt.contains)
		}
	}
}
