package stock

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyMovement_Inbound(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		magnitude string
		want      string
	}{
		{"from zero", "0", "5", "5"},
		{"from positive", "3", "2.5", "5.5"},
		{"clears backorder", "-5", "8", "3"},
		{"partial backorder clear", "-5", "3", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ApplyMovement(dec(tt.current), MovementIn, dec(tt.magnitude))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.NewQuantity.Equal(dec(tt.want)) {
				t.Errorf("new quantity = %s, want %s", res.NewQuantity, tt.want)
			}
			if res.RecordedKind != MovementIn {
				t.Errorf("recorded kind = %s, want %s", res.RecordedKind, MovementIn)
			}
		})
	}
}

func TestApplyMovement_OutboundNeverBlocks(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		magnitude    string
		want         string
		wantRecorded MovementKind
	}{
		{"plenty of stock", "3", "2", "1", MovementOut},
		{"exactly to zero", "1", "1", "0", MovementOut},
		{"into backorder", "0", "5", "-5", MovementBackorder},
		{"deeper backorder", "-2", "3", "-5", MovementBackorder},
		{"fractional", "1.5", "2", "-0.5", MovementBackorder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ApplyMovement(dec(tt.current), MovementOut, dec(tt.magnitude))
			if err != nil {
				t.Fatalf("outbound must never fail on insufficient stock, got: %v", err)
			}
			if !res.NewQuantity.Equal(dec(tt.want)) {
				t.Errorf("new quantity = %s, want %s", res.NewQuantity, tt.want)
			}
			if res.RecordedKind != tt.wantRecorded {
				t.Errorf("recorded kind = %s, want %s", res.RecordedKind, tt.wantRecorded)
			}
		})
	}
}

func TestApplyMovement_LossRelabelsLikeOut(t *testing.T) {
	res, err := ApplyMovement(dec("2"), MovementLoss, dec("1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RecordedKind != MovementLoss {
		t.Errorf("recorded kind = %s, want %s", res.RecordedKind, MovementLoss)
	}

	res, err = ApplyMovement(dec("2"), MovementLoss, dec("3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RecordedKind != MovementBackorder {
		t.Errorf("loss into negative: recorded kind = %s, want %s", res.RecordedKind, MovementBackorder)
	}
	if !res.NewQuantity.Equal(dec("-1")) {
		t.Errorf("new quantity = %s, want -1", res.NewQuantity)
	}
}

func TestApplyMovement_AdjustmentSetsAbsoluteTarget(t *testing.T) {
	for _, current := range []string{"0", "10", "-4"} {
		res, err := ApplyMovement(dec(current), MovementAdjustment, dec("7"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.NewQuantity.Equal(dec("7")) {
			t.Errorf("from %s: new quantity = %s, want 7", current, res.NewQuantity)
		}
		if res.RecordedKind != MovementAdjustment {
			t.Errorf("recorded kind = %s, want %s", res.RecordedKind, MovementAdjustment)
		}
	}

	// Negative target is allowed and keeps its kind.
	res, err := ApplyMovement(dec("10"), MovementAdjustment, dec("-3"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NewQuantity.Equal(dec("-3")) {
		t.Errorf("new quantity = %s, want -3", res.NewQuantity)
	}
	if res.RecordedKind != MovementAdjustment {
		t.Errorf("recorded kind = %s, want %s", res.RecordedKind, MovementAdjustment)
	}
}

func TestApplyMovement_RejectsNonPositiveMagnitude(t *testing.T) {
	for _, kind := range []MovementKind{MovementIn, MovementOut, MovementLoss} {
		for _, magnitude := range []string{"0", "-1"} {
			if _, err := ApplyMovement(dec("10"), kind, dec(magnitude)); err != ErrInvalidQuantity {
				t.Errorf("kind %s magnitude %s: err = %v, want ErrInvalidQuantity", kind, magnitude, err)
			}
		}
	}
}

func TestApplyMovement_UnknownKind(t *testing.T) {
	if _, err := ApplyMovement(dec("1"), MovementKind("transfer"), dec("1")); err != ErrUnknownKind {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
	// Backorder is a recorded kind only, never a requested one.
	if _, err := ApplyMovement(dec("1"), MovementBackorder, dec("1")); err != ErrUnknownKind {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		threshold string
		want      StockStatus
	}{
		{"above threshold", "11", "10", StatusInStock},
		{"equal to threshold is low", "10", "10", StatusLowStock},
		{"below threshold", "1", "10", StatusLowStock},
		{"exactly zero is out", "0", "10", StatusOutOfStock},
		{"negative is out", "-5", "10", StatusOutOfStock},
		{"zero threshold positive stock", "1", "0", StatusInStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(dec(tt.quantity), dec(tt.threshold))
			if got != tt.want {
				t.Errorf("DeriveStatus(%s, %s) = %s, want %s", tt.quantity, tt.threshold, got, tt.want)
			}
			// Pure function: re-deriving yields the identical result.
			if again := DeriveStatus(dec(tt.quantity), dec(tt.threshold)); again != got {
				t.Errorf("second derivation = %s, want %s", again, got)
			}
		})
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusLabel(StatusOutOfStock, dec("0")); got != "Rupture de stock" {
		t.Errorf("label = %q", got)
	}
	if got := StatusLabel(StatusOutOfStock, dec("-2")); got != "Rupture de stock (backorder)" {
		t.Errorf("label = %q", got)
	}
	if got := StatusLabel(StatusLowStock, dec("3")); got != "Stock faible" {
		t.Errorf("label = %q", got)
	}
	if got := StatusLabel(StatusInStock, dec("30")); got != "En stock" {
		t.Errorf("label = %q", got)
	}
}

func TestBackorder(t *testing.T) {
	if HasBackorder(dec("0")) || HasBackorder(dec("3")) {
		t.Error("non-negative quantity must not report backorder")
	}
	if !HasBackorder(dec("-0.5")) {
		t.Error("negative quantity must report backorder")
	}
	if !BackorderQuantity(dec("-5")).Equal(dec("5")) {
		t.Errorf("BackorderQuantity(-5) = %s, want 5", BackorderQuantity(dec("-5")))
	}
	if !BackorderQuantity(dec("4")).Equal(decimal.Zero) {
		t.Errorf("BackorderQuantity(4) = %s, want 0", BackorderQuantity(dec("4")))
	}
}

// End-to-end scenarios for the remove/add flows.
func TestMovementScenarios(t *testing.T) {
	// Q=3, remove 2 -> 1, no error.
	res, err := ApplyMovement(dec("3"), MovementOut, dec("2"))
	if err != nil || !res.NewQuantity.Equal(dec("1")) {
		t.Fatalf("scenario A: got %s, %v", res.NewQuantity, err)
	}

	// Q=1, remove 1 -> 0, out of stock, no backorder.
	res, _ = ApplyMovement(dec("1"), MovementOut, dec("1"))
	if DeriveStatus(res.NewQuantity, dec("5")) != StatusOutOfStock {
		t.Error("scenario B: expected out_of_stock")
	}
	if HasBackorder(res.NewQuantity) {
		t.Error("scenario B: zero quantity is not a backorder")
	}

	// Q=0, remove 5 -> -5, backorder of 5.
	res, _ = ApplyMovement(dec("0"), MovementOut, dec("5"))
	if !HasBackorder(res.NewQuantity) || !BackorderQuantity(res.NewQuantity).Equal(dec("5")) {
		t.Error("scenario C: expected backorder of 5")
	}
	if DeriveStatus(res.NewQuantity, dec("5")) != StatusOutOfStock {
		t.Error("scenario C: expected out_of_stock")
	}

	// Q=-5, add 8 -> 3, backorder cleared.
	res, _ = ApplyMovement(dec("-5"), MovementIn, dec("8"))
	if !res.NewQuantity.Equal(dec("3")) || HasBackorder(res.NewQuantity) {
		t.Error("scenario D: expected quantity 3 with no backorder")
	}
}
