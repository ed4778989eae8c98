package repository

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

// testDB opens the database named by TEST_DATABASE_URL, or skips the test.
// The schema from migrations/ must already be applied.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_DATABASE_URL"))
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run database tests")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type txFixture struct {
	SiteID    int
	UserID    int
	ProductID int
}

func seedTxFixture(t *testing.T, db *sqlx.DB, quantity string) txFixture {
	t.Helper()

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	var f txFixture

	if err := db.QueryRowx(
		`INSERT INTO sites (name) VALUES ($1) RETURNING id`,
		"tx-site-"+suffix,
	).Scan(&f.SiteID); err != nil {
		t.Fatalf("seed site: %v", err)
	}
	if err := db.QueryRowx(
		`INSERT INTO users (site_id, email, name, password_hash) VALUES ($1, $2, 'Tx Tester', 'x') RETURNING id`,
		f.SiteID, "tx-"+suffix+"@test.local",
	).Scan(&f.UserID); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := db.QueryRowx(
		`INSERT INTO products (site_id, cug, name, quantity, alert_threshold, purchase_price, selling_price)
         VALUES ($1, $2, 'Savon de test', $3, 5, 300, 500) RETURNING id`,
		f.SiteID, "TX"+suffix, quantity,
	).Scan(&f.ProductID); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM stock_movements WHERE product_id = $1`, f.ProductID)
		db.Exec(`DELETE FROM products WHERE id = $1`, f.ProductID)
		db.Exec(`DELETE FROM users WHERE id = $1`, f.UserID)
		db.Exec(`DELETE FROM sites WHERE id = $1`, f.SiteID)
	})
	return f
}

// A stock mutation is one transaction: lock the row, write the new
// quantity, append the movement. Commit must persist both writes.
func TestStockMutationCommitsQuantityAndMovement(t *testing.T) {
	db := testDB(t)
	f := seedTxFixture(t, db, "10")

	products := NewProductRepository(db)
	movements := NewMovementRepository(db)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	p, err := products.GetForUpdate(tx, f.ProductID, f.SiteID)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if !p.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("locked quantity = %s, want 10", p.Quantity)
	}

	after := decimal.NewFromInt(7)
	if err := products.UpdateQuantityTx(tx, f.ProductID, after); err != nil {
		t.Fatalf("UpdateQuantityTx: %v", err)
	}

	m := &models.StockMovement{
		SiteID:         f.SiteID,
		ProductID:      f.ProductID,
		Type:           stock.MovementOut,
		Quantity:       decimal.NewFromInt(3),
		QuantityBefore: p.Quantity,
		QuantityAfter:  after,
		UnitPrice:      500,
		TotalAmount:    1500,
		UserID:         f.UserID,
	}
	if err := movements.CreateTx(tx, m); err != nil {
		t.Fatalf("CreateTx: %v", err)
	}
	if m.ID == 0 || m.CreatedAt.IsZero() {
		t.Errorf("CreateTx did not populate id/created_at: id=%d created_at=%v", m.ID, m.CreatedAt)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var got decimal.Decimal
	if err := db.Get(&got, `SELECT quantity FROM products WHERE id = $1`, f.ProductID); err != nil {
		t.Fatalf("reload quantity: %v", err)
	}
	if !got.Equal(after) {
		t.Errorf("quantity after commit = %s, want %s", got, after)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, f.ProductID); err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != 1 {
		t.Errorf("movement count after commit = %d, want 1", count)
	}
}

// Rolling the transaction back must leave neither the quantity change
// nor the movement row behind.
func TestStockMutationRollbackLeavesNoTrace(t *testing.T) {
	db := testDB(t)
	f := seedTxFixture(t, db, "10")

	products := NewProductRepository(db)
	movements := NewMovementRepository(db)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	p, err := products.GetForUpdate(tx, f.ProductID, f.SiteID)
	if err != nil {
		tx.Rollback()
		t.Fatalf("GetForUpdate: %v", err)
	}
	if err := products.UpdateQuantityTx(tx, f.ProductID, decimal.NewFromInt(1)); err != nil {
		tx.Rollback()
		t.Fatalf("UpdateQuantityTx: %v", err)
	}
	m := &models.StockMovement{
		SiteID:         f.SiteID,
		ProductID:      f.ProductID,
		Type:           stock.MovementLoss,
		Quantity:       decimal.NewFromInt(9),
		QuantityBefore: p.Quantity,
		QuantityAfter:  decimal.NewFromInt(1),
		UnitPrice:      300,
		TotalAmount:    2700,
		UserID:         f.UserID,
	}
	if err := movements.CreateTx(tx, m); err != nil {
		tx.Rollback()
		t.Fatalf("CreateTx: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var got decimal.Decimal
	if err := db.Get(&got, `SELECT quantity FROM products WHERE id = $1`, f.ProductID); err != nil {
		t.Fatalf("reload quantity: %v", err)
	}
	if !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("quantity after rollback = %s, want 10", got)
	}

	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, f.ProductID); err != nil {
		t.Fatalf("count movements: %v", err)
	}
	if count != 0 {
		t.Errorf("movement count after rollback = %d, want 0", count)
	}
}
