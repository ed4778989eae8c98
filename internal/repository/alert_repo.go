package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/DJIMIGA/bolibanastock/internal/models"
)

// AlertRepository handles data access for queued stock alerts.
type AlertRepository struct {
	db *sqlx.DB
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(db *sqlx.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create queues a new alert unless an unsent alert of the same kind is
// already pending for the product, avoiding duplicate notifications while
// the product stays below threshold.
func (r *AlertRepository) Create(a *models.StockAlert) error {
	const q = `
        INSERT INTO stock_alerts (site_id, product_id, kind, quantity, status, retry_count)
        SELECT $1, $2, $3, $4, 'pending', 0
        WHERE NOT EXISTS (
            SELECT 1 FROM stock_alerts
            WHERE product_id = $2 AND kind = $3 AND status = 'pending'
        )
        RETURNING id, created_at`

	err := r.db.QueryRowx(q, a.SiteID, a.ProductID, a.Kind, a.Quantity).Scan(&a.ID, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Duplicate pending alert: nothing inserted, not an error.
		return nil
	}
	return err
}

// GetPending returns pending alerts under the retry budget, oldest first.
func (r *AlertRepository) GetPending(maxRetries, limit int) ([]models.StockAlert, error) {
	const q = `
        SELECT a.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_alerts a
        JOIN products p ON p.id = a.product_id
        WHERE a.status = 'pending' AND a.retry_count < $1
        ORDER BY a.created_at
        LIMIT $2`

	var alerts []models.StockAlert
	if err := r.db.Select(&alerts, q, maxRetries, limit); err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkSent flags an alert as delivered.
func (r *AlertRepository) MarkSent(id int) error {
	const q = `UPDATE stock_alerts SET status = 'sent', sent_at = $2 WHERE id = $1`
	_, err := r.db.Exec(q, id, time.Now())
	return err
}

// MarkFailed increments the retry counter and records the delivery error.
// Once the retry budget is exhausted the row flips to failed.
func (r *AlertRepository) MarkFailed(id, maxRetries int, lastError string) error {
	const q = `
        UPDATE stock_alerts SET
            retry_count = retry_count + 1,
            last_error = $2,
            status = CASE WHEN retry_count + 1 >= $3 THEN 'failed' ELSE 'pending' END
        WHERE id = $1`
	_, err := r.db.Exec(q, id, lastError, maxRetries)
	return err
}

// ListByProduct returns the alert history of a product.
func (r *AlertRepository) ListByProduct(productID, siteID int) ([]models.StockAlert, error) {
	const q = `
        SELECT a.*, p.name AS product_name, p.cug AS product_cug
        FROM stock_alerts a
        JOIN products p ON p.id = a.product_id
        WHERE a.product_id = $1 AND a.site_id = $2
        ORDER BY a.created_at DESC`

	var alerts []models.StockAlert
	if err := r.db.Select(&alerts, q, productID, siteID); err != nil {
		return nil, err
	}
	return alerts, nil
}
