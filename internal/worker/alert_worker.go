package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/config"
	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
)

const dispatchBatchSize = 50

// AlertWorker delivers pending stock alerts to the configured webhook.
// Each delivery is signed with HMAC-SHA256 so the receiver can verify
// the payload. Failed deliveries are retried on later ticks up to the
// configured budget.
type AlertWorker struct {
	alertRepo *repository.AlertRepository
	cfg       *config.AlertConfig
	client    *http.Client
	interval  time.Duration
}

// NewAlertWorker constructs an AlertWorker.
func NewAlertWorker(alertRepo *repository.AlertRepository, cfg *config.AlertConfig, interval time.Duration) *AlertWorker {
	return &AlertWorker{
		alertRepo: alertRepo,
		cfg:       cfg,
		client:    &http.Client{Timeout: 10 * time.Second},
		interval:  interval,
	}
}

// Start begins the dispatch loop and listens for context cancellation.
// The loop never starts when no webhook URL is configured.
func (w *AlertWorker) Start(ctx context.Context) {
	if w.cfg.WebhookURL == "" {
		log.Info().Msg("Alert worker disabled: no webhook URL configured")
		return
	}

	log.Info().Dur("interval", w.interval).Msg("Starting alert worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Alert worker stopped")
			return
		}
	}
}

func (w *AlertWorker) run(ctx context.Context) {
	alerts, err := w.alertRepo.GetPending(w.cfg.MaxRetries, dispatchBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load pending alerts")
		return
	}

	for _, alert := range alerts {
		if err := w.deliver(ctx, &alert); err != nil {
			log.Warn().Err(err).Int("alert_id", alert.ID).Int("retry", alert.RetryCount).Msg("Alert delivery failed")
			if err := w.alertRepo.MarkFailed(alert.ID, w.cfg.MaxRetries, err.Error()); err != nil {
				log.Error().Err(err).Int("alert_id", alert.ID).Msg("Failed to record alert failure")
			}
			continue
		}

		if err := w.alertRepo.MarkSent(alert.ID); err != nil {
			log.Error().Err(err).Int("alert_id", alert.ID).Msg("Failed to mark alert sent")
		}
	}
}

func (w *AlertWorker) deliver(ctx context.Context, alert *models.StockAlert) error {
	payload, err := json.Marshal(map[string]interface{}{
		"alert_id":   alert.ID,
		"site_id":    alert.SiteID,
		"product_id": alert.ProductID,
		"kind":       alert.Kind,
		"quantity":   alert.Quantity,
		"created_at": alert.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.WebhookSecret != "" {
		req.Header.Set("X-Signature", utils.GenerateSignature(payload, w.cfg.WebhookSecret))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
