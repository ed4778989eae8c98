package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/cache"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/service"
)

// LowStockWorker rebuilds the per-site low-stock report on a fixed interval
// and keeps the cached copy warm for the dashboard.
type LowStockWorker struct {
	siteRepo         *repository.SiteRepository
	dashboardService *service.DashboardService
	stockCache       *cache.StockCache
	interval         time.Duration
	cacheTTL         time.Duration
}

// NewLowStockWorker constructs a LowStockWorker.
func NewLowStockWorker(
	siteRepo *repository.SiteRepository,
	dashboardService *service.DashboardService,
	stockCache *cache.StockCache,
	interval time.Duration,
	cacheTTL time.Duration,
) *LowStockWorker {
	return &LowStockWorker{
		siteRepo:         siteRepo,
		dashboardService: dashboardService,
		stockCache:       stockCache,
		interval:         interval,
		cacheTTL:         cacheTTL,
	}
}

// Start begins the scan loop and listens for context cancellation.
func (w *LowStockWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting low stock worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Low stock worker stopped")
			return
		}
	}
}

func (w *LowStockWorker) run(ctx context.Context) {
	siteIDs, err := w.siteRepo.ListActiveIDs()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active sites")
		return
	}

	for _, siteID := range siteIDs {
		report, err := w.dashboardService.BuildLowStockReport(siteID)
		if err != nil {
			log.Error().Err(err).Int("site_id", siteID).Msg("Failed to build low stock report")
			continue
		}

		if w.stockCache != nil {
			if err := w.stockCache.SetLowStockReport(ctx, siteID, report, w.cacheTTL); err != nil {
				log.Warn().Err(err).Int("site_id", siteID).Msg("Failed to cache low stock report")
			}
		}

		if len(report) > 0 {
			log.Info().Int("site_id", siteID).Int("products", len(report)).Msg("Low stock report refreshed")
		}
	}
}
