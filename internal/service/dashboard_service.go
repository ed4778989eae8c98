package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DJIMIGA/bolibanastock/internal/cache"
	"github.com/DJIMIGA/bolibanastock/internal/models"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/stock"
)

// DashboardService aggregates the stock position of a site for back-office
// screens. Everything here is a read-time projection.
type DashboardService struct {
	productRepo  *repository.ProductRepository
	movementRepo *repository.MovementRepository
	saleRepo     *repository.SaleRepository
	stockCache   *cache.StockCache
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(
	productRepo *repository.ProductRepository,
	movementRepo *repository.MovementRepository,
	saleRepo *repository.SaleRepository,
	stockCache *cache.StockCache,
) *DashboardService {
	return &DashboardService{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		stockCache:   stockCache,
	}
}

// Dashboard is the aggregated site overview.
type Dashboard struct {
	TotalProducts   int                    `json:"totalProducts"`
	InStock         int                    `json:"inStock"`
	LowStock        int                    `json:"lowStock"`
	OutOfStock      int                    `json:"outOfStock"`
	Backorders      int                    `json:"backorders"`
	InventoryValue  decimal.Decimal        `json:"inventoryValue"`
	DailySalesTotal int64                  `json:"dailySalesTotal"`
	RecentMovements []models.StockMovement `json:"recentMovements"`
}

// GetDashboard builds the site overview.
func (s *DashboardService) GetDashboard(op models.OperationContext) (*Dashboard, error) {
	counts, err := s.productRepo.GetDashboardCounts(op.SiteID)
	if err != nil {
		return nil, err
	}

	dailyTotal, err := s.saleRepo.DailyTotal(op.SiteID)
	if err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.ListRecent(op.SiteID, 10)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		TotalProducts:   counts.TotalProducts,
		InStock:         counts.InStock,
		LowStock:        counts.LowStock,
		OutOfStock:      counts.OutOfStock,
		Backorders:      counts.Backorders,
		InventoryValue:  counts.InventoryValue,
		DailySalesTotal: dailyTotal,
		RecentMovements: movements,
	}, nil
}

// LowStockEntry is one row of the low-stock report.
type LowStockEntry struct {
	ProductID         int               `json:"productId"`
	CUG               string            `json:"cug"`
	Name              string            `json:"name"`
	Quantity          decimal.Decimal   `json:"quantity"`
	AlertThreshold    decimal.Decimal   `json:"alertThreshold"`
	StockStatus       stock.StockStatus `json:"stockStatus"`
	StatusLabel       string            `json:"statusLabel"`
	HasBackorder      bool              `json:"hasBackorder"`
	BackorderQuantity decimal.Decimal   `json:"backorderQuantity"`
}

// GetLowStockReport serves the cached report written by the low-stock
// worker, recomputing on a cache miss.
func (s *DashboardService) GetLowStockReport(ctx context.Context, op models.OperationContext) ([]LowStockEntry, error) {
	if s.stockCache != nil {
		raw, err := s.stockCache.GetLowStockReport(ctx, op.SiteID)
		if err != nil {
			log.Warn().Err(err).Int("site_id", op.SiteID).Msg("Low stock report cache read failed")
		}
		if raw != "" {
			var entries []LowStockEntry
			if err := json.Unmarshal([]byte(raw), &entries); err == nil {
				return entries, nil
			}
		}
	}
	return s.BuildLowStockReport(op.SiteID)
}

// BuildLowStockReport computes the report from the database. Also called
// by the low-stock worker to refresh the cache.
func (s *DashboardService) BuildLowStockReport(siteID int) ([]LowStockEntry, error) {
	products, err := s.productRepo.GetLowStock(siteID)
	if err != nil {
		return nil, err
	}

	entries := make([]LowStockEntry, 0, len(products))
	for i := range products {
		p := &products[i]
		status := p.StockStatus()
		entries = append(entries, LowStockEntry{
			ProductID:         p.ID,
			CUG:               p.CUG,
			Name:              p.Name,
			Quantity:          p.Quantity,
			AlertThreshold:    p.AlertThreshold,
			StockStatus:       status,
			StatusLabel:       stock.StatusLabel(status, p.Quantity),
			HasBackorder:      p.HasBackorder(),
			BackorderQuantity: p.BackorderQuantity(),
		})
	}
	return entries, nil
}
