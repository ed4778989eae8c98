package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// StockSnapshot is the cached view of a product served on the scan path.
// Cashiers scan CUG codes in bursts; serving the snapshot from Redis keeps
// the hot lookup off the database. The snapshot is invalidated on every
// stock mutation, so a stale read only survives until the next movement.
type StockSnapshot struct {
	ProductID      int             `json:"productId"`
	SiteID         int             `json:"siteId"`
	CUG            string          `json:"cug"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	AlertThreshold decimal.Decimal `json:"alertThreshold"`
	SellingPrice   int64           `json:"sellingPrice"`
	CachedAt       time.Time       `json:"cachedAt"`
}

// StockCache provides product snapshot caching for the CUG scan endpoint.
type StockCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewStockCache creates a new StockCache with the given snapshot TTL.
func NewStockCache(redis *RedisClient, ttl time.Duration) *StockCache {
	return &StockCache{
		redis: redis,
		ttl:   ttl,
	}
}

// keyScan returns the Redis key for a CUG scan within a site.
func (c *StockCache) keyScan(siteID int, cug string) string {
	return fmt.Sprintf("stock:scan:%d:%s", siteID, cug)
}

// keyLowStock returns the Redis key for the cached low-stock report of a site.
func (c *StockCache) keyLowStock(siteID int) string {
	return fmt.Sprintf("stock:lowstock:%d", siteID)
}

// SetSnapshot stores a product snapshot under its site-scoped CUG key.
func (c *StockCache) SetSnapshot(ctx context.Context, snap *StockSnapshot) error {
	snap.CachedAt = time.Now()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.redis.Set(ctx, c.keyScan(snap.SiteID, snap.CUG), string(data), c.ttl)
}

// GetSnapshot returns the cached snapshot or nil on a miss.
func (c *StockCache) GetSnapshot(ctx context.Context, siteID int, cug string) (*StockSnapshot, error) {
	raw, err := c.redis.Get(ctx, c.keyScan(siteID, cug))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap StockSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// InvalidateSnapshot drops the cached snapshot after a stock mutation.
func (c *StockCache) InvalidateSnapshot(ctx context.Context, siteID int, cug string) error {
	return c.redis.Delete(ctx, c.keyScan(siteID, cug))
}

// SetLowStockReport caches the serialized low-stock report for a site.
// Written by the low-stock worker, read by the dashboard endpoint.
func (c *StockCache) SetLowStockReport(ctx context.Context, siteID int, report interface{}, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal low stock report: %w", err)
	}
	return c.redis.Set(ctx, c.keyLowStock(siteID), string(data), ttl)
}

// GetLowStockReport returns the raw cached report, or "" on a miss.
func (c *StockCache) GetLowStockReport(ctx context.Context, siteID int) (string, error) {
	raw, err := c.redis.Get(ctx, c.keyLowStock(siteID))
	if err == redis.Nil {
		return "", nil
	}
	return raw, err
}
