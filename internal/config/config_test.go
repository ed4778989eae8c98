package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "boli")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "bolibanastock")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %s, want development", cfg.Env)
	}
	if cfg.DB.SSLMode != "disable" {
		t.Errorf("DB.SSLMode = %s, want disable", cfg.DB.SSLMode)
	}
	if cfg.Worker.LowStockScanInterval != 5*time.Minute {
		t.Errorf("LowStockScanInterval = %s, want 5m", cfg.Worker.LowStockScanInterval)
	}
	if cfg.Worker.AlertDispatchInterval != time.Minute {
		t.Errorf("AlertDispatchInterval = %s, want 1m", cfg.Worker.AlertDispatchInterval)
	}
	if cfg.Alert.MaxRetries != 5 {
		t.Errorf("Alert.MaxRetries = %d, want 5", cfg.Alert.MaxRetries)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without DB_HOST")
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() succeeded without JWT_SECRET")
	}
}

func TestLoadParsesWorkerIntervals(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOW_STOCK_SCAN_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Worker.LowStockScanInterval != 30*time.Second {
		t.Errorf("LowStockScanInterval = %s, want 30s", cfg.Worker.LowStockScanInterval)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALERT_DISPATCH_INTERVAL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted invalid duration")
	}
}
