package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DJIMIGA/bolibanastock/internal/cache"
	"github.com/DJIMIGA/bolibanastock/internal/config"
	"github.com/DJIMIGA/bolibanastock/internal/database"
	"github.com/DJIMIGA/bolibanastock/internal/handler"
	"github.com/DJIMIGA/bolibanastock/internal/middleware"
	"github.com/DJIMIGA/bolibanastock/internal/repository"
	"github.com/DJIMIGA/bolibanastock/internal/service"
	"github.com/DJIMIGA/bolibanastock/internal/sse"
	"github.com/DJIMIGA/bolibanastock/internal/utils"
	"github.com/DJIMIGA/bolibanastock/internal/worker"
)

// main is the application entrypoint for the BolibanaStock API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting bolibanastock api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Install JWT signing secret
	utils.SetJWTSecret(cfg.JWTSecret)

	// 3d. Initialize stock snapshot cache
	stockCache := cache.NewStockCache(redisClient, cfg.Worker.ScanCacheTTL)

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	userRepo := repository.NewUserRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// 5. Initialize SSE hub and notifier
	hub := sse.NewHub()
	notifier := sse.NewHubNotifier(hub)

	// 6. Initialize services
	inventorySvc := service.NewInventoryService(db, productRepo, movementRepo, alertRepo, stockCache, notifier)
	productSvc := service.NewProductService(productRepo, categoryRepo, stockCache)
	saleSvc := service.NewSaleService(db, saleRepo, movementRepo, inventorySvc, notifier)
	authSvc := service.NewAuthService(userRepo)
	dashboardSvc := service.NewDashboardService(productRepo, movementRepo, saleRepo, stockCache)

	// Image storage is optional: product image upload is disabled without
	// credentials.
	var s3Svc *service.S3Service
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		s3Svc, err = service.NewS3Service(&cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("S3 service initialization failed - image upload will be disabled")
		}
	} else {
		log.Info().Msg("S3 credentials not configured - image upload disabled")
	}

	// 7. Initialize handlers
	loginLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(db, redisClient),
		Auth:      handler.NewAuthHandler(authSvc, loginLimiter),
		Product:   handler.NewProductHandler(productSvc, s3Svc),
		Stock:     handler.NewStockHandler(inventorySvc),
		Sale:      handler.NewSaleHandler(saleSvc),
		Catalog:   handler.NewCatalogHandler(categoryRepo),
		Site:      handler.NewSiteHandler(siteRepo),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		SSE:       handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewLowStockWorker(siteRepo, dashboardSvc, stockCache, cfg.Worker.LowStockScanInterval, cfg.Worker.ScanCacheTTL).Start(ctx)
	go worker.NewAlertWorker(alertRepo, &cfg.Alert, cfg.Worker.AlertDispatchInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Stock     *handler.StockHandler
	Sale      *handler.SaleHandler
	Catalog   *handler.CatalogHandler
	Site      *handler.SiteHandler
	Dashboard *handler.DashboardHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/health", handlers.Health.GetHealth)

	// Public routes
	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", handlers.Auth.Login)

	// SSE authenticates via token query param (EventSource cannot set headers)
	v1.GET("/events", handlers.SSE.Stream)

	// Protected routes
	api := v1.Group("")
	api.Use(jwtMiddleware.Handle())
	{
		api.GET("/auth/me", handlers.Auth.Me)
		api.POST("/auth/change_password", handlers.Auth.ChangePassword)

		api.GET("/products", handlers.Product.List)
		api.POST("/products", handlers.Product.Create)
		api.GET("/products/scan/:cug", handlers.Product.Scan)
		api.GET("/products/:id", handlers.Product.Get)
		api.PUT("/products/:id", handlers.Product.Update)
		api.DELETE("/products/:id", handlers.Product.Delete)
		api.POST("/products/:id/image", handlers.Product.UploadImage)

		api.POST("/products/:id/add_stock", handlers.Stock.AddStock)
		api.POST("/products/:id/remove_stock", handlers.Stock.RemoveStock)
		api.POST("/products/:id/declare_loss", handlers.Stock.DeclareLoss)
		api.POST("/products/:id/adjust_stock", handlers.Stock.AdjustStock)
		api.GET("/products/:id/stock_movements", handlers.Stock.StockMovements)

		api.GET("/sales", handlers.Sale.List)
		api.POST("/sales", handlers.Sale.Create)
		api.GET("/sales/:id", handlers.Sale.Get)
		api.POST("/sales/:id/cancel", handlers.Sale.Cancel)
		api.GET("/sales/:id/movements", handlers.Sale.Movements)

		api.GET("/categories", handlers.Catalog.ListCategories)
		api.POST("/categories", handlers.Catalog.CreateCategory)
		api.PUT("/categories/:id", handlers.Catalog.UpdateCategory)
		api.DELETE("/categories/:id", handlers.Catalog.DeleteCategory)

		api.GET("/brands", handlers.Catalog.ListBrands)
		api.POST("/brands", handlers.Catalog.CreateBrand)
		api.DELETE("/brands/:id", handlers.Catalog.DeleteBrand)

		api.GET("/sites", handlers.Site.List)

		api.GET("/dashboard", handlers.Dashboard.Dashboard)
		api.GET("/dashboard/low_stock", handlers.Dashboard.LowStockReport)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
