package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frecha/iotech-storefront/config"
	"github.com/frecha/iotech-storefront/internal/app/controller"
	"github.com/frecha/iotech-storefront/internal/app/repository"
	"github.com/frecha/iotech-storefront/internal/app/service"
	"github.com/frecha/iotech-storefront/internal/db"
	"github.com/frecha/iotech-storefront/internal/middleware"
	"github.com/frecha/iotech-storefront/internal/router"
	"github.com/frecha/iotech-storefront/internal/scheduler"
	"github.com/frecha/iotech-storefront/pkg/logger"
	"github.com/frecha/iotech-storefront/pkg/redis"
	"github.com/frecha/iotech-storefront/pkg/storeapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Frecha Storefront Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"upstream":    cfg.Upstream.BaseURL,
		"log_level":   logLevel,
	})

	// Initialize the cart snapshot store
	if err := db.Initialize(&cfg.Snapshot); err != nil {
		logger.Fatal("Failed to initialize snapshot store", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close snapshot store", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis for session identity and recent searches
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Upstream store client
	storeClient, err := storeapi.NewClient(storeapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create store API client", err)
	}

	// Initialize repositories
	snapshotRepo := repository.NewCartSnapshotRepository(db.GetDB())
	sessionRepo := repository.NewSessionRepository(redis.GetClient())

	// Initialize services
	cartService := service.NewCartService(snapshotRepo)
	authService := service.NewAuthService(storeClient, sessionRepo, cfg.Session.TokenExpiry)
	checkoutService := service.NewCheckoutService(
		cartService,
		authService,
		sessionRepo,
		storeClient,
		cfg.Checkout.MinPasswordLength,
		cfg.Session.TokenExpiry,
	)
	catalogService := service.NewCatalogService(storeClient)
	trackingService := service.NewTrackingService(storeClient, sessionRepo)

	// Initialize controllers
	sessionController := controller.NewSessionController(cfg.Session.Secret, cfg.Session.TokenExpiry)
	cartController := controller.NewCartController(cartService)
	checkoutController := controller.NewCheckoutController(checkoutService)
	authController := controller.NewAuthController(authService)
	catalogController := controller.NewCatalogController(catalogService)
	trackingController := controller.NewTrackingController(trackingService)

	// Initialize middleware
	sessionMiddleware := middleware.NewSessionMiddleware(cfg.Session.Secret)

	// Catalog refresh schedule
	catalogScheduler := scheduler.NewCatalogScheduler(catalogService, cfg.Catalog.RefreshSchedule)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		sessionController,
		cartController,
		checkoutController,
		authController,
		catalogController,
		trackingController,
		sessionMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
