package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/safecoastpro/coastwatch/internal/api"
	"github.com/safecoastpro/coastwatch/internal/config"
	"github.com/safecoastpro/coastwatch/internal/observability"
	"github.com/safecoastpro/coastwatch/internal/scheduler"
	"github.com/safecoastpro/coastwatch/internal/services"
	"github.com/safecoastpro/coastwatch/pkg/client"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Coastal Flood Forecast Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	// Asset access: remote release registry with local fallback
	clientConfig := client.ClientConfig{
		Timeout:        cfg.Assets.FetchTimeout,
		MaxRetries:     cfg.Retry.MaxRetries,
		RetryDelay:     cfg.Retry.Delay,
		Multiplier:     cfg.Retry.Multiplier,
		Threshold:      cfg.CircuitBreaker.Threshold,
		BreakerTimeout: cfg.CircuitBreaker.Timeout,
	}
	releases := client.NewReleaseClient(cfg.Assets.RegistryURL, cfg.Assets.ReleaseTag, clientConfig, logger)
	fetcher := client.NewAssetFetcher(releases, cfg.Assets.LocalDataDir, logger)

	// Services
	forecasts := services.NewForecastService(fetcher, cfg.Assets.SiteRegistry, cfg.Forecast.HorizonDays, metrics, logger)
	catalogs := services.NewCatalogCache(fetcher, metrics, logger)
	history := services.NewHistoryService(catalogs, logger)

	// Initialize scheduler
	refreshScheduler := scheduler.NewScheduler(forecasts, cfg.Forecast.RefreshCronSpec, cfg.Assets.FetchTimeout, logger)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	// Setup handlers and routes
	handler := api.NewHandler(forecasts, history, catalogs, logger)
	api.SetupRoutes(app, handler, logger)

	// Start scheduler
	if err := refreshScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop scheduler
	refreshScheduler.Stop()

	// Shutdown Fiber app
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func errorHandler(c *fiber.Ctx, err error) error {
	zap.L().Error("HTTP error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))

	// Default to 500 status code
	code := fiber.StatusInternalServerError

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   err.Error(),
		"success": false,
	})
}
