// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CoderNitu/Inven-Track/internal/api"
	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/config"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository/postgres"
	"github.com/CoderNitu/Inven-Track/internal/service"
	"github.com/CoderNitu/Inven-Track/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize cache
	summaryCache, err := cache.NewSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		summaryCache = cache.NewNoopSummaryCache()
	}

	// Initialize repositories and services
	catalogRepo := postgres.NewCatalogRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	registry := metrics.NewRegistry()
	forecastService := service.NewForecastService(catalogRepo, ledgerRepo, forecastRepo, summaryCache, registry, cfg.Analytics)
	replenishmentService := service.NewReplenishmentService(catalogRepo, ledgerRepo, orderRepo, summaryCache, registry, cfg.Analytics)
	dashboardService := service.NewDashboardService(catalogRepo, forecastRepo, orderRepo, summaryCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ForecastService:      forecastService,
		ReplenishmentService: replenishmentService,
		DashboardService:     dashboardService,
	}, registry, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
