// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/CoderNitu/Inven-Track/internal/api/handlers"
	"github.com/CoderNitu/Inven-Track/internal/api/middleware"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/service"
)

type Services struct {
	ForecastService      *service.ForecastService
	ReplenishmentService *service.ReplenishmentService
	DashboardService     *service.DashboardService
}

func NewRouter(services *Services, registry *metrics.Registry, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if registry != nil {
		router.GET("/metrics", gin.WrapH(registry.Handler()))
	}

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.ForecastService != nil && services.DashboardService != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.ForecastService, services.DashboardService)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.POST("/forecasts/generate", analyticsHandler.GenerateForecasts)
				analyticsGroup.POST("/stockouts/generate", analyticsHandler.GenerateStockouts)
				analyticsGroup.POST("/seasonal/generate", analyticsHandler.GenerateSeasonal)

				analyticsGroup.GET("/summary", analyticsHandler.GetSummary)
				analyticsGroup.GET("/demand_by_date", analyticsHandler.GetDemandByDate)
				analyticsGroup.GET("/critical_stockouts", analyticsHandler.GetCriticalStockouts)
				analyticsGroup.GET("/products/:id/forecasts", analyticsHandler.GetProductForecasts)
				analyticsGroup.GET("/products/:id/seasonal", analyticsHandler.GetSeasonalProfile)
			}
		}

		if services.ReplenishmentService != nil && services.DashboardService != nil {
			replenishmentHandler := handlers.NewReplenishmentHandler(services.ReplenishmentService, services.DashboardService)
			replenishmentGroup := apiGroup.Group("/replenishment")
			{
				replenishmentGroup.GET("/needs", replenishmentHandler.CheckNeeds)
				replenishmentGroup.POST("/orders/process", replenishmentHandler.ProcessOrders)
				replenishmentGroup.GET("/orders/pending", replenishmentHandler.GetPendingOrders)
				replenishmentGroup.PUT("/orders/:id/status", replenishmentHandler.UpdateOrderStatus)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
