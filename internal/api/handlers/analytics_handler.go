// internal/api/handlers/analytics_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/service"
)

type AnalyticsHandler struct {
	forecasts *service.ForecastService
	dashboard *service.DashboardService
}

func NewAnalyticsHandler(forecasts *service.ForecastService, dashboard *service.DashboardService) *AnalyticsHandler {
	return &AnalyticsHandler{forecasts: forecasts, dashboard: dashboard}
}

// GenerateForecasts runs the demand forecast batch over all active
// products and returns one status row per product.
func (h *AnalyticsHandler) GenerateForecasts(c *gin.Context) {
	results, err := h.forecasts.RunDemandForecasts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("demand forecast batch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate forecasts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GenerateStockouts runs the stockout prediction batch.
func (h *AnalyticsHandler) GenerateStockouts(c *gin.Context) {
	results, err := h.forecasts.RunStockoutForecasts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("stockout prediction batch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to predict stockouts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GenerateSeasonal runs the seasonal analysis batch.
func (h *AnalyticsHandler) GenerateSeasonal(c *gin.Context) {
	results, err := h.forecasts.RunSeasonalAnalysis(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("seasonal analysis batch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze seasonal patterns"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetSummary returns the dashboard rollup
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDemandByDate returns aggregate forecast demand per target date
func (h *AnalyticsHandler) GetDemandByDate(c *gin.Context) {
	days := parsePositiveIntWithDefault(c.Query("days"), 30)
	aggregates, err := h.dashboard.DemandForecastByDate(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch demand aggregates"})
		return
	}
	c.JSON(http.StatusOK, aggregates)
}

// GetCriticalStockouts lists products at critical stockout risk
func (h *AnalyticsHandler) GetCriticalStockouts(c *gin.Context) {
	risks, err := h.dashboard.CriticalRisks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch critical stockouts"})
		return
	}
	c.JSON(http.StatusOK, risks)
}

// GetProductForecasts returns the stored forecast of one product
func (h *AnalyticsHandler) GetProductForecasts(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	limit := parsePositiveIntWithDefault(c.Query("limit"), 30)
	forecasts, err := h.dashboard.ProductForecasts(c.Request.Context(), productID, limit)
	if err != nil {
		if errors.Is(err, domain.ErrMissingState) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch product forecasts"})
		return
	}
	c.JSON(http.StatusOK, forecasts)
}

// GetSeasonalProfile returns the monthly demand profile of one product
func (h *AnalyticsHandler) GetSeasonalProfile(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	indices, err := h.dashboard.SeasonalProfile(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingState) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch seasonal profile"})
		return
	}
	c.JSON(http.StatusOK, indices)
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && v > 0 {
		return v
	}
	return fallback
}
