// internal/api/handlers/replenishment_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/service"
)

type ReplenishmentHandler struct {
	replenishment *service.ReplenishmentService
	dashboard     *service.DashboardService
}

func NewReplenishmentHandler(replenishment *service.ReplenishmentService, dashboard *service.DashboardService) *ReplenishmentHandler {
	return &ReplenishmentHandler{replenishment: replenishment, dashboard: dashboard}
}

// CheckNeeds lists products at or below their reorder point without
// committing any order.
func (h *ReplenishmentHandler) CheckNeeds(c *gin.Context) {
	needs, err := h.replenishment.CheckReorderNeeds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check reorder needs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(needs),
		"results": needs,
	})
}

// ProcessOrders runs the automated replenishment pipeline and commits
// purchase orders for fulfillable breaches.
func (h *ReplenishmentHandler) ProcessOrders(c *gin.Context) {
	results, err := h.replenishment.ProcessAutomatedOrders(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("automated replenishment run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process automated orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"results": results,
	})
}

// GetPendingOrders lists purchase orders that are not yet received or
// cancelled.
func (h *ReplenishmentHandler) GetPendingOrders(c *gin.Context) {
	orders, err := h.dashboard.PendingOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch pending orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus transitions a purchase order
func (h *ReplenishmentHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	order, err := h.dashboard.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrMissingState) {
			c.JSON(http.StatusNotFound, gin.H{"error": "purchase order not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}
