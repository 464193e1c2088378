// internal/service/dashboard_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/repository"
)

// DashboardService serves read-side analytics: the cached summary
// rollup, forecast listings and order state.
type DashboardService struct {
	catalog   repository.CatalogRepository
	forecasts repository.ForecastRepository
	orders    repository.OrderRepository
	cache     cache.SummaryCache
	now       func() time.Time
}

func NewDashboardService(
	catalog repository.CatalogRepository,
	forecasts repository.ForecastRepository,
	orders repository.OrderRepository,
	summaryCache cache.SummaryCache,
) *DashboardService {
	if summaryCache == nil {
		summaryCache = cache.NewNoopSummaryCache()
	}
	return &DashboardService{
		catalog:   catalog,
		forecasts: forecasts,
		orders:    orders,
		cache:     summaryCache,
		now:       time.Now,
	}
}

// Summary computes the dashboard rollup, serving from cache when a
// fresh copy exists. Cache failures degrade to a direct read.
func (s *DashboardService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	if cached, ok, err := s.cache.GetSummary(ctx); err != nil {
		log.Warn().Err(err).Msg("summary cache read failed")
	} else if ok {
		return cached, nil
	}

	now := s.now()
	horizon := now.AddDate(0, 0, 30)

	totalProducts, err := s.catalog.CountActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	belowReorder, err := s.catalog.CountBelowReorderPoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reorder breaches: %w", err)
	}
	criticalRisks, err := s.forecasts.CountCriticalStockouts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count critical stockouts: %w", err)
	}
	pendingOrders, err := s.orders.CountPendingOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	totalDemand, err := s.forecasts.TotalPredictedDemand(ctx, now, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to total predicted demand: %w", err)
	}
	avgConfidence, err := s.forecasts.AverageConfidence(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to average confidence: %w", err)
	}

	summary := &domain.AnalyticsSummary{
		TotalProducts:          totalProducts,
		ProductsBelowReorder:   belowReorder,
		CriticalStockoutRisks:  criticalRisks,
		PendingPurchaseOrders:  pendingOrders,
		TotalPredictedDemand:   totalDemand,
		AverageConfidenceLevel: avgConfidence,
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		log.Warn().Err(err).Msg("summary cache write failed")
	}
	return summary, nil
}

// ProductForecasts returns the stored demand forecast of one product
// from today forward.
func (s *DashboardService) ProductForecasts(ctx context.Context, productID int64, limit int) ([]domain.DemandForecast, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.forecasts.ListProductForecasts(ctx, productID, s.now(), limit)
}

// DemandForecastByDate aggregates stored forecasts across products for
// each target date in the next daysAhead days.
func (s *DashboardService) DemandForecastByDate(ctx context.Context, daysAhead int) ([]domain.DailyDemandAggregate, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	now := s.now()
	return s.forecasts.AggregateDemandByDate(ctx, now, now.AddDate(0, 0, daysAhead))
}

// CriticalRisks lists products currently predicted to stock out within
// the critical horizon.
func (s *DashboardService) CriticalRisks(ctx context.Context) ([]domain.StockoutForecast, error) {
	return s.forecasts.ListCriticalStockouts(ctx, s.now())
}

// SeasonalProfile returns the stored month-by-month demand profile of
// one product.
func (s *DashboardService) SeasonalProfile(ctx context.Context, productID int64) ([]domain.SeasonalIndex, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.forecasts.ListSeasonalIndices(ctx, productID)
}

// PendingOrders lists purchase orders that are not yet received or
// cancelled.
func (s *DashboardService) PendingOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return s.orders.ListPendingOrders(ctx)
}

// UpdateOrderStatus transitions a purchase order and invalidates the
// cached summary since pending counts may change.
func (s *DashboardService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.PurchaseOrder, error) {
	switch status {
	case domain.OrderStatusDraft, domain.OrderStatusSent, domain.OrderStatusConfirmed,
		domain.OrderStatusShipped, domain.OrderStatusReceived, domain.OrderStatusCancelled:
	default:
		return nil, fmt.Errorf("invalid order status %q", status)
	}

	order, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
	return order, nil
}
