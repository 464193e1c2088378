// internal/service/dashboard_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/repository/memory"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewDashboardService(store, store, store, cache.NewNoopSummaryCache())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func TestSummaryRollsUpAllCounters(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	addSuppliedProduct(store, 1, 10, "LOW", 20, 50, 5)
	addSuppliedProduct(store, 2, 11, "HEALTHY", 20, 50, 100)

	require.NoError(t, store.UpsertDemandForecasts(ctx, []domain.DemandForecast{
		{ProductID: 1, TargetDate: testNow.AddDate(0, 0, 1), PredictedQuantity: 12, Confidence: 80},
		{ProductID: 1, TargetDate: testNow.AddDate(0, 0, 2), PredictedQuantity: 8, Confidence: 90},
	}))
	require.NoError(t, store.UpsertStockoutForecast(ctx, &domain.StockoutForecast{
		ProductID:     1,
		PredictedDate: testNow.AddDate(0, 0, 3),
		IsCritical:    true,
	}))

	_, err := store.CreateAutomatedOrder(ctx, domain.ReplenishmentIntent{
		ProductID:            1,
		SupplierID:           10,
		Quantity:             50,
		ExpectedDeliveryDate: testNow.AddDate(0, 0, 5),
	}, decimal.NewFromInt(10))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalProducts)
	assert.Equal(t, 1, summary.ProductsBelowReorder)
	assert.Equal(t, 1, summary.CriticalStockoutRisks)
	assert.Equal(t, 1, summary.PendingPurchaseOrders)
	assert.Equal(t, 20, summary.TotalPredictedDemand)
	assert.InDelta(t, 85.0, summary.AverageConfidenceLevel, 0.001)
}

func TestDemandForecastByDate(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	day := time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpsertDemandForecasts(ctx, []domain.DemandForecast{
		{ProductID: 1, TargetDate: day, PredictedQuantity: 10, Confidence: 80},
		{ProductID: 2, TargetDate: day, PredictedQuantity: 6, Confidence: 70},
		{ProductID: 1, TargetDate: day.AddDate(0, 0, 1), PredictedQuantity: 4, Confidence: 60},
	}))

	aggregates, err := svc.DemandForecastByDate(ctx, 30)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	assert.Equal(t, day, aggregates[0].Date)
	assert.Equal(t, 16, aggregates[0].TotalDemand)
	assert.Equal(t, 2, aggregates[0].ProductCount)
	assert.InDelta(t, 75.0, aggregates[0].AvgConfidence, 0.001)

	assert.Equal(t, 4, aggregates[1].TotalDemand)
}

func TestProductForecastsRequiresKnownProduct(t *testing.T) {
	svc, _ := newDashboardFixture(t)

	_, err := svc.ProductForecasts(context.Background(), 999, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingState)
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, store := newDashboardFixture(t)
	ctx := context.Background()

	created, err := store.CreateAutomatedOrder(ctx, domain.ReplenishmentIntent{
		ProductID:  1,
		SupplierID: 10,
		Quantity:   50,
	}, decimal.NewFromInt(10))
	require.NoError(t, err)

	order, err := svc.UpdateOrderStatus(ctx, created.ID, domain.OrderStatusReceived)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusReceived, order.Status)
	require.NotNil(t, order.ActualDeliveryDate)

	pending, err := svc.PendingOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newDashboardFixture(t)

	_, err := svc.UpdateOrderStatus(context.Background(), 1, "teleported")
	require.Error(t, err)
}
