// internal/service/forecast_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/config"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository/memory"
)

var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func testAnalyticsConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		ForecastWindowDays: 90,
		StockoutWindowDays: 30,
		SeasonalWindowDays: 365,
		DaysAhead:          14,
		ForestSize:         20,
		WorkerCount:        2,
		Seed:               42,
	}
}

func newForecastFixture(t *testing.T) (*ForecastService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewForecastService(store, store, store, cache.NewNoopSummaryCache(), metrics.NewRegistry(), testAnalyticsConfig())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func addProduct(store *memory.Store, id int64, name string) {
	store.AddProduct(domain.Product{
		ID:              id,
		SKU:             name,
		Name:            name,
		Price:           decimal.NewFromInt(10),
		ReorderPoint:    20,
		ReorderQuantity: 50,
		IsActive:        true,
	})
}

// seedDailySales appends one outbound sale per day for the last days
// days, most recent first.
func seedDailySales(store *memory.Store, productID int64, days, perDay int) {
	for i := 0; i < days; i++ {
		store.AppendTransaction(domain.StockTransaction{
			ProductID:      productID,
			QuantityChange: -perDay,
			Reason:         domain.ReasonSale,
			CreatedAt:      testNow.AddDate(0, 0, -i),
		})
	}
}

func TestRunDemandForecastsPerProductStatuses(t *testing.T) {
	svc, store := newForecastFixture(t)

	addProduct(store, 1, "WIDGET-A")
	addProduct(store, 2, "WIDGET-B")
	seedDailySales(store, 1, 45, 5)
	// product 2 has no ledger history at all

	results, err := svc.RunDemandForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := make(map[int64]*domain.ForecastRunResult)
	for _, r := range results {
		byID[r.ProductID] = r
	}

	require.Contains(t, byID, int64(1))
	assert.Equal(t, domain.BatchStatusSuccess, byID[1].Status)
	assert.Equal(t, 14, byID[1].PredictionsGenerated)
	assert.GreaterOrEqual(t, byID[1].Confidence, 50.0)
	assert.LessOrEqual(t, byID[1].Confidence, 95.0)

	require.Contains(t, byID, int64(2))
	assert.Equal(t, domain.BatchStatusInsufficientData, byID[2].Status)
	assert.NotEmpty(t, byID[2].Message)
}

func TestRunDemandForecastsIsIdempotent(t *testing.T) {
	svc, store := newForecastFixture(t)

	addProduct(store, 1, "WIDGET-A")
	seedDailySales(store, 1, 45, 5)

	_, err := svc.RunDemandForecasts(context.Background())
	require.NoError(t, err)
	first := store.DemandForecastCount()
	assert.Equal(t, 14, first)

	_, err = svc.RunDemandForecasts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, store.DemandForecastCount(), "re-run must overwrite, not duplicate")
}

func TestRunDemandForecastsFailureDoesNotAbortBatch(t *testing.T) {
	svc, store := newForecastFixture(t)

	addProduct(store, 1, "EMPTY-1")
	addProduct(store, 2, "WIDGET-A")
	addProduct(store, 3, "EMPTY-2")
	seedDailySales(store, 2, 45, 3)

	results, err := svc.RunDemandForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	successes := 0
	for _, r := range results {
		if r.Status == domain.BatchStatusSuccess {
			successes++
			assert.Equal(t, int64(2), r.ProductID)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestRunStockoutForecasts(t *testing.T) {
	svc, store := newForecastFixture(t)

	// steady seller with comfortable stock: 100 on hand at ~5/day
	addProduct(store, 1, "STEADY")
	store.SetInventory(domain.Inventory{ProductID: 1, QuantityOnHand: 100})
	seedDailySales(store, 1, 31, 5)

	// nearly empty: 10 on hand at ~5/day stocks out inside a week
	addProduct(store, 2, "CRITICAL")
	store.SetInventory(domain.Inventory{ProductID: 2, QuantityOnHand: 10})
	seedDailySales(store, 2, 31, 5)

	// inbound-only history: no demand signal
	addProduct(store, 3, "INBOUND")
	store.SetInventory(domain.Inventory{ProductID: 3, QuantityOnHand: 50})
	store.AppendTransaction(domain.StockTransaction{
		ProductID:      3,
		QuantityChange: 40,
		Reason:         domain.ReasonPurchase,
		CreatedAt:      testNow.AddDate(0, 0, -3),
	})

	// no inventory record at all
	addProduct(store, 4, "NO-INV")
	seedDailySales(store, 4, 31, 5)

	results, err := svc.RunStockoutForecasts(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 4)

	byID := make(map[int64]*domain.StockoutRunResult)
	for _, r := range results {
		byID[r.ProductID] = r
	}

	assert.Equal(t, domain.BatchStatusSuccess, byID[1].Status)
	assert.False(t, byID[1].IsCritical)

	assert.Equal(t, domain.BatchStatusSuccess, byID[2].Status)
	assert.True(t, byID[2].IsCritical)
	assert.NotEmpty(t, byID[2].PredictedDate)

	assert.Equal(t, domain.BatchStatusNotPredictable, byID[3].Status)
	assert.Equal(t, domain.BatchStatusFailed, byID[4].Status)
}

func TestRunSeasonalAnalysis(t *testing.T) {
	svc, store := newForecastFixture(t)

	// eight populated months, one sale in the middle of each
	addProduct(store, 1, "SEASONAL")
	for m := 0; m < 8; m++ {
		store.AppendTransaction(domain.StockTransaction{
			ProductID:      1,
			QuantityChange: -(10 + m),
			Reason:         domain.ReasonSale,
			CreatedAt:      testNow.AddDate(0, -m, -10),
		})
	}

	// only two populated months
	addProduct(store, 2, "SPARSE")
	for m := 0; m < 2; m++ {
		store.AppendTransaction(domain.StockTransaction{
			ProductID:      2,
			QuantityChange: -5,
			Reason:         domain.ReasonSale,
			CreatedAt:      testNow.AddDate(0, -m, -10),
		})
	}

	results, err := svc.RunSeasonalAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := make(map[int64]*domain.SeasonalRunResult)
	for _, r := range results {
		byID[r.ProductID] = r
	}

	assert.Equal(t, domain.BatchStatusSuccess, byID[1].Status)
	assert.Equal(t, 8, byID[1].MonthsPopulated)
	assert.Equal(t, 8, store.SeasonalIndexCount())

	assert.Equal(t, domain.BatchStatusInsufficientData, byID[2].Status)
}

func TestRunSeasonalAnalysisIsIdempotent(t *testing.T) {
	svc, store := newForecastFixture(t)

	addProduct(store, 1, "SEASONAL")
	for m := 0; m < 7; m++ {
		store.AppendTransaction(domain.StockTransaction{
			ProductID:      1,
			QuantityChange: -20,
			Reason:         domain.ReasonSale,
			CreatedAt:      testNow.AddDate(0, -m, -10),
		})
	}

	_, err := svc.RunSeasonalAnalysis(context.Background())
	require.NoError(t, err)
	first := store.SeasonalIndexCount()

	_, err = svc.RunSeasonalAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, store.SeasonalIndexCount())
}
