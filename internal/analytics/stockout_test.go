package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

func constantSeries(now time.Time, days int, demand float64) []ConsumptionSample {
	samples := make([]ConsumptionSample, 0, days)
	start := now.AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		samples = append(samples, newSample(d, int(demand)))
	}
	return samples
}

func TestPredictStockoutSevenDayBoundary(t *testing.T) {
	now := day(t, "2025-06-30")
	inv := domain.Inventory{ProductID: 1, QuantityOnHand: 70}

	// 70 / 10 = exactly 7.0 days: the critical comparison is strict.
	forecast, err := PredictStockout(inv, constantSeries(now, 30, 10), now)
	require.NoError(t, err)
	assert.False(t, forecast.IsCritical)
	assert.Equal(t, now.AddDate(0, 0, 7), forecast.PredictedDate)
	assert.InDelta(t, 10.0, forecast.DailyConsumptionRate, 1e-9)
	assert.Equal(t, 70, forecast.CurrentStock)

	// Nudge mean demand above 10 and the horizon dips under 7 days.
	samples := constantSeries(now, 30, 10)
	samples[0].Demand = 11 // mean 10.03...
	forecast, err = PredictStockout(inv, samples, now)
	require.NoError(t, err)
	assert.True(t, forecast.IsCritical)
	assert.Equal(t, now.AddDate(0, 0, 6), forecast.PredictedDate)
}

func TestPredictStockoutConstantDemandConfidence(t *testing.T) {
	now := day(t, "2025-06-30")
	inv := domain.Inventory{ProductID: 1, QuantityOnHand: 100}

	// Zero variance: confidence sits at the 90 ceiling of the formula.
	forecast, err := PredictStockout(inv, constantSeries(now, 30, 5), now)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, forecast.Confidence, 1e-9)
}

func TestPredictStockoutNoisyDemandLowersConfidence(t *testing.T) {
	now := day(t, "2025-06-30")
	inv := domain.Inventory{ProductID: 1, QuantityOnHand: 100}

	samples := constantSeries(now, 30, 0)
	for i := range samples {
		if i%2 == 0 {
			samples[i].Demand = 20
		}
	}

	forecast, err := PredictStockout(inv, samples, now)
	require.NoError(t, err)
	assert.Less(t, forecast.Confidence, 90.0)
	assert.GreaterOrEqual(t, forecast.Confidence, 50.0)
}

func TestPredictStockoutZeroDemandNotPredictable(t *testing.T) {
	now := day(t, "2025-06-30")
	inv := domain.Inventory{ProductID: 1, QuantityOnHand: 100}

	_, err := PredictStockout(inv, constantSeries(now, 30, 0), now)
	require.ErrorIs(t, err, domain.ErrNotPredictable)
}

func TestPredictStockoutEmptyWindow(t *testing.T) {
	now := day(t, "2025-06-30")
	inv := domain.Inventory{ProductID: 1, QuantityOnHand: 100}

	_, err := PredictStockout(inv, nil, now)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}
