package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func outbound(productID int64, at time.Time, qty int) domain.StockTransaction {
	return domain.StockTransaction{
		ProductID:      productID,
		QuantityChange: -qty,
		Reason:         domain.ReasonSale,
		CreatedAt:      at,
	}
}

func inbound(productID int64, at time.Time, qty int) domain.StockTransaction {
	return domain.StockTransaction{
		ProductID:      productID,
		QuantityChange: qty,
		Reason:         domain.ReasonPurchase,
		CreatedAt:      at,
	}
}

func TestAggregateConsumptionDenseSeries(t *testing.T) {
	now := day(t, "2025-06-30")
	txs := []domain.StockTransaction{
		outbound(1, day(t, "2025-06-28"), 5),
		outbound(1, day(t, "2025-06-28"), 3),
		outbound(1, day(t, "2025-06-25"), 2),
		inbound(1, day(t, "2025-06-26"), 100),
	}

	samples, err := AggregateConsumption(txs, now, 7)
	require.NoError(t, err)

	// 7-day window is inclusive of both endpoints.
	require.Len(t, samples, 8)
	assert.Equal(t, day(t, "2025-06-23"), samples[0].Date)
	assert.Equal(t, now, samples[len(samples)-1].Date)

	byDate := make(map[string]ConsumptionSample)
	for _, s := range samples {
		byDate[s.Date.Format("2006-01-02")] = s
	}

	// Outbound entries on the same day accumulate; inbound days are zero.
	assert.Equal(t, 8, byDate["2025-06-28"].Demand)
	assert.Equal(t, 2, byDate["2025-06-25"].Demand)
	assert.Equal(t, 0, byDate["2025-06-26"].Demand)
	assert.Equal(t, 0, byDate["2025-06-24"].Demand)
}

func TestAggregateConsumptionCalendarFeatures(t *testing.T) {
	now := day(t, "2025-06-30") // a Monday
	samples, err := AggregateConsumption([]domain.StockTransaction{
		outbound(1, day(t, "2025-06-28"), 1), // a Saturday
	}, now, 7)
	require.NoError(t, err)

	byDate := make(map[string]ConsumptionSample)
	for _, s := range samples {
		byDate[s.Date.Format("2006-01-02")] = s
	}

	saturday := byDate["2025-06-28"]
	assert.Equal(t, 5, saturday.Weekday)
	assert.True(t, saturday.IsWeekend)
	assert.Equal(t, 28, saturday.DayOfMonth)
	assert.Equal(t, 6, saturday.Month)

	monday := byDate["2025-06-30"]
	assert.Equal(t, 0, monday.Weekday)
	assert.False(t, monday.IsWeekend)
}

func TestAggregateConsumptionEmptyWindowIsInsufficientData(t *testing.T) {
	now := day(t, "2025-06-30")

	_, err := AggregateConsumption(nil, now, 30)
	require.ErrorIs(t, err, domain.ErrInsufficientData)

	// Transactions outside the window do not count either.
	_, err = AggregateConsumption([]domain.StockTransaction{
		outbound(1, day(t, "2024-01-01"), 10),
	}, now, 30)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAggregateConsumptionInboundOnlyWindowIsZeroDemand(t *testing.T) {
	now := day(t, "2025-06-30")

	// Inbound activity proves the window has data; demand stays zero.
	samples, err := AggregateConsumption([]domain.StockTransaction{
		inbound(1, day(t, "2025-06-20"), 50),
	}, now, 30)
	require.NoError(t, err)
	for _, s := range samples {
		assert.Zero(t, s.Demand)
	}
}
