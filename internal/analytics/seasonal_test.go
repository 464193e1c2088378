package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// monthlyLedger places one outbound transaction in each of the given
// months of the trailing year.
func monthlyLedger(t *testing.T, now time.Time, demandByMonth map[int]int) []domain.StockTransaction {
	t.Helper()
	txs := make([]domain.StockTransaction, 0, len(demandByMonth))
	for month, qty := range demandByMonth {
		at := time.Date(now.Year(), time.Month(month), 15, 0, 0, 0, 0, time.UTC)
		if at.After(now) {
			at = at.AddDate(-1, 0, 0)
		}
		txs = append(txs, outbound(1, at, qty))
	}
	return txs
}

func TestAnalyzeRequiresSixPopulatedMonths(t *testing.T) {
	now := day(t, "2025-12-15")
	analyzer := NewSeasonalAnalyzer(rand.New(rand.NewSource(1)))

	txs := monthlyLedger(t, now, map[int]int{1: 10, 2: 10, 3: 10, 4: 10, 5: 10})
	_, err := analyzer.Analyze(1, txs, now, 365)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAnalyzeTrendFactorsAverageToOne(t *testing.T) {
	now := day(t, "2025-12-15")
	analyzer := NewSeasonalAnalyzer(rand.New(rand.NewSource(1)))

	demand := map[int]int{1: 10, 2: 20, 3: 30, 4: 40, 5: 50, 6: 60, 7: 70, 8: 80}
	indices, err := analyzer.Analyze(1, monthlyLedger(t, now, demand), now, 365)
	require.NoError(t, err)
	require.Len(t, indices, len(demand))

	sum := 0.0
	for _, idx := range indices {
		sum += idx.TrendFactor
		assert.Equal(t, int64(1), idx.ProductID)
		assert.Equal(t, float64(demand[idx.Month]), idx.AverageDemand)
		assert.GreaterOrEqual(t, idx.Confidence, 50.0)
		assert.LessOrEqual(t, idx.Confidence, 95.0)
	}
	assert.InDelta(t, float64(len(demand)), sum, 1e-9)

	// Months come back sorted for stable upserts.
	for i := 1; i < len(indices); i++ {
		assert.Greater(t, indices[i].Month, indices[i-1].Month)
	}
}

func TestAnalyzeAboveAverageMonthHasFactorAboveOne(t *testing.T) {
	now := day(t, "2025-12-15")
	analyzer := NewSeasonalAnalyzer(rand.New(rand.NewSource(3)))

	demand := map[int]int{1: 5, 2: 5, 3: 5, 4: 5, 5: 5, 12: 35}
	indices, err := analyzer.Analyze(1, monthlyLedger(t, now, demand), now, 365)
	require.NoError(t, err)

	byMonth := make(map[int]domain.SeasonalIndex)
	for _, idx := range indices {
		byMonth[idx.Month] = idx
	}
	assert.Greater(t, byMonth[12].TrendFactor, 1.0)
	assert.Less(t, byMonth[1].TrendFactor, 1.0)
}

func TestAnalyzeZeroMeanNotPredictable(t *testing.T) {
	now := day(t, "2025-12-15")
	analyzer := NewSeasonalAnalyzer(rand.New(rand.NewSource(1)))

	// Six months of inbound-only activity: populated but zero demand.
	txs := make([]domain.StockTransaction, 0, 6)
	for month := 1; month <= 6; month++ {
		at := time.Date(2025, time.Month(month), 10, 0, 0, 0, 0, time.UTC)
		txs = append(txs, inbound(1, at, 40))
	}

	_, err := analyzer.Analyze(1, txs, now, 365)
	require.ErrorIs(t, err, domain.ErrNotPredictable)
}

func TestAnalyzeSameMonthAcrossYearsAccumulates(t *testing.T) {
	now := day(t, "2025-12-15")
	analyzer := NewSeasonalAnalyzer(rand.New(rand.NewSource(1)))

	txs := monthlyLedger(t, now, map[int]int{1: 10, 2: 10, 3: 10, 4: 10, 5: 10, 6: 10})
	// A second January transaction from the same trailing window.
	txs = append(txs, outbound(1, day(t, "2025-01-20"), 15))

	indices, err := analyzer.Analyze(1, txs, now, 365)
	require.NoError(t, err)

	byMonth := make(map[int]domain.SeasonalIndex)
	for _, idx := range indices {
		byMonth[idx.Month] = idx
	}
	assert.Equal(t, 25.0, byMonth[1].AverageDemand)
}
