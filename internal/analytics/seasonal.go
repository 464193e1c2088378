// internal/analytics/seasonal.go
package analytics

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// minSeasonalMonths is the number of distinct populated months required
// before a seasonal profile is considered meaningful.
const minSeasonalMonths = 6

// SeasonalAnalyzer extracts per-month demand indices from a trailing
// window of ledger history. Buckets are literal month-of-year, so data
// from multiple years accumulates into the same month.
type SeasonalAnalyzer struct {
	rng *rand.Rand
}

func NewSeasonalAnalyzer(rng *rand.Rand) *SeasonalAnalyzer {
	return &SeasonalAnalyzer{rng: rng}
}

// Analyze buckets outbound demand by calendar month and computes one
// SeasonalIndex per populated month. The trend factor is the ratio of a
// month's demand to the mean across populated months, so factors
// average to 1. Fewer than six populated months fails with
// ErrInsufficientData; a zero mean leaves the factor undefined and
// fails with ErrNotPredictable.
func (a *SeasonalAnalyzer) Analyze(productID int64, transactions []domain.StockTransaction, now time.Time, windowDays int) ([]domain.SeasonalIndex, error) {
	end := truncateToDay(now)
	start := end.AddDate(0, 0, -windowDays)

	monthly := make(map[int]float64)
	for _, tx := range transactions {
		day := truncateToDay(tx.CreatedAt)
		if day.Before(start) || day.After(end) {
			continue
		}
		month := int(day.Month())
		if _, ok := monthly[month]; !ok {
			monthly[month] = 0
		}
		if tx.QuantityChange < 0 {
			monthly[month] += float64(-tx.QuantityChange)
		}
	}

	if len(monthly) < minSeasonalMonths {
		return nil, fmt.Errorf("%w: %d months with data, need %d", domain.ErrInsufficientData, len(monthly), minSeasonalMonths)
	}

	total := 0.0
	for _, demand := range monthly {
		total += demand
	}
	meanDemand := total / float64(len(monthly))
	if meanDemand <= 0 {
		return nil, fmt.Errorf("%w: mean monthly demand is zero", domain.ErrNotPredictable)
	}

	months := make([]int, 0, len(monthly))
	for month := range monthly {
		months = append(months, month)
	}
	sort.Ints(months)

	indices := make([]domain.SeasonalIndex, 0, len(months))
	for _, month := range months {
		indices = append(indices, domain.SeasonalIndex{
			ProductID:     productID,
			Month:         month,
			AverageDemand: monthly[month],
			TrendFactor:   monthly[month] / meanDemand,
			Confidence:    jitteredConfidence(a.rng, 80, 10),
		})
	}

	return indices, nil
}
