// internal/analytics/forecaster.go
package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// ModelVersion tags forecast rows with the generation of the regressor
// that produced them.
const ModelVersion = "v1.0"

const (
	minHistoryDays   = 30
	minFeatureRows   = 10
	defaultDaysAhead = 30
	defaultTreeCount = 100
)

// Prediction is one future-dated demand estimate.
type Prediction struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// ForecastBatch is the output of one forecaster invocation: one
// prediction per day ahead plus a single batch confidence.
//
// Confidence is an indicative banner in [50, 95], centered at 85 with
// random jitter. It is NOT a calibrated prediction interval.
type ForecastBatch struct {
	Predictions  []Prediction `json:"predictions"`
	Confidence   float64      `json:"confidence"`
	ModelVersion string       `json:"model_version"`
}

// Forecaster predicts per-day demand by regressing the daily series on
// calendar features with bagged regression trees. The model is refit
// from scratch on every call so predictions always reflect the latest
// ledger state; nothing is persisted between invocations.
type Forecaster struct {
	daysAhead int
	treeCount int
	rng       *rand.Rand
}

// NewForecaster builds a forecaster. rng seeds both the bootstrap
// sampling and the confidence jitter, making runs reproducible.
func NewForecaster(daysAhead, treeCount int, rng *rand.Rand) *Forecaster {
	if daysAhead <= 0 {
		daysAhead = defaultDaysAhead
	}
	if treeCount <= 0 {
		treeCount = defaultTreeCount
	}
	return &Forecaster{daysAhead: daysAhead, treeCount: treeCount, rng: rng}
}

// Forecast fits on the given daily series and predicts demand for each
// of the next daysAhead calendar days after now. All predicted dates
// are strictly in the future and quantities are clamped to zero then
// rounded to integers.
func (f *Forecaster) Forecast(samples []ConsumptionSample, now time.Time) (*ForecastBatch, error) {
	if len(samples) < minHistoryDays {
		return nil, fmt.Errorf("%w: %d days of history, need %d", domain.ErrInsufficientData, len(samples), minHistoryDays)
	}

	features := make([][]float64, len(samples))
	targets := make([]float64, len(samples))
	for i, s := range samples {
		features[i] = featureRow(s.Weekday, s.DayOfMonth, s.Month, s.IsWeekend)
		targets[i] = float64(s.Demand)
	}

	if len(features) < minFeatureRows {
		return nil, fmt.Errorf("%w: %d feature rows, need %d", domain.ErrInsufficientData, len(features), minFeatureRows)
	}

	forest := fitForest(features, targets, f.treeCount, f.rng)

	today := truncateToDay(now)
	predictions := make([]Prediction, 0, f.daysAhead)
	for i := 1; i <= f.daysAhead; i++ {
		day := today.AddDate(0, 0, i)
		weekday := mondayIndexed(day)
		raw := forest.predict(featureRow(weekday, day.Day(), int(day.Month()), weekday >= 5))
		if raw < 0 {
			raw = 0
		}
		predictions = append(predictions, Prediction{Date: day, Quantity: int(math.Round(raw))})
	}

	return &ForecastBatch{
		Predictions:  predictions,
		Confidence:   jitteredConfidence(f.rng, 85, 5),
		ModelVersion: ModelVersion,
	}, nil
}

func featureRow(weekday, dayOfMonth, month int, isWeekend bool) []float64 {
	weekend := 0.0
	if isWeekend {
		weekend = 1.0
	}
	return []float64{float64(weekday), float64(dayOfMonth), float64(month), weekend}
}

// jitteredConfidence returns center + N(0, sigma) clamped to [50, 95].
func jitteredConfidence(rng *rand.Rand, center, sigma float64) float64 {
	return clamp(50, 95, center+rng.NormFloat64()*sigma)
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
