// internal/analytics/stockout.go
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// criticalHorizonDays is the strict threshold under which a stockout is
// flagged critical. Exactly 7.0 days is not critical.
const criticalHorizonDays = 7.0

// PredictStockout estimates the date on which available stock reaches
// zero, from current on-hand stock and the mean daily demand over the
// sample window.
//
// A product with no recent outbound activity (mean demand <= 0) has no
// stockout horizon and fails with ErrNotPredictable. Confidence drops
// with the coefficient of variation of daily demand: the noisier the
// signal, the less a single-point estimate is worth.
func PredictStockout(inventory domain.Inventory, samples []ConsumptionSample, now time.Time) (*domain.StockoutForecast, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty consumption window", domain.ErrInsufficientData)
	}

	demands := make([]float64, len(samples))
	for i, s := range samples {
		demands[i] = float64(s.Demand)
	}

	meanDemand := mean(demands)
	if meanDemand <= 0 {
		return nil, fmt.Errorf("%w: mean daily demand is zero", domain.ErrNotPredictable)
	}

	daysUntilStockout := float64(inventory.QuantityOnHand) / meanDemand
	predictedDate := truncateToDay(now).AddDate(0, 0, int(daysUntilStockout))

	stddev := sampleStdDev(demands)
	confidence := clamp(50, 95, 90-(stddev/meanDemand)*20)

	return &domain.StockoutForecast{
		ProductID:            inventory.ProductID,
		PredictedDate:        predictedDate,
		CurrentStock:         inventory.QuantityOnHand,
		DailyConsumptionRate: meanDemand,
		Confidence:           confidence,
		IsCritical:           daysUntilStockout < criticalHorizonDays,
	}, nil
}

// sampleStdDev is the n-1 standard deviation of the daily series.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
