// internal/analytics/consumption.go
package analytics

import (
	"fmt"
	"time"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// ConsumptionSample is one day of outbound demand together with the
// calendar features the forecaster regresses on. Weekday follows the
// Monday=0..Sunday=6 convention.
type ConsumptionSample struct {
	Date       time.Time
	Demand     int
	Weekday    int
	DayOfMonth int
	Month      int
	IsWeekend  bool
}

// AggregateConsumption turns ledger transactions into a dense daily
// demand series covering every calendar day in [now-windowDays, now].
// Only outbound entries (negative quantity change) count as demand;
// inbound, adjustment and return entries are excluded. Days without
// transactions are zero-filled so the series has no gaps.
//
// A window with no transactions at all fails with ErrInsufficientData:
// callers must treat it as "no data", never as zero demand.
func AggregateConsumption(transactions []domain.StockTransaction, now time.Time, windowDays int) ([]ConsumptionSample, error) {
	if windowDays <= 0 {
		return nil, fmt.Errorf("%w: window of %d days", domain.ErrInsufficientData, windowDays)
	}

	end := truncateToDay(now)
	start := end.AddDate(0, 0, -windowDays)

	buckets := make(map[time.Time]int)
	seen := 0
	for _, tx := range transactions {
		day := truncateToDay(tx.CreatedAt)
		if day.Before(start) || day.After(end) {
			continue
		}
		seen++
		if tx.QuantityChange < 0 {
			buckets[day] += -tx.QuantityChange
		}
	}

	if seen == 0 {
		return nil, fmt.Errorf("%w: no transactions in the last %d days", domain.ErrInsufficientData, windowDays)
	}

	samples := make([]ConsumptionSample, 0, windowDays+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		samples = append(samples, newSample(day, buckets[day]))
	}

	return samples, nil
}

func newSample(day time.Time, demand int) ConsumptionSample {
	weekday := mondayIndexed(day)
	return ConsumptionSample{
		Date:       day,
		Demand:     demand,
		Weekday:    weekday,
		DayOfMonth: day.Day(),
		Month:      int(day.Month()),
		IsWeekend:  weekday >= 5,
	}
}

// mondayIndexed maps time.Weekday (Sunday=0) to Monday=0..Sunday=6.
func mondayIndexed(day time.Time) int {
	return (int(day.Weekday()) + 6) % 7
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
