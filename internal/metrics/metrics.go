// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the batch-job counters for the forecasting engine.
type Registry struct {
	reg *prometheus.Registry

	ForecastProductsOK     prometheus.Counter
	ForecastProductsFailed prometheus.Counter
	StockoutProductsOK     prometheus.Counter
	StockoutProductsFailed prometheus.Counter
	SeasonalProductsOK     prometheus.Counter
	SeasonalProductsFailed prometheus.Counter
	IntentsEmitted         prometheus.Counter
	IntentsFailed          prometheus.Counter
	BatchDurationSec       prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	forecastOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_forecast_products_ok_total"})
	forecastFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_forecast_products_failed_total"})
	stockoutOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_stockout_products_ok_total"})
	stockoutFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_stockout_products_failed_total"})
	seasonalOK := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_seasonal_products_ok_total"})
	seasonalFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_seasonal_products_failed_total"})
	intentsEmitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_replenishment_intents_total"})
	intentsFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventrack_replenishment_failures_total"})
	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventrack_batch_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(forecastOK, forecastFailed, stockoutOK, stockoutFailed,
		seasonalOK, seasonalFailed, intentsEmitted, intentsFailed, batchDuration)

	return &Registry{
		reg:                    r,
		ForecastProductsOK:     forecastOK,
		ForecastProductsFailed: forecastFailed,
		StockoutProductsOK:     stockoutOK,
		StockoutProductsFailed: stockoutFailed,
		SeasonalProductsOK:     seasonalOK,
		SeasonalProductsFailed: seasonalFailed,
		IntentsEmitted:         intentsEmitted,
		IntentsFailed:          intentsFailed,
		BatchDurationSec:       batchDuration,
	}
}

// Handler exposes the registry for scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
