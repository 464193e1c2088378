// internal/service/forecast_service.go
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CoderNitu/Inven-Track/internal/analytics"
	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/config"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository"
)

// ForecastService runs the demand, stockout and seasonal batches over
// all active products. Each invocation re-reads full ledger state and
// refits from scratch; there is no model state between runs.
type ForecastService struct {
	catalog   repository.CatalogRepository
	ledger    repository.LedgerRepository
	forecasts repository.ForecastRepository
	cache     cache.SummaryCache
	metrics   *metrics.Registry
	cfg       config.AnalyticsConfig
	now       func() time.Time
}

func NewForecastService(
	catalog repository.CatalogRepository,
	ledger repository.LedgerRepository,
	forecasts repository.ForecastRepository,
	summaryCache cache.SummaryCache,
	registry *metrics.Registry,
	cfg config.AnalyticsConfig,
) *ForecastService {
	if summaryCache == nil {
		summaryCache = cache.NewNoopSummaryCache()
	}
	applyAnalyticsDefaults(&cfg)
	return &ForecastService{
		catalog:   catalog,
		ledger:    ledger,
		forecasts: forecasts,
		cache:     summaryCache,
		metrics:   registry,
		cfg:       cfg,
		now:       time.Now,
	}
}

func applyAnalyticsDefaults(cfg *config.AnalyticsConfig) {
	if cfg.ForecastWindowDays <= 0 {
		cfg.ForecastWindowDays = 90
	}
	if cfg.StockoutWindowDays <= 0 {
		cfg.StockoutWindowDays = 30
	}
	if cfg.SeasonalWindowDays <= 0 {
		cfg.SeasonalWindowDays = 365
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = 30
	}
	if cfg.ForestSize <= 0 {
		cfg.ForestSize = 100
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
}

// productRand derives a per-product jitter source so parallel workers
// never share rand state and a fixed seed reproduces the whole batch.
func (s *ForecastService) productRand(productID int64) *rand.Rand {
	return rand.New(rand.NewSource(s.cfg.Seed + productID))
}

func (s *ForecastService) windowTransactions(ctx context.Context, productID int64, now time.Time, windowDays int) ([]domain.StockTransaction, error) {
	from := now.AddDate(0, 0, -windowDays)
	return s.ledger.ListTransactions(ctx, productID, from, now)
}

// RunDemandForecasts regenerates the N-day demand forecast for every
// active product. One status row per product; failures never abort
// the batch.
func (s *ForecastService) RunDemandForecasts(ctx context.Context) ([]*domain.ForecastRunResult, error) {
	started := s.now()
	products, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	results := forEachProduct(ctx, products, s.cfg.WorkerCount,
		func(ctx context.Context, product domain.Product) *domain.ForecastRunResult {
			result := &domain.ForecastRunResult{ProductID: product.ID, ProductName: product.Name}

			err := guard(func() error {
				batch, err := s.forecastProduct(ctx, product)
				if err != nil {
					return err
				}
				result.Status = domain.BatchStatusSuccess
				result.PredictionsGenerated = len(batch.Predictions)
				result.Confidence = batch.Confidence
				return nil
			})
			if err != nil {
				result.Status = classify(err)
				result.Message = err.Error()
				s.metrics.ForecastProductsFailed.Inc()
				log.Warn().Err(err).Int64("product_id", product.ID).Msg("demand forecast failed")
				return result
			}

			s.metrics.ForecastProductsOK.Inc()
			return result
		})

	s.finishBatch(ctx, started)
	return results, nil
}

func (s *ForecastService) forecastProduct(ctx context.Context, product domain.Product) (*analytics.ForecastBatch, error) {
	now := s.now()

	transactions, err := s.windowTransactions(ctx, product.ID, now, s.cfg.ForecastWindowDays)
	if err != nil {
		return nil, err
	}

	samples, err := analytics.AggregateConsumption(transactions, now, s.cfg.ForecastWindowDays)
	if err != nil {
		return nil, err
	}

	forecaster := analytics.NewForecaster(s.cfg.DaysAhead, s.cfg.ForestSize, s.productRand(product.ID))
	batch, err := forecaster.Forecast(samples, now)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.DemandForecast, 0, len(batch.Predictions))
	for _, p := range batch.Predictions {
		rows = append(rows, domain.DemandForecast{
			ProductID:         product.ID,
			TargetDate:        p.Date,
			PredictedQuantity: p.Quantity,
			Confidence:        batch.Confidence,
			ModelVersion:      batch.ModelVersion,
		})
	}

	if err := s.forecasts.UpsertDemandForecasts(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store forecasts: %w", err)
	}

	return batch, nil
}

// RunStockoutForecasts refreshes the single live stockout estimate of
// every active product.
func (s *ForecastService) RunStockoutForecasts(ctx context.Context) ([]*domain.StockoutRunResult, error) {
	started := s.now()
	products, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	results := forEachProduct(ctx, products, s.cfg.WorkerCount,
		func(ctx context.Context, product domain.Product) *domain.StockoutRunResult {
			result := &domain.StockoutRunResult{ProductID: product.ID, ProductName: product.Name}

			err := guard(func() error {
				forecast, err := s.stockoutProduct(ctx, product)
				if err != nil {
					return err
				}
				result.Status = domain.BatchStatusSuccess
				result.PredictedDate = forecast.PredictedDate.Format("2006-01-02")
				result.IsCritical = forecast.IsCritical
				return nil
			})
			if err != nil {
				result.Status = classify(err)
				result.Message = err.Error()
				s.metrics.StockoutProductsFailed.Inc()
				log.Warn().Err(err).Int64("product_id", product.ID).Msg("stockout prediction failed")
				return result
			}

			s.metrics.StockoutProductsOK.Inc()
			return result
		})

	s.finishBatch(ctx, started)
	return results, nil
}

func (s *ForecastService) stockoutProduct(ctx context.Context, product domain.Product) (*domain.StockoutForecast, error) {
	now := s.now()

	inventory, err := s.catalog.GetInventory(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.windowTransactions(ctx, product.ID, now, s.cfg.StockoutWindowDays)
	if err != nil {
		return nil, err
	}

	samples, err := analytics.AggregateConsumption(transactions, now, s.cfg.StockoutWindowDays)
	if err != nil {
		return nil, err
	}

	forecast, err := analytics.PredictStockout(*inventory, samples, now)
	if err != nil {
		return nil, err
	}

	if err := s.forecasts.UpsertStockoutForecast(ctx, forecast); err != nil {
		return nil, fmt.Errorf("failed to store stockout forecast: %w", err)
	}

	return forecast, nil
}

// RunSeasonalAnalysis rebuilds the monthly seasonal profile of every
// active product from a trailing year of ledger history.
func (s *ForecastService) RunSeasonalAnalysis(ctx context.Context) ([]*domain.SeasonalRunResult, error) {
	started := s.now()
	products, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	results := forEachProduct(ctx, products, s.cfg.WorkerCount,
		func(ctx context.Context, product domain.Product) *domain.SeasonalRunResult {
			result := &domain.SeasonalRunResult{ProductID: product.ID, ProductName: product.Name}

			err := guard(func() error {
				indices, err := s.seasonalProduct(ctx, product)
				if err != nil {
					return err
				}
				result.Status = domain.BatchStatusSuccess
				result.MonthsPopulated = len(indices)
				return nil
			})
			if err != nil {
				result.Status = classify(err)
				result.Message = err.Error()
				s.metrics.SeasonalProductsFailed.Inc()
				log.Warn().Err(err).Int64("product_id", product.ID).Msg("seasonal analysis failed")
				return result
			}

			s.metrics.SeasonalProductsOK.Inc()
			return result
		})

	s.finishBatch(ctx, started)
	return results, nil
}

func (s *ForecastService) seasonalProduct(ctx context.Context, product domain.Product) ([]domain.SeasonalIndex, error) {
	now := s.now()

	transactions, err := s.windowTransactions(ctx, product.ID, now, s.cfg.SeasonalWindowDays)
	if err != nil {
		return nil, err
	}

	analyzer := analytics.NewSeasonalAnalyzer(s.productRand(product.ID))
	indices, err := analyzer.Analyze(product.ID, transactions, now, s.cfg.SeasonalWindowDays)
	if err != nil {
		return nil, err
	}

	if err := s.forecasts.UpsertSeasonalIndices(ctx, indices); err != nil {
		return nil, fmt.Errorf("failed to store seasonal indices: %w", err)
	}

	return indices, nil
}

func (s *ForecastService) finishBatch(ctx context.Context, started time.Time) {
	s.metrics.BatchDurationSec.Observe(s.now().Sub(started).Seconds())
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
