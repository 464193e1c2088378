// internal/repository/postgres/forecast_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) UpsertDemandForecasts(ctx context.Context, forecasts []domain.DemandForecast) error {
	if len(forecasts) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO demand_forecasts (
				product_id, target_date, predicted_quantity, confidence, model_version, created_at
			) VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (product_id, target_date)
			DO UPDATE SET
				predicted_quantity = EXCLUDED.predicted_quantity,
				confidence = EXCLUDED.confidence,
				model_version = EXCLUDED.model_version,
				created_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, f := range forecasts {
			_, err := stmt.ExecContext(ctx, f.ProductID, f.TargetDate, f.PredictedQuantity, f.Confidence, f.ModelVersion)
			if err != nil {
				return fmt.Errorf("failed to upsert demand forecast: %w", err)
			}
		}

		return nil
	})
}

func (r *forecastRepository) UpsertStockoutForecast(ctx context.Context, forecast *domain.StockoutForecast) error {
	query := `
		INSERT INTO stockout_forecasts (
			product_id, predicted_date, current_stock, daily_consumption_rate, confidence, is_critical, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (product_id)
		DO UPDATE SET
			predicted_date = EXCLUDED.predicted_date,
			current_stock = EXCLUDED.current_stock,
			daily_consumption_rate = EXCLUDED.daily_consumption_rate,
			confidence = EXCLUDED.confidence,
			is_critical = EXCLUDED.is_critical,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		forecast.ProductID,
		forecast.PredictedDate,
		forecast.CurrentStock,
		forecast.DailyConsumptionRate,
		forecast.Confidence,
		forecast.IsCritical,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stockout forecast: %w", err)
	}

	return nil
}

func (r *forecastRepository) UpsertSeasonalIndices(ctx context.Context, indices []domain.SeasonalIndex) error {
	if len(indices) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO seasonal_indices (
				product_id, month, average_demand, trend_factor, confidence, updated_at
			) VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (product_id, month)
			DO UPDATE SET
				average_demand = EXCLUDED.average_demand,
				trend_factor = EXCLUDED.trend_factor,
				confidence = EXCLUDED.confidence,
				updated_at = NOW()
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, idx := range indices {
			_, err := stmt.ExecContext(ctx, idx.ProductID, idx.Month, idx.AverageDemand, idx.TrendFactor, idx.Confidence)
			if err != nil {
				return fmt.Errorf("failed to upsert seasonal index: %w", err)
			}
		}

		return nil
	})
}

func (r *forecastRepository) ListProductForecasts(ctx context.Context, productID int64, from time.Time, limit int) ([]domain.DemandForecast, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT product_id, target_date, predicted_quantity, confidence, model_version
		FROM demand_forecasts
		WHERE product_id = $1 AND target_date >= $2
		ORDER BY target_date
		LIMIT $3
	`

	var forecasts []domain.DemandForecast
	if err := sqlx.SelectContext(ctx, r.db, &forecasts, query, productID, from, limit); err != nil {
		return nil, fmt.Errorf("failed to list forecasts for product %d: %w", productID, err)
	}

	return forecasts, nil
}

func (r *forecastRepository) ListSeasonalIndices(ctx context.Context, productID int64) ([]domain.SeasonalIndex, error) {
	query := `
		SELECT product_id, month, average_demand, trend_factor, confidence
		FROM seasonal_indices
		WHERE product_id = $1
		ORDER BY month
	`

	var indices []domain.SeasonalIndex
	if err := sqlx.SelectContext(ctx, r.db, &indices, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list seasonal indices for product %d: %w", productID, err)
	}

	return indices, nil
}

func (r *forecastRepository) ListCriticalStockouts(ctx context.Context, from time.Time) ([]domain.StockoutForecast, error) {
	query := `
		SELECT product_id, predicted_date, current_stock, daily_consumption_rate, confidence, is_critical
		FROM stockout_forecasts
		WHERE is_critical = TRUE AND predicted_date >= $1
		ORDER BY predicted_date
	`

	var forecasts []domain.StockoutForecast
	if err := sqlx.SelectContext(ctx, r.db, &forecasts, query, from); err != nil {
		return nil, fmt.Errorf("failed to list critical stockouts: %w", err)
	}

	return forecasts, nil
}

func (r *forecastRepository) CountCriticalStockouts(ctx context.Context, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM stockout_forecasts
		WHERE is_critical = TRUE AND predicted_date >= $1
	`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, from); err != nil {
		return 0, fmt.Errorf("failed to count critical stockouts: %w", err)
	}
	return count, nil
}

func (r *forecastRepository) TotalPredictedDemand(ctx context.Context, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(predicted_quantity), 0)
		FROM demand_forecasts
		WHERE target_date >= $1 AND target_date <= $2
	`

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, query, from, to); err != nil {
		return 0, fmt.Errorf("failed to total predicted demand: %w", err)
	}
	return total, nil
}

func (r *forecastRepository) AverageConfidence(ctx context.Context, from time.Time) (float64, error) {
	query := `
		SELECT COALESCE(AVG(confidence), 0)
		FROM demand_forecasts
		WHERE target_date >= $1
	`

	var avg float64
	if err := sqlx.GetContext(ctx, r.db, &avg, query, from); err != nil {
		return 0, fmt.Errorf("failed to average forecast confidence: %w", err)
	}
	return avg, nil
}

func (r *forecastRepository) AggregateDemandByDate(ctx context.Context, from, to time.Time) ([]domain.DailyDemandAggregate, error) {
	query := `
		SELECT
			target_date,
			SUM(predicted_quantity) AS total_demand,
			COUNT(*) AS products_count,
			ROUND(AVG(confidence)::numeric, 2) AS avg_confidence
		FROM demand_forecasts
		WHERE target_date >= $1 AND target_date <= $2
		GROUP BY target_date
		ORDER BY target_date
	`

	var aggregates []domain.DailyDemandAggregate
	if err := sqlx.SelectContext(ctx, r.db, &aggregates, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate demand by date: %w", err)
	}

	return aggregates, nil
}
