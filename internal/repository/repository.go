// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// CatalogRepository reads product, supplier and inventory state.
// Implementations return domain.ErrMissingState (wrapped) when a
// requested record does not exist.
type CatalogRepository interface {
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error)
	GetInventory(ctx context.Context, productID int64) (*domain.Inventory, error)
	CountActiveProducts(ctx context.Context) (int, error)
	CountBelowReorderPoint(ctx context.Context) (int, error)
}

// LedgerRepository reads the append-only stock transaction ledger.
type LedgerRepository interface {
	ListTransactions(ctx context.Context, productID int64, from, to time.Time) ([]domain.StockTransaction, error)
}

// ForecastRepository persists forecasting output. All writes are
// idempotent upserts keyed by their natural uniqueness constraint, so
// re-running a batch converges instead of duplicating rows.
type ForecastRepository interface {
	UpsertDemandForecasts(ctx context.Context, forecasts []domain.DemandForecast) error
	UpsertStockoutForecast(ctx context.Context, forecast *domain.StockoutForecast) error
	UpsertSeasonalIndices(ctx context.Context, indices []domain.SeasonalIndex) error

	ListProductForecasts(ctx context.Context, productID int64, from time.Time, limit int) ([]domain.DemandForecast, error)
	ListSeasonalIndices(ctx context.Context, productID int64) ([]domain.SeasonalIndex, error)
	ListCriticalStockouts(ctx context.Context, from time.Time) ([]domain.StockoutForecast, error)
	CountCriticalStockouts(ctx context.Context, from time.Time) (int, error)
	TotalPredictedDemand(ctx context.Context, from, to time.Time) (int, error)
	AverageConfidence(ctx context.Context, from time.Time) (float64, error)
	AggregateDemandByDate(ctx context.Context, from, to time.Time) ([]domain.DailyDemandAggregate, error)
}

// OrderRepository is the downstream collaborator that turns intents
// into persisted purchase orders with generated sequential numbers.
type OrderRepository interface {
	CreateAutomatedOrder(ctx context.Context, intent domain.ReplenishmentIntent, unitPrice decimal.Decimal) (*domain.PurchaseOrder, error)
	ListPendingOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	CountPendingOrders(ctx context.Context) (int, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.PurchaseOrder, error)
}
