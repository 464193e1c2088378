// internal/service/replenishment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/CoderNitu/Inven-Track/internal/analytics"
	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/config"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository"
)

// ReplenishmentService scans active products for reorder-point breaches
// and commits automated purchase orders for the ones that can be
// fulfilled.
type ReplenishmentService struct {
	catalog repository.CatalogRepository
	ledger  repository.LedgerRepository
	orders  repository.OrderRepository
	cache   cache.SummaryCache
	metrics *metrics.Registry
	cfg     config.AnalyticsConfig
	now     func() time.Time
}

func NewReplenishmentService(
	catalog repository.CatalogRepository,
	ledger repository.LedgerRepository,
	orders repository.OrderRepository,
	summaryCache cache.SummaryCache,
	registry *metrics.Registry,
	cfg config.AnalyticsConfig,
) *ReplenishmentService {
	if summaryCache == nil {
		summaryCache = cache.NewNoopSummaryCache()
	}
	applyAnalyticsDefaults(&cfg)
	return &ReplenishmentService{
		catalog: catalog,
		ledger:  ledger,
		orders:  orders,
		cache:   summaryCache,
		metrics: registry,
		cfg:     cfg,
		now:     time.Now,
	}
}

// CheckReorderNeeds lists the products whose available stock is at or
// below their reorder point, without committing any order. Each need
// carries a stockout estimate when the ledger supports one.
func (s *ReplenishmentService) CheckReorderNeeds(ctx context.Context) ([]domain.ReorderNeed, error) {
	products, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	needs := make([]domain.ReorderNeed, 0)
	for _, product := range products {
		inventory, breached, err := s.assess(ctx, product)
		if err != nil {
			log.Warn().Err(err).Int64("product_id", product.ID).Msg("reorder assessment failed")
			continue
		}
		if !breached {
			continue
		}

		needs = append(needs, domain.ReorderNeed{
			ProductID:       product.ID,
			ProductName:     product.Name,
			SKU:             product.SKU,
			Available:       inventory.Available(),
			ReorderPoint:    product.ReorderPoint,
			ReorderQuantity: product.ReorderQuantity,
			Stockout:        s.predictStockout(ctx, product.ID, *inventory),
		})
	}
	return needs, nil
}

// ProcessAutomatedOrders runs the full scan-assess-commit pipeline and
// returns one result row per product that breached its reorder point.
// A product without an assigned supplier produces a failure row but no
// order; every other product keeps processing.
func (s *ReplenishmentService) ProcessAutomatedOrders(ctx context.Context) ([]domain.ReplenishmentResult, error) {
	started := s.now()
	products, err := s.catalog.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	results := make([]domain.ReplenishmentResult, 0)
	for _, product := range products {
		inventory, breached, err := s.assess(ctx, product)
		if err != nil {
			log.Warn().Err(err).Int64("product_id", product.ID).Msg("reorder assessment failed")
			continue
		}
		if !breached {
			continue
		}

		result := domain.ReplenishmentResult{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    product.ReorderQuantity,
		}

		if product.SupplierID == nil {
			result.Status = domain.BatchStatusFailed
			result.Message = "no supplier assigned"
			s.metrics.IntentsFailed.Inc()
			results = append(results, result)
			continue
		}

		supplier, err := s.catalog.GetSupplier(ctx, *product.SupplierID)
		if err != nil {
			result.Status = domain.BatchStatusFailed
			result.Message = err.Error()
			s.metrics.IntentsFailed.Inc()
			results = append(results, result)
			continue
		}
		result.SupplierName = supplier.Name

		intent := domain.ReplenishmentIntent{
			ProductID:            product.ID,
			SupplierID:           supplier.ID,
			Quantity:             product.ReorderQuantity,
			ExpectedDeliveryDate: s.now().AddDate(0, 0, supplier.LeadTimeDays),
			Rationale: fmt.Sprintf("Automated PO generated due to low stock. Current stock: %d",
				inventory.QuantityOnHand),
		}

		order, err := s.orders.CreateAutomatedOrder(ctx, intent, product.Price)
		if err != nil {
			result.Status = domain.BatchStatusFailed
			result.Message = err.Error()
			s.metrics.IntentsFailed.Inc()
			results = append(results, result)
			continue
		}

		result.Status = domain.BatchStatusSuccess
		result.PONumber = order.PONumber
		s.metrics.IntentsEmitted.Inc()
		log.Info().
			Int64("product_id", product.ID).
			Str("po_number", order.PONumber).
			Int("quantity", intent.Quantity).
			Msg("automated purchase order created")
		results = append(results, result)
	}

	s.metrics.BatchDurationSec.Observe(s.now().Sub(started).Seconds())
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
	return results, nil
}

// assess decides whether a product needs replenishing. A product with
// no inventory record is skipped rather than treated as empty stock.
func (s *ReplenishmentService) assess(ctx context.Context, product domain.Product) (*domain.Inventory, bool, error) {
	inventory, err := s.catalog.GetInventory(ctx, product.ID)
	if err != nil {
		if errors.Is(err, domain.ErrMissingState) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if inventory.Available() > product.ReorderPoint {
		return inventory, false, nil
	}
	return inventory, true, nil
}

// predictStockout computes a live stockout estimate for the reorder
// listing. Failures are expected for quiet products and reported as an
// absent estimate.
func (s *ReplenishmentService) predictStockout(ctx context.Context, productID int64, inventory domain.Inventory) *domain.StockoutForecast {
	now := s.now()
	from := now.AddDate(0, 0, -s.cfg.StockoutWindowDays)

	transactions, err := s.ledger.ListTransactions(ctx, productID, from, now)
	if err != nil {
		log.Warn().Err(err).Int64("product_id", productID).Msg("failed to read ledger for stockout context")
		return nil
	}

	samples, err := analytics.AggregateConsumption(transactions, now, s.cfg.StockoutWindowDays)
	if err != nil {
		return nil
	}

	forecast, err := analytics.PredictStockout(inventory, samples, now)
	if err != nil {
		return nil
	}
	return forecast
}
