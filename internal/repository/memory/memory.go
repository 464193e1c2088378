// internal/repository/memory/memory.go
//
// In-memory repository adapters. They mirror the upsert keying of the
// postgres adapters and back the service tests and local experiments;
// nothing here is safe to treat as durable storage.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// Store holds catalog, ledger, forecast and order state behind one
// mutex. All four repository ports are implemented on the same struct
// so tests can assemble a full engine from a single fixture.
type Store struct {
	mu sync.Mutex

	products    map[int64]domain.Product
	suppliers   map[int64]domain.Supplier
	inventories map[int64]domain.Inventory
	ledger      []domain.StockTransaction

	demandForecasts   map[string]domain.DemandForecast
	stockoutForecasts map[int64]domain.StockoutForecast
	seasonalIndices   map[string]domain.SeasonalIndex

	orders     []domain.PurchaseOrder
	orderItems []domain.PurchaseOrderItem
	nextTxID   int64
}

func NewStore() *Store {
	return &Store{
		products:          make(map[int64]domain.Product),
		suppliers:         make(map[int64]domain.Supplier),
		inventories:       make(map[int64]domain.Inventory),
		demandForecasts:   make(map[string]domain.DemandForecast),
		stockoutForecasts: make(map[int64]domain.StockoutForecast),
		seasonalIndices:   make(map[string]domain.SeasonalIndex),
	}
}

// --- fixture helpers ---

func (s *Store) AddProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) AddSupplier(sup domain.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers[sup.ID] = sup
}

func (s *Store) SetInventory(inv domain.Inventory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventories[inv.ProductID] = inv
}

func (s *Store) AppendTransaction(tx domain.StockTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTxID++
	tx.ID = s.nextTxID
	s.ledger = append(s.ledger, tx)
}

// --- repository.CatalogRepository ---

func (s *Store) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var products []domain.Product
	for _, p := range s.products {
		if p.IsActive {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %d", domain.ErrMissingState, productID)
	}
	return &p, nil
}

func (s *Store) GetSupplier(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sup, ok := s.suppliers[supplierID]
	if !ok {
		return nil, fmt.Errorf("%w: supplier %d", domain.ErrMissingState, supplierID)
	}
	return &sup, nil
}

func (s *Store) GetInventory(ctx context.Context, productID int64) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.inventories[productID]
	if !ok {
		return nil, fmt.Errorf("%w: no inventory record for product %d", domain.ErrMissingState, productID)
	}
	return &inv, nil
}

func (s *Store) CountActiveProducts(ctx context.Context) (int, error) {
	products, _ := s.ListActiveProducts(ctx)
	return len(products), nil
}

func (s *Store) CountBelowReorderPoint(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.products {
		if !p.IsActive {
			continue
		}
		inv, ok := s.inventories[p.ID]
		if !ok {
			continue
		}
		if inv.Available() <= p.ReorderPoint {
			count++
		}
	}
	return count, nil
}

// --- repository.LedgerRepository ---

func (s *Store) ListTransactions(ctx context.Context, productID int64, from, to time.Time) ([]domain.StockTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.StockTransaction
	for _, tx := range s.ledger {
		if tx.ProductID != productID {
			continue
		}
		if tx.CreatedAt.Before(from) || tx.CreatedAt.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// --- repository.ForecastRepository ---

func demandKey(productID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", productID, date.Format("2006-01-02"))
}

func seasonalKey(productID int64, month int) string {
	return fmt.Sprintf("%d:%d", productID, month)
}

func (s *Store) UpsertDemandForecasts(ctx context.Context, forecasts []domain.DemandForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range forecasts {
		s.demandForecasts[demandKey(f.ProductID, f.TargetDate)] = f
	}
	return nil
}

func (s *Store) UpsertStockoutForecast(ctx context.Context, forecast *domain.StockoutForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stockoutForecasts[forecast.ProductID] = *forecast
	return nil
}

func (s *Store) UpsertSeasonalIndices(ctx context.Context, indices []domain.SeasonalIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, idx := range indices {
		s.seasonalIndices[seasonalKey(idx.ProductID, idx.Month)] = idx
	}
	return nil
}

func (s *Store) ListProductForecasts(ctx context.Context, productID int64, from time.Time, limit int) ([]domain.DemandForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.DemandForecast
	for _, f := range s.demandForecasts {
		if f.ProductID == productID && !f.TargetDate.Before(from) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetDate.Before(out[j].TargetDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListSeasonalIndices(ctx context.Context, productID int64) ([]domain.SeasonalIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SeasonalIndex
	for _, idx := range s.seasonalIndices {
		if idx.ProductID == productID {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *Store) ListCriticalStockouts(ctx context.Context, from time.Time) ([]domain.StockoutForecast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.StockoutForecast
	for _, f := range s.stockoutForecasts {
		if f.IsCritical && !f.PredictedDate.Before(from) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PredictedDate.Before(out[j].PredictedDate) })
	return out, nil
}

func (s *Store) CountCriticalStockouts(ctx context.Context, from time.Time) (int, error) {
	forecasts, _ := s.ListCriticalStockouts(ctx, from)
	return len(forecasts), nil
}

func (s *Store) TotalPredictedDemand(ctx context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, f := range s.demandForecasts {
		if !f.TargetDate.Before(from) && !f.TargetDate.After(to) {
			total += f.PredictedQuantity
		}
	}
	return total, nil
}

func (s *Store) AverageConfidence(ctx context.Context, from time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, count := 0.0, 0
	for _, f := range s.demandForecasts {
		if !f.TargetDate.Before(from) {
			sum += f.Confidence
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (s *Store) AggregateDemandByDate(ctx context.Context, from, to time.Time) ([]domain.DailyDemandAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := make(map[time.Time]*domain.DailyDemandAggregate)
	for _, f := range s.demandForecasts {
		if f.TargetDate.Before(from) || f.TargetDate.After(to) {
			continue
		}
		agg, ok := byDate[f.TargetDate]
		if !ok {
			agg = &domain.DailyDemandAggregate{Date: f.TargetDate}
			byDate[f.TargetDate] = agg
		}
		agg.TotalDemand += f.PredictedQuantity
		agg.ProductCount++
		agg.AvgConfidence += f.Confidence
	}

	var out []domain.DailyDemandAggregate
	for _, agg := range byDate {
		agg.AvgConfidence /= float64(agg.ProductCount)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// DemandForecastCount reports the number of stored forecast rows. Used
// by tests asserting upsert idempotence.
func (s *Store) DemandForecastCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.demandForecasts)
}

// SeasonalIndexCount reports the number of stored seasonal rows.
func (s *Store) SeasonalIndexCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seasonalIndices)
}

// --- repository.OrderRepository ---

func (s *Store) CreateAutomatedOrder(ctx context.Context, intent domain.ReplenishmentIntent, unitPrice decimal.Decimal) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := unitPrice.Mul(decimal.NewFromInt(int64(intent.Quantity)))
	order := domain.PurchaseOrder{
		ID:                   int64(len(s.orders) + 1),
		PONumber:             fmt.Sprintf("PO-%06d", len(s.orders)+1),
		SupplierID:           intent.SupplierID,
		Status:               domain.OrderStatusDraft,
		OrderDate:            time.Now(),
		ExpectedDeliveryDate: intent.ExpectedDeliveryDate,
		TotalAmount:          total,
		Notes:                intent.Rationale,
		IsAutomated:          true,
	}
	s.orders = append(s.orders, order)
	s.orderItems = append(s.orderItems, domain.PurchaseOrderItem{
		ID:              int64(len(s.orderItems) + 1),
		PurchaseOrderID: order.ID,
		ProductID:       intent.ProductID,
		Quantity:        intent.Quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      total,
	})

	created := order
	return &created, nil
}

func (s *Store) ListPendingOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := map[string]bool{
		domain.OrderStatusDraft:     true,
		domain.OrderStatusSent:      true,
		domain.OrderStatusConfirmed: true,
		domain.OrderStatusShipped:   true,
	}

	var out []domain.PurchaseOrder
	for _, o := range s.orders {
		if pending[o.Status] {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpectedDeliveryDate.Before(out[j].ExpectedDeliveryDate)
	})
	return out, nil
}

func (s *Store) CountPendingOrders(ctx context.Context) (int, error) {
	orders, _ := s.ListPendingOrders(ctx)
	return len(orders), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*domain.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		s.orders[i].Status = status
		if status == domain.OrderStatusReceived {
			now := time.Now()
			s.orders[i].ActualDeliveryDate = &now
		}
		updated := s.orders[i]
		return &updated, nil
	}

	return nil, fmt.Errorf("%w: purchase order %d", domain.ErrMissingState, orderID)
}

// Orders returns a copy of all persisted orders.
func (s *Store) Orders() []domain.PurchaseOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PurchaseOrder(nil), s.orders...)
}

// OrderItems returns a copy of all persisted order lines.
func (s *Store) OrderItems() []domain.PurchaseOrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PurchaseOrderItem(nil), s.orderItems...)
}
