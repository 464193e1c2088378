// internal/service/replenishment_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/cache"
	"github.com/CoderNitu/Inven-Track/internal/domain"
	"github.com/CoderNitu/Inven-Track/internal/metrics"
	"github.com/CoderNitu/Inven-Track/internal/repository/memory"
)

func newReplenishmentFixture(t *testing.T) (*ReplenishmentService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewReplenishmentService(store, store, store, cache.NewNoopSummaryCache(), metrics.NewRegistry(), testAnalyticsConfig())
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func addSuppliedProduct(store *memory.Store, id, supplierID int64, name string, reorderPoint, reorderQty, available int) {
	store.AddSupplier(domain.Supplier{
		ID:           supplierID,
		Name:         "Supplier " + name,
		LeadTimeDays: 5,
		IsActive:     true,
	})
	store.AddProduct(domain.Product{
		ID:              id,
		SKU:             name,
		Name:            name,
		Price:           decimal.NewFromFloat(12.50),
		ReorderPoint:    reorderPoint,
		ReorderQuantity: reorderQty,
		SupplierID:      &supplierID,
		IsActive:        true,
	})
	store.SetInventory(domain.Inventory{ProductID: id, QuantityOnHand: available})
}

func TestCheckReorderNeedsBoundary(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	// exactly at the reorder point triggers, one unit above does not
	addSuppliedProduct(store, 1, 10, "AT-POINT", 20, 50, 20)
	addSuppliedProduct(store, 2, 11, "ABOVE", 20, 50, 21)

	needs, err := svc.CheckReorderNeeds(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, int64(1), needs[0].ProductID)
	assert.Equal(t, 50, needs[0].ReorderQuantity)
	assert.Equal(t, 20, needs[0].Available)
	assert.Nil(t, needs[0].Stockout, "no ledger history means no stockout estimate")
}

func TestCheckReorderNeedsAttachesStockoutEstimate(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	addSuppliedProduct(store, 1, 10, "SELLING", 20, 50, 15)
	seedDailySales(store, 1, 31, 5)

	needs, err := svc.CheckReorderNeeds(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1)
	require.NotNil(t, needs[0].Stockout)
	assert.True(t, needs[0].Stockout.IsCritical, "15 units at 5 per day stocks out in 3 days")
}

func TestCheckReorderNeedsCountsReservedStock(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	addSuppliedProduct(store, 1, 10, "RESERVED", 20, 50, 30)
	store.SetInventory(domain.Inventory{ProductID: 1, QuantityOnHand: 30, QuantityReserved: 15})

	needs, err := svc.CheckReorderNeeds(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1, "available stock of 15 is below the reorder point of 20")
	assert.Equal(t, 15, needs[0].Available)
}

func TestProcessAutomatedOrdersCommitsPO(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	addSuppliedProduct(store, 1, 10, "LOW", 20, 50, 5)

	results, err := svc.ProcessAutomatedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.BatchStatusSuccess, results[0].Status)
	assert.Equal(t, "PO-000001", results[0].PONumber)
	assert.Equal(t, "Supplier LOW", results[0].SupplierName)
	assert.Equal(t, 50, results[0].Quantity)

	orders := store.Orders()
	require.Len(t, orders, 1)
	assert.True(t, orders[0].IsAutomated)
	assert.Equal(t, domain.OrderStatusDraft, orders[0].Status)
	assert.Contains(t, orders[0].Notes, "Current stock: 5")
	assert.Equal(t, testNow.AddDate(0, 0, 5), orders[0].ExpectedDeliveryDate)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromFloat(625.0)), "50 units at 12.50")

	items := store.OrderItems()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, 50, items[0].Quantity)
}

func TestProcessAutomatedOrdersWithoutSupplier(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	store.AddProduct(domain.Product{
		ID:              1,
		SKU:             "ORPHAN",
		Name:            "ORPHAN",
		Price:           decimal.NewFromInt(10),
		ReorderPoint:    20,
		ReorderQuantity: 50,
		IsActive:        true,
	})
	store.SetInventory(domain.Inventory{ProductID: 1, QuantityOnHand: 5})

	results, err := svc.ProcessAutomatedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, domain.BatchStatusFailed, results[0].Status)
	assert.Equal(t, "no supplier assigned", results[0].Message)
	assert.Empty(t, results[0].PONumber)
	assert.Empty(t, store.Orders(), "a failure row must not produce an order")
}

func TestProcessAutomatedOrdersSkipsHealthyAndMissingInventory(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	// healthy stock: no result row at all
	addSuppliedProduct(store, 1, 10, "HEALTHY", 20, 50, 200)

	// active product without an inventory record: skipped silently
	supplierID := int64(11)
	store.AddSupplier(domain.Supplier{ID: supplierID, Name: "Supplier GHOST", LeadTimeDays: 3, IsActive: true})
	store.AddProduct(domain.Product{
		ID:              2,
		SKU:             "GHOST",
		Name:            "GHOST",
		Price:           decimal.NewFromInt(10),
		ReorderPoint:    20,
		ReorderQuantity: 50,
		SupplierID:      &supplierID,
		IsActive:        true,
	})

	results, err := svc.ProcessAutomatedOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, store.Orders())
}

func TestProcessAutomatedOrdersSequentialPONumbers(t *testing.T) {
	svc, store := newReplenishmentFixture(t)

	addSuppliedProduct(store, 1, 10, "LOW-A", 20, 50, 5)
	addSuppliedProduct(store, 2, 11, "LOW-B", 20, 30, 2)

	results, err := svc.ProcessAutomatedOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	numbers := []string{results[0].PONumber, results[1].PONumber}
	assert.ElementsMatch(t, []string{"PO-000001", "PO-000002"}, numbers)
}
