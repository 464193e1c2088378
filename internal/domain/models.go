// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor that products can be reordered from.
type Supplier struct {
	ID           int64           `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	ContactEmail string          `json:"contact_email" db:"contact_email"`
	Phone        string          `json:"phone" db:"phone"`
	LeadTimeDays int             `json:"lead_time_days" db:"lead_time_days"`
	Rating       decimal.Decimal `json:"rating" db:"rating"`
	IsActive     bool            `json:"is_active" db:"is_active"`
}

// Product is a catalog entry. SupplierID is nil when no supplier is
// currently assigned, which makes the product unfulfillable for
// automated replenishment.
type Product struct {
	ID              int64           `json:"id" db:"id"`
	SKU             string          `json:"sku" db:"sku"`
	Name            string          `json:"name" db:"name"`
	Unit            string          `json:"unit" db:"unit"`
	Price           decimal.Decimal `json:"price" db:"price"`
	ReorderPoint    int             `json:"reorder_point" db:"reorder_point"`
	ReorderQuantity int             `json:"reorder_quantity" db:"reorder_quantity"`
	SupplierID      *int64          `json:"supplier_id" db:"supplier_id"`
	IsActive        bool            `json:"is_active" db:"is_active"`
}

// Inventory is the current stock state of one product.
type Inventory struct {
	ProductID        int64  `json:"product_id" db:"product_id"`
	QuantityOnHand   int    `json:"quantity_on_hand" db:"quantity_on_hand"`
	QuantityReserved int    `json:"quantity_reserved" db:"quantity_reserved"`
	Location         string `json:"location" db:"location"`
}

// Available returns on-hand stock minus reserved stock.
func (i Inventory) Available() int {
	return i.QuantityOnHand - i.QuantityReserved
}

// Stock transaction reason codes.
const (
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonAdjustment = "adjustment"
	ReasonReturn     = "return"
	ReasonTransfer   = "transfer"
)

// StockTransaction is one signed entry of the append-only ledger.
// QuantityChange is positive for inbound, negative for outbound.
type StockTransaction struct {
	ID             int64     `json:"id" db:"id"`
	ProductID      int64     `json:"product_id" db:"product_id"`
	QuantityChange int       `json:"quantity_change" db:"quantity_change"`
	Reason         string    `json:"reason" db:"reason"`
	Reference      string    `json:"reference" db:"reference"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DemandForecast is one predicted demand value, unique per
// (product, target date). Re-runs overwrite earlier rows.
type DemandForecast struct {
	ProductID         int64     `json:"product_id" db:"product_id"`
	TargetDate        time.Time `json:"target_date" db:"target_date"`
	PredictedQuantity int       `json:"predicted_quantity" db:"predicted_quantity"`
	Confidence        float64   `json:"confidence" db:"confidence"`
	ModelVersion      string    `json:"model_version" db:"model_version"`
}

// StockoutForecast is the single live stockout estimate for a product.
type StockoutForecast struct {
	ProductID            int64     `json:"product_id" db:"product_id"`
	PredictedDate        time.Time `json:"predicted_date" db:"predicted_date"`
	CurrentStock         int       `json:"current_stock" db:"current_stock"`
	DailyConsumptionRate float64   `json:"daily_consumption_rate" db:"daily_consumption_rate"`
	Confidence           float64   `json:"confidence" db:"confidence"`
	IsCritical           bool      `json:"is_critical" db:"is_critical"`
}

// SeasonalIndex describes the seasonal demand profile of a product for
// one calendar month (1-12), unique per (product, month).
type SeasonalIndex struct {
	ProductID     int64   `json:"product_id" db:"product_id"`
	Month         int     `json:"month" db:"month"`
	AverageDemand float64 `json:"average_demand" db:"average_demand"`
	TrendFactor   float64 `json:"trend_factor" db:"trend_factor"`
	Confidence    float64 `json:"confidence" db:"confidence"`
}

// ReorderNeed describes one product at or below its reorder point,
// with a best-effort stockout estimate attached when one can be
// computed.
type ReorderNeed struct {
	ProductID       int64             `json:"product_id"`
	ProductName     string            `json:"product"`
	SKU             string            `json:"sku"`
	Available       int               `json:"available_quantity"`
	ReorderPoint    int               `json:"reorder_point"`
	ReorderQuantity int               `json:"reorder_quantity"`
	Stockout        *StockoutForecast `json:"stockout_prediction,omitempty"`
}

// ReplenishmentIntent is a proposed purchase order that has not been
// committed yet. The order repository turns it into a PurchaseOrder.
type ReplenishmentIntent struct {
	ProductID            int64     `json:"product_id"`
	SupplierID           int64     `json:"supplier_id"`
	Quantity             int       `json:"quantity"`
	ExpectedDeliveryDate time.Time `json:"expected_delivery_date"`
	Rationale            string    `json:"rationale"`
}

// Purchase order statuses.
const (
	OrderStatusDraft     = "draft"
	OrderStatusSent      = "sent"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

// PurchaseOrder is a committed order with a generated sequential number.
type PurchaseOrder struct {
	ID                   int64           `json:"id" db:"id"`
	PONumber             string          `json:"po_number" db:"po_number"`
	SupplierID           int64           `json:"supplier_id" db:"supplier_id"`
	Status               string          `json:"status" db:"status"`
	OrderDate            time.Time       `json:"order_date" db:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date" db:"expected_delivery_date"`
	ActualDeliveryDate   *time.Time      `json:"actual_delivery_date" db:"actual_delivery_date"`
	TotalAmount          decimal.Decimal `json:"total_amount" db:"total_amount"`
	Notes                string          `json:"notes" db:"notes"`
	IsAutomated          bool            `json:"is_automated" db:"is_automated"`
}

// PurchaseOrderItem is one line of a purchase order.
type PurchaseOrderItem struct {
	ID              int64           `json:"id" db:"id"`
	PurchaseOrderID int64           `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price" db:"total_price"`
}

// AnalyticsSummary is the dashboard rollup.
type AnalyticsSummary struct {
	TotalProducts          int     `json:"total_products"`
	ProductsBelowReorder   int     `json:"products_below_reorder_point"`
	CriticalStockoutRisks  int     `json:"critical_stockout_risks"`
	PendingPurchaseOrders  int     `json:"pending_purchase_orders"`
	TotalPredictedDemand   int     `json:"total_predicted_demand"`
	AverageConfidenceLevel float64 `json:"average_confidence_level"`
}

// DailyDemandAggregate is a per-date rollup of forecast demand across
// products.
type DailyDemandAggregate struct {
	Date          time.Time `json:"date" db:"target_date"`
	TotalDemand   int       `json:"total_demand" db:"total_demand"`
	ProductCount  int       `json:"products_count" db:"products_count"`
	AvgConfidence float64   `json:"avg_confidence" db:"avg_confidence"`
}
