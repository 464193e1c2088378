// internal/domain/status.go
package domain

// Per-product batch statuses. Batch endpoints report one row per
// scanned product and never collapse a run into a single failure.
const (
	BatchStatusSuccess          = "success"
	BatchStatusFailed           = "failed"
	BatchStatusInsufficientData = "insufficient_data"
	BatchStatusNotPredictable   = "not_predictable"
)

// ForecastRunResult is one status line of a demand forecast batch.
type ForecastRunResult struct {
	ProductID            int64   `json:"product_id"`
	ProductName          string  `json:"product"`
	Status               string  `json:"status"`
	Message              string  `json:"message,omitempty"`
	PredictionsGenerated int     `json:"predictions_generated,omitempty"`
	Confidence           float64 `json:"confidence,omitempty"`
}

// StockoutRunResult is one status line of a stockout prediction batch.
type StockoutRunResult struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	PredictedDate string `json:"predicted_stockout_date,omitempty"`
	IsCritical    bool   `json:"is_critical,omitempty"`
}

// SeasonalRunResult is one status line of a seasonal analysis batch.
type SeasonalRunResult struct {
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product"`
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	MonthsPopulated int    `json:"months_populated,omitempty"`
}

// ReplenishmentResult is one status line of a replenishment run. Only
// products that breached their reorder point produce a row.
type ReplenishmentResult struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product"`
	SupplierName string `json:"supplier"`
	Quantity     int    `json:"quantity"`
	PONumber     string `json:"po_number,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
}
