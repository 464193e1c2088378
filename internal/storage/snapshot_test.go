// internal/storage/snapshot_test.go
package storage

import (
	"context"
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

func sampleResults() []domain.ReplenishmentResult {
	return []domain.ReplenishmentResult{
		{
			ProductID:    1,
			ProductName:  "Espresso Beans 1kg",
			SupplierName: "Northline Distribution",
			Quantity:     120,
			PONumber:     "PO-000001",
			Status:       domain.BatchStatusSuccess,
		},
		{
			ProductID:   2,
			ProductName: "Orphan Widget",
			Quantity:    50,
			Status:      domain.BatchStatusFailed,
			Message:     "no supplier assigned",
		},
	}
}

func TestEncodeReplenishmentCSV(t *testing.T) {
	payload, err := EncodeReplenishmentCSV(sampleResults())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"product_id", "product", "supplier", "quantity", "po_number", "status", "message"}, records[0])
	assert.Equal(t, []string{"1", "Espresso Beans 1kg", "Northline Distribution", "120", "PO-000001", "success", ""}, records[1])
	assert.Equal(t, "no supplier assigned", records[2][6])
}

func TestWriteLocalNamesFileByDate(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)

	writer := NewSnapshotWriter(nil)
	path, err := writer.WriteLocal(dir, sampleResults(), at)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "replenishment_20250701.csv"))

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "PO-000001")
}

func TestUploadWithoutStoreFails(t *testing.T) {
	writer := NewSnapshotWriter(nil)
	err := writer.Upload(context.Background(), sampleResults(), time.Now())
	require.Error(t, err)
}
