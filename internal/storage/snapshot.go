// internal/storage/snapshot.go
package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// SnapshotWriter exports replenishment run results as CSV, locally and
// optionally to object storage.
type SnapshotWriter struct {
	store ObjectStorage
}

// NewSnapshotWriter builds a writer. store may be nil, in which case
// only local export is available.
func NewSnapshotWriter(store ObjectStorage) *SnapshotWriter {
	return &SnapshotWriter{store: store}
}

// EncodeReplenishmentCSV renders one row per scanned product.
func EncodeReplenishmentCSV(results []domain.ReplenishmentResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"product_id", "product", "supplier", "quantity", "po_number", "status", "message"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		record := []string{
			strconv.FormatInt(r.ProductID, 10),
			r.ProductName,
			r.SupplierName,
			strconv.Itoa(r.Quantity),
			r.PONumber,
			r.Status,
			r.Message,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteLocal writes the snapshot next to dir as replenishment_<date>.csv.
func (w *SnapshotWriter) WriteLocal(dir string, results []domain.ReplenishmentResult, at time.Time) (string, error) {
	payload, err := EncodeReplenishmentCSV(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("replenishment_%s.csv", at.Format("20060102")))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	return path, nil
}

// Upload pushes the snapshot to object storage under
// replenishment/<date>.csv.
func (w *SnapshotWriter) Upload(ctx context.Context, results []domain.ReplenishmentResult, at time.Time) error {
	if w.store == nil {
		return fmt.Errorf("object storage is not configured")
	}

	payload, err := EncodeReplenishmentCSV(results)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := fmt.Sprintf("replenishment/%s.csv", at.Format("20060102"))
	return w.store.PutObject(ctx, key, payload, "text/csv")
}
