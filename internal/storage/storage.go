// internal/storage/storage.go
package storage

import "context"

// ObjectStorage is the minimal surface the snapshot exporter needs
// from an S3-compatible backend.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, payload []byte, contentType string) error
}
