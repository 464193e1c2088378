// internal/service/batch.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/CoderNitu/Inven-Track/internal/domain"
)

// forEachProduct fans a per-product computation out over a bounded
// worker pool and collects the non-nil results in product order.
func forEachProduct[T any](ctx context.Context, products []domain.Product, workerCount int,
	fn func(ctx context.Context, product domain.Product) *T) []*T {

	if workerCount < 1 {
		workerCount = 1
	}

	jobs := make(chan int, len(products))
	results := make([]*T, len(products))
	var wg sync.WaitGroup

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = fn(ctx, products[i])
			}
		}()
	}

	for i := range products {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	collected := make([]*T, 0, len(products))
	for _, r := range results {
		if r != nil {
			collected = append(collected, r)
		}
	}
	return collected
}

// guard converts a panic during a product computation into a
// ComputationFailure so one product cannot take down the batch.
func guard(run func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrComputationFailure, r)
		}
	}()
	return run()
}

// classify maps a failure to its batch status.
func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		return domain.BatchStatusInsufficientData
	case errors.Is(err, domain.ErrNotPredictable):
		return domain.BatchStatusNotPredictable
	default:
		return domain.BatchStatusFailed
	}
}
