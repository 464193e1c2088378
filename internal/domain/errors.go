// internal/domain/errors.go
package domain

import "errors"

// Failure taxonomy of the forecasting core. Batch services classify
// per-product failures with errors.Is against these sentinels.
var (
	// ErrInsufficientData means too few historical points to fit or
	// aggregate anything.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNotPredictable means the input is well-formed but degenerate,
	// e.g. zero mean demand over the whole window.
	ErrNotPredictable = errors.New("not predictable")

	// ErrMissingState means a required record (inventory, supplier) does
	// not exist. The core never fabricates missing state.
	ErrMissingState = errors.New("missing state")

	// ErrComputationFailure means an unexpected numeric or runtime fault
	// during fit or aggregation.
	ErrComputationFailure = errors.New("computation failure")
)
