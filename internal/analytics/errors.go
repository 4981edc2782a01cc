package analytics

import "errors"

// Call-level error kinds. Per-item failures inside a computation are never
// surfaced as errors; they are skipped and reported on the result
// (CorrelationResult.Skipped).
var (
	// ErrNotFound means the ticker could not be resolved to a security.
	ErrNotFound = errors.New("security not found")

	// ErrInsufficientData means the security resolved but the series is
	// empty or too short for the requested computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidParameter means a caller-supplied parameter is malformed
	// or out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrPersistenceFailure means a store write failed; the whole batch was
	// rolled back and the call produced no output.
	ErrPersistenceFailure = errors.New("persistence failure")
)
