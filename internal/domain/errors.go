package domain

import "errors"

// Shared error taxonomy for the decision pipeline.
var (
	// ErrDataUnavailable means a chain query failed or returned empty.
	// Callers skip the evaluation cycle and retry on the next interval.
	ErrDataUnavailable = errors.New("chain data unavailable")

	// ErrInvalidInput means malformed input (NaN price, negative amount)
	// was rejected at the boundary before reaching pure functions.
	ErrInvalidInput = errors.New("invalid input")
)
