package batcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNotLoaded is returned when answers arrive before the first batch was loaded.
	ErrNotLoaded = errors.New("batcher: no batch loaded")
	// ErrRetryPending is returned when input arrives while a failed operation awaits Retry.
	ErrRetryPending = errors.New("batcher: a failed operation must be retried first")
	// ErrInvalidConfig is returned by New for inconsistent page sizes.
	ErrInvalidConfig = errors.New("batcher: invalid configuration")
)

// TransientError reports a failed round-trip that can be retried.
// The batcher state is unchanged when it is returned.
type TransientError struct {
	Op     string
	Offset int
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("batcher: %s at offset %d failed: %v", e.Op, e.Offset, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Retryable marks the error as recoverable.
func (e *TransientError) Retryable() bool {
	return true
}
