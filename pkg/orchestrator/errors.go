package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned when choices arrive before Start.
	ErrNotStarted = errors.New("orchestrator: not started")
	// ErrRetryPending is returned when input arrives while a failed operation awaits Retry.
	ErrRetryPending = errors.New("orchestrator: a failed operation must be retried first")
)

// TransientError reports a failed fetch or persist that can be retried.
// The orchestrator position is unchanged when it is returned.
type TransientError struct {
	Op     string
	Domain string
	Err    error
}

func (e *TransientError) Error() string {
	if e.Domain == "" {
		return fmt.Sprintf("orchestrator: %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("orchestrator: %s for domain %q failed: %v", e.Op, e.Domain, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Retryable marks the error as recoverable.
func (e *TransientError) Retryable() bool {
	return true
}
