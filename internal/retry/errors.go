package retry

import (
	"errors"
	"fmt"
)

// Retryable is implemented by errors that carry a transport-level
// classification of whether the failed call may be retried (e.g. HTTP 429).
type Retryable interface {
	Retryable() bool
}

// IsRetryable reports whether any error in err's chain is classified as retryable.
func IsRetryable(err error) bool {
	var r Retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}
	return false
}

// ExhaustedError is returned when every attempt failed with a retryable error.
// It unwraps to the last observed failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }
