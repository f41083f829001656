package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sevigo/review-bench/internal/retry"
)

var ErrEmptyResponse = errors.New("provider returned no content")

// TransportError is a failed call to a provider. CanRetry is decided here, at
// the transport boundary, from the status code or provider error payload.
type TransportError struct {
	Provider   string
	StatusCode int
	CanRetry   bool
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Retryable() bool { return e.CanRetry }

// IsRetryable reports whether err carries a throttling signal.
func IsRetryable(err error) bool { return retry.IsRetryable(err) }

// MalformedResponseError is a response that could not be decoded into the
// expected shape. Raw holds the text as received.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

const maxErrorBody = 512

func statusError(provider string, status int, body []byte) *TransportError {
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody] + "..."
	}
	return &TransportError{
		Provider:   provider,
		StatusCode: status,
		CanRetry:   isThrottleStatus(status) || strings.Contains(msg, "RESOURCE_EXHAUSTED"),
		Err:        errors.New(msg),
	}
}

func isThrottleStatus(status int) bool {
	// 529 is Anthropic's "overloaded" status.
	return status == http.StatusTooManyRequests || status == 529
}
