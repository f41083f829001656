// Package retry executes rate-limited calls with exponential backoff on
// throttling errors.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxRetries   = 5
	DefaultInitialDelay = time.Second
	DefaultJitter       = 100 * time.Millisecond
)

// Acquirer gates each attempt. *ratelimit.Limiter satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context) error
}

// Executor runs an operation up to MaxRetries times in total. Only errors
// classified as retryable (see IsRetryable) are retried; the delay before
// retry n (0-based) is InitialDelay*2^n plus uniform jitter in [0, Jitter).
type Executor struct {
	MaxRetries   int
	InitialDelay time.Duration
	Jitter       time.Duration
	Limiter      Acquirer
	Logger       *slog.Logger

	timer backoff.Timer
	rand  func() float64
}

// NewExecutor creates an Executor with the package defaults applied to any
// non-positive setting.
func NewExecutor(maxRetries int, initialDelay time.Duration, limiter Acquirer, logger *slog.Logger) *Executor {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		MaxRetries:   maxRetries,
		InitialDelay: initialDelay,
		Jitter:       DefaultJitter,
		Limiter:      limiter,
		Logger:       logger,
	}
}

// Do runs op through ex. Non-retryable failures are returned unchanged on the
// first occurrence. When every attempt is throttled the result is an
// *ExhaustedError wrapping the last failure.
func Do[T any](ctx context.Context, ex *Executor, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		result   T
		attempts int
	)

	operation := func() error {
		attempts++
		if ex.Limiter != nil {
			if err := ex.Limiter.Acquire(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		v, err := op(ctx)
		if err != nil {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = v
		return nil
	}

	notify := func(err error, next time.Duration) {
		ex.Logger.Warn("rate limit hit, retrying",
			"attempt", attempts,
			"max_attempts", ex.maxAttempts(),
			"delay", next.Round(time.Millisecond),
			"error", err,
		)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(ex.newBackOff(), uint64(ex.maxAttempts()-1)),
		ctx,
	)

	err := backoff.RetryNotifyWithTimer(operation, b, notify, ex.timer)
	if err == nil {
		return result, nil
	}

	var zero T
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return zero, err
	}
	if IsRetryable(err) {
		ex.Logger.Error("retries exhausted", "attempts", attempts, "error", err)
		return zero, &ExhaustedError{Attempts: attempts, Err: err}
	}
	return zero, err
}

func (ex *Executor) maxAttempts() int {
	if ex.MaxRetries < 1 {
		return 1
	}
	return ex.MaxRetries
}

func (ex *Executor) newBackOff() *exponentialJitter {
	r := ex.rand
	if r == nil {
		r = rand.Float64
	}
	return &exponentialJitter{initial: ex.InitialDelay, jitter: ex.Jitter, rand: r}
}

// exponentialJitter implements backoff.BackOff with an additive jitter.
// backoff.ExponentialBackOff only offers multiplicative randomization.
type exponentialJitter struct {
	initial time.Duration
	jitter  time.Duration
	attempt int
	rand    func() float64
}

func (e *exponentialJitter) NextBackOff() time.Duration {
	d := e.initial << e.attempt
	if e.jitter > 0 {
		d += time.Duration(e.rand() * float64(e.jitter))
	}
	e.attempt++
	return d
}

func (e *exponentialJitter) Reset() { e.attempt = 0 }
