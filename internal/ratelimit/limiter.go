// Package ratelimit provides the token bucket that bounds the rate of outbound
// LLM calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a token bucket with capacity equal to the per-minute rate,
// refilled continuously at rate/60 tokens per second.
//
// The mutex only guards the token arithmetic. An acquirer that has to wait
// reserves its slot (tokens reset to zero, timestamp moved to its wake-up time)
// and releases the lock before sleeping, so concurrent acquirers queue up behind
// each other without being blocked on the mutex for the duration of the sleep.
type Limiter struct {
	mu          sync.Mutex
	rate        float64 // requests per minute, also the bucket capacity
	interval    time.Duration
	tokens      float64
	lastUpdated time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source and sleep function. Intended for tests.
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) {
		l.now = now
		l.sleep = sleep
	}
}

// New creates a Limiter allowing requestsPerMinute calls in any trailing
// minute. Values below 1 are treated as 1.
func New(requestsPerMinute int, opts ...Option) *Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	l := &Limiter{
		rate:     float64(requestsPerMinute),
		interval: time.Minute / time.Duration(requestsPerMinute),
		tokens:   float64(requestsPerMinute),
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.lastUpdated = l.now()
	return l
}

// Acquire blocks until a permit is available. It only fails when ctx is done
// while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	wait := l.reserve()
	if wait <= 0 {
		return nil
	}
	return l.sleep(ctx, wait)
}

// reserve takes a token, or reserves the next slot and reports how long the
// caller has to sleep before using it.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if elapsed := now.Sub(l.lastUpdated); elapsed > 0 {
		l.tokens = min(l.rate, l.tokens+elapsed.Seconds()*(l.rate/60.0))
		l.lastUpdated = now
	}

	if l.tokens >= 1 {
		l.tokens--
		return 0
	}

	// lastUpdated may lie in the future when earlier acquirers are still
	// sleeping; the new slot starts after theirs.
	wake := l.lastUpdated.Add(time.Duration((1 - l.tokens) * float64(l.interval)))
	l.tokens = 0
	l.lastUpdated = wake
	return wake.Sub(now)
}

// Available reports the current (fractional) token count without consuming.
func (l *Limiter) Available() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	tokens := l.tokens
	if elapsed := l.now().Sub(l.lastUpdated); elapsed > 0 {
		tokens = min(l.rate, tokens+elapsed.Seconds()*(l.rate/60.0))
	}
	return tokens
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
