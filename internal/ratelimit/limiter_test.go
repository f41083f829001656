package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when a sleep is requested, so tests never block.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

func TestLimiter_BurstUpToCapacity(t *testing.T) {
	for _, rpm := range []int{1, 10, 60, 120} {
		clock := newFakeClock()
		l := New(rpm, WithClock(clock.Now, clock.Sleep))

		for i := 0; i < rpm; i++ {
			require.NoError(t, l.Acquire(context.Background()))
		}
		assert.Empty(t, clock.Sleeps(), "rpm=%d: first %d acquisitions must not sleep", rpm, rpm)

		require.NoError(t, l.Acquire(context.Background()))
		sleeps := clock.Sleeps()
		require.Len(t, sleeps, 1)
		want := time.Minute / time.Duration(rpm)
		assert.InDelta(t, want.Seconds(), sleeps[0].Seconds(), 0.001, "rpm=%d", rpm)
	}
}

func TestLimiter_Refill(t *testing.T) {
	clock := newFakeClock()
	l := New(60, WithClock(clock.Now, clock.Sleep))

	for i := 0; i < 60; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	clock.Advance(2 * time.Second)
	assert.InDelta(t, 2.0, l.Available(), 1e-9)

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))
	assert.Empty(t, clock.Sleeps())

	clock.Advance(time.Hour)
	assert.InDelta(t, 60.0, l.Available(), 1e-9, "refill is capped at capacity")
}

func TestLimiter_PartialTokenWait(t *testing.T) {
	clock := newFakeClock()
	l := New(60, WithClock(clock.Now, clock.Sleep))
	for i := 0; i < 60; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	clock.Advance(250 * time.Millisecond)
	require.NoError(t, l.Acquire(context.Background()))

	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 1)
	assert.InDelta(t, 0.75, sleeps[0].Seconds(), 1e-6)
	assert.InDelta(t, 0.0, l.Available(), 1e-9, "tokens reset to zero after waiting")
}

func TestLimiter_QueuedWaitersDoNotCompoundDebt(t *testing.T) {
	clock := newFakeClock()
	l := New(60, WithClock(clock.Now, clock.Sleep))
	for i := 0; i < 60; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}

	// Three callers arrive at the same instant while the bucket is empty.
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	sleeps := clock.Sleeps()
	require.Len(t, sleeps, 3)
	assert.InDelta(t, 1.0, sleeps[0].Seconds(), 1e-6)
	assert.InDelta(t, 2.0, sleeps[1].Seconds(), 1e-6)
	assert.InDelta(t, 3.0, sleeps[2].Seconds(), 1e-6)

	// Once time catches up with the last reservation the bucket refills normally.
	clock.Advance(4 * time.Second)
	assert.InDelta(t, 1.0, l.Available(), 1e-6)
}

func TestLimiter_ConcurrentAcquire(t *testing.T) {
	clock := newFakeClock()
	l := New(30, WithClock(clock.Now, clock.Sleep))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}
	wg.Wait()

	assert.Len(t, clock.Sleeps(), 20, "only acquisitions beyond capacity wait")
}

func TestLimiter_ContextCancelledWhileWaiting(t *testing.T) {
	l := New(1)
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_ClampsRate(t *testing.T) {
	l := New(0)
	assert.InDelta(t, 1.0, l.Available(), 1e-9)
}
