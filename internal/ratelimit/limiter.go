// Package ratelimit provides the pacing policy for upstream provider calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer blocks until the next request may be issued
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a fixed minimum spacing between successive
// requests. It is stricter than a token bucket: there is no burst allowance,
// which is what a hard N-requests-per-window provider ceiling requires.
type IntervalLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewIntervalLimiter creates a limiter that spaces requests at least
// interval apart. The first call to Wait returns immediately.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// NewIntervalLimiterWithClock creates a limiter with an injected clock and
// sleeper, so pacing can be verified without real wall-clock waits.
func NewIntervalLimiterWithClock(
	interval time.Duration,
	now func() time.Time,
	sleep func(ctx context.Context, d time.Duration) error,
) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
		now:      now,
		sleep:    sleep,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned. Concurrent callers queue up in FIFO-ish order:
// each caller reserves its slot before sleeping.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()

	var wait time.Duration
	if l.next.After(now) {
		wait = l.next.Sub(now)
	}
	l.next = now.Add(wait + l.interval)
	l.mu.Unlock()

	if wait > 0 {
		return l.sleep(ctx, wait)
	}
	return nil
}

// Interval returns the configured minimum spacing
func (l *IntervalLimiter) Interval() time.Duration {
	return l.interval
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
