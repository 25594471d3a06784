// Package ratelimit provides sliding-window admission control for calls to
// an external resource. A Limiter never rejects: Acquire blocks until
// admitting one more call keeps the trailing window within budget.
package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Limiter bounds call frequency to maxCalls occurrences within the trailing
// period. It is safe for concurrent use.
type Limiter struct {
	maxCalls int
	period   time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	calls []time.Time

	// Internal clock wrappers for testability
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Limiter admitting at most maxCalls per period.
func New(maxCalls int, period time.Duration, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		maxCalls: maxCalls,
		period:   period,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Acquire blocks until one more call fits in the trailing window, records the
// admission, and returns. It returns early only if ctx is cancelled.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evict(now)

	if len(l.calls) >= l.maxCalls {
		sleepTime := l.period - now.Sub(l.calls[0])
		if sleepTime > 0 {
			l.logger.Warn("rate limit hit",
				"max_calls", l.maxCalls,
				"period", l.period,
				"sleep", sleepTime,
			)
			if err := l.sleep(ctx, sleepTime); err != nil {
				return err
			}
			now = l.now()
			l.evict(now)
		}
	}

	l.calls = append(l.calls, now)
	return nil
}

// evict drops admissions older than the trailing period. Caller holds mu.
func (l *Limiter) evict(now time.Time) {
	cutoff := now.Add(-l.period)
	i := 0
	for i < len(l.calls) && l.calls[i].Before(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
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
