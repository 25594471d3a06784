package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock drives the limiter deterministically. Sleeping advances the
// clock instead of blocking.
type fakeClock struct {
	current time.Time
	slept   []time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.current = c.current.Add(d)
	return nil
}

func newTestLimiter(maxCalls int, period time.Duration) (*Limiter, *fakeClock) {
	clock := &fakeClock{current: time.Unix(1000, 0)}
	l := New(maxCalls, period, nil)
	l.now = clock.now
	l.sleep = clock.sleep
	return l, clock
}

func TestAcquireUnderBudgetNeverSleeps(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("unexpected error on call %d: %v", i+1, err)
		}
	}
	if len(clock.slept) != 0 {
		t.Errorf("expected no sleeps, got %v", clock.slept)
	}
}

func TestAcquireOverBudgetSleepsUntilWindowFrees(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)
	ctx := context.Background()

	start := clock.current
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		clock.current = clock.current.Add(time.Second)
	}

	// 4th call: the window holds 3 admissions, the oldest is 3s old, so the
	// limiter must wait out the remaining 57s.
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 1 {
		t.Fatalf("expected exactly one sleep, got %d", len(clock.slept))
	}
	if clock.slept[0] != 57*time.Second {
		t.Errorf("expected 57s sleep, got %v", clock.slept[0])
	}
	if elapsed := clock.current.Sub(start); elapsed < time.Minute {
		t.Errorf("4th admission happened %v after the 1st, want >= 1m", elapsed)
	}
}

func TestAcquireEvictsStaleAdmissions(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// After a full period both admissions are stale; no sleep needed.
	clock.current = clock.current.Add(61 * time.Second)
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clock.slept) != 0 {
		t.Errorf("expected no sleeps, got %v", clock.slept)
	}
}

func TestAcquireCancelledContext(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	cancelled := errors.New("cancelled")
	l.sleep = func(ctx context.Context, d time.Duration) error {
		return cancelled
	}

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := l.Acquire(ctx); !errors.Is(err, cancelled) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
}
