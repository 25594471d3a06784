package orchestrator

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	provider "github.com/Cyclone1070/devagent/internal/provider/models"
)

// retryPolicy retries provider calls with exponential backoff. Rate-limit
// responses get extra jitter so concurrent agents do not resynchronise.
// Non-retriable errors are returned after a single attempt.
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger

	// injected for tests
	sleep  func(context.Context, time.Duration) error
	jitter func() float64
}

func newRetryPolicy(maxRetries int, baseDelay time.Duration, logger *slog.Logger) *retryPolicy {
	return &retryPolicy{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
		sleep:      sleepContext,
		jitter:     rand.Float64,
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

// do runs fn up to maxRetries times. After the budget is spent it returns a
// RetriesExhaustedError reporting the attempt count and the last cause.
func (p *retryPolicy) do(ctx context.Context, fn func() (*provider.GenerateResponse, error)) (*provider.GenerateResponse, error) {
	var lastErr error
	for attempt := 0; attempt < p.maxRetries; attempt++ {
		resp, err := fn()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !provider.IsRetryable(err) {
			p.logger.Error("provider call failed",
				"attempt", attempt+1,
				"error", err)
			return nil, err
		}
		if attempt == p.maxRetries-1 {
			break
		}

		delay := time.Duration(float64(p.baseDelay) * math.Pow(2, float64(attempt)))
		if provider.IsRateLimit(err) {
			delay += time.Duration(p.jitter() * float64(time.Second))
		}
		p.logger.Warn("provider call failed, retrying",
			"attempt", attempt+1,
			"max_retries", p.maxRetries,
			"delay", delay,
			"error", err)
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
	return nil, &provider.RetriesExhaustedError{Attempts: p.maxRetries, LastErr: lastErr}
}
