package client

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// Retrier handles retry logic with exponential backoff.
// It is safe for concurrent use by multiple goroutines.
type Retrier struct {
	maxRetries   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	logger       *slog.Logger
}

func newRetrier(opts *Options) *Retrier {
	return &Retrier{
		maxRetries:   opts.maxRetries,
		retryWaitMin: opts.retryWaitMin,
		retryWaitMax: opts.retryWaitMax,
		logger:       opts.logger,
	}
}

// Do executes fn with retry logic. fn must rebuild its request on every call
// so each attempt carries a fresh signature.
func (r *Retrier) Do(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		// Exponential backoff before retry (skip on first attempt)
		if attempt > 0 {
			wait := r.backoff(attempt)
			r.logger.DebugContext(ctx, "retrying request",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait),
				slog.String("error", lastErr.Error()),
			)
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !r.shouldRetry(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

func (r *Retrier) shouldRetry(err error) bool {
	// A cancelled caller must not be retried on its behalf.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsTransportError(err) {
		return true
	}

	// Server-side HTML pages (5xx) are usually transient
	var htmlErr *HTMLError
	if errors.As(err, &htmlErr) && htmlErr.StatusCode >= 500 {
		return true
	}

	// Parse, validation, rejection and session errors reproduce on retry
	return false
}

func (r *Retrier) backoff(attempt int) time.Duration {
	// Cap attempt to prevent overflow
	if attempt > 10 {
		attempt = 10
	}

	// Exponential backoff with jitter
	mult := math.Pow(2, float64(attempt))
	wait := time.Duration(mult) * r.retryWaitMin

	// Add jitter (0-100% of retryWaitMin) - using math/rand/v2 (goroutine-safe)
	jitter := time.Duration(rand.Int64N(int64(r.retryWaitMin)))
	wait += jitter

	if wait > r.retryWaitMax {
		wait = r.retryWaitMax
	}

	return wait
}
