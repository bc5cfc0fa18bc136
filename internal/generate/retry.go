package generate

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rinaldofesta/superagents-sub002/internal/backend"
)

const (
	// DefaultMaxRetries bounds the extra attempts after the first one.
	DefaultMaxRetries = 3
	// DefaultRetryBaseDelay seeds the exponential backoff schedule.
	DefaultRetryBaseDelay = 500 * time.Millisecond
	// maxRetryDelay caps one backoff wait regardless of attempt count.
	maxRetryDelay = 30 * time.Second
)

// withRetry runs op, retrying errors backend.IsRetryable accepts with
// exponential backoff plus jitter. Total invocations never exceed
// 1 + maxRetries; non-retryable errors propagate after a single attempt.
// Backoff waits respect ctx.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, op func() (string, error)) (string, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		out, err := op()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !backend.IsRetryable(err) {
			return "", err
		}
		if attempt == maxRetries {
			break
		}

		// 1x, 2x, 4x... the base delay, widened by up to half again.
		delay := baseDelay << uint(attempt)
		if delay <= 0 || delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		delay += time.Duration(rand.Int64N(int64(delay)/2 + 1))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}
