package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Retrier retries model calls that fail with rate-limit or server errors.
// Other errors are returned immediately.
type Retrier struct {
	RateLimitWaits   []time.Duration
	ServerErrorWaits []time.Duration
}

// DefaultRetrier waits long enough for per-minute rate limits to reset.
func DefaultRetrier() Retrier {
	return Retrier{
		RateLimitWaits:   []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second},
		ServerErrorWaits: []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second},
	}
}

// Do calls fn until it succeeds, fails with a non-retryable error, runs out of
// waits, or ctx is done.
func (r Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	rl, se := 0, 0
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var wait time.Duration
		switch {
		case isRateLimitError(err) && rl < len(r.RateLimitWaits):
			wait = r.RateLimitWaits[rl]
			rl++
		case isServerError(err) && se < len(r.ServerErrorWaits):
			wait = r.ServerErrorWaits[se]
			se++
		case isRateLimitError(err) || isServerError(err):
			return fmt.Errorf("failed after %d attempts: %w", attempt, err)
		default:
			return err
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

type statusCoder interface {
	StatusCode() int
}

func statusCode(err error) int {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return 0
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if statusCode(err) == 429 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	if code := statusCode(err); code >= 500 {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error") ||
		strings.Contains(errStr, "overloaded")
}
