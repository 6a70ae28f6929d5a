package util

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// StatusError carries a non-200 HTTP status through the retry machinery.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// Retryable classifies an error as worth retrying. Rate-limit and
// service-unavailable statuses retry; every other HTTP status is a hard
// failure. Transport-level errors (timeouts, refused connections) retry.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == http.StatusTooManyRequests ||
			statusErr.Code == http.StatusServiceUnavailable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Retry calls fn up to maxAttempts times with exponential backoff starting
// at baseDelay. It returns nil on the first successful call, or the last
// error if all attempts fail. The function respects context cancellation
// between retries.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	return backoff(ctx, maxAttempts, baseDelay, false, nil, fn)
}

// RetryHTTP is Retry restricted to retryable errors: a non-retryable error
// aborts immediately (attempt caps only apply to 429/503 and transport
// failures). Each backoff sleep gets up to one second of random jitter.
func RetryHTTP(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	return backoff(ctx, maxAttempts, baseDelay, true, Retryable, fn)
}

// backoff is the shared attempt loop. The delay doubles after every failed
// attempt; shouldRetry, when non-nil, aborts the loop on the first error it
// rejects. There is no sleep after the last attempt.
func backoff(ctx context.Context, maxAttempts int, baseDelay time.Duration, jitter bool, shouldRetry func(error) bool, fn func() error) error {
	var err error
	delay := baseDelay

	for attempt := 0; attempt < maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}

		if attempt < maxAttempts-1 {
			sleep := delay
			if jitter && sleep > 0 {
				sleep += time.Duration(rand.Int63n(int64(time.Second)))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(sleep):
			}
			delay *= 2
		}
	}

	return err
}
