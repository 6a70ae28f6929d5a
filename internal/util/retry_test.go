package util

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", &StatusError{Code: http.StatusTooManyRequests}, true},
		{"503", &StatusError{Code: http.StatusServiceUnavailable}, true},
		{"404", &StatusError{Code: http.StatusNotFound}, false},
		{"500", &StatusError{Code: http.StatusInternalServerError}, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryHTTPExhaustsOnRateLimit(t *testing.T) {
	calls := 0
	err := RetryHTTP(context.Background(), 3, 0, func() error {
		calls++
		return &StatusError{Code: http.StatusTooManyRequests}
	})
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Errorf("RetryHTTP() = %v, want 429 status error", err)
	}
}

func TestRetryHTTPAbortsOnHardError(t *testing.T) {
	calls := 0
	err := RetryHTTP(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return &StatusError{Code: http.StatusNotFound}
	})
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Errorf("RetryHTTP() = %v, want 404 status error", err)
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Minute, func() error {
		return errors.New("always fails")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
