package earnings

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNextSaturday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"monday", time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), "2026-08-29"},
		{"friday", time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC), "2026-08-29"},
		{"saturday rolls a week", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), "2026-09-05"},
		{"sunday", time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), "2026-09-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSaturday(tt.now)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("NextSaturday(%s) = %s, want %s",
					tt.now.Format("2006-01-02"), got.Format("2006-01-02"), tt.want)
			}
			if got.Hour() != 0 {
				t.Errorf("result not at midnight: %v", got)
			}
		})
	}
}

type fakeSource struct {
	dates map[string]time.Time
	errs  map[string]error
}

func (f *fakeSource) NextDividend(_ context.Context, symbol string, _ time.Time) (time.Time, error) {
	if err := f.errs[symbol]; err != nil {
		return time.Time{}, err
	}
	return f.dates[symbol], nil
}

func TestJobRun(t *testing.T) {
	src := &fakeSource{
		dates: map[string]time.Time{
			"AAPL": time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		},
		errs: map[string]error{
			"BAD": errors.New("vendor unavailable"),
		},
	}

	job := NewJob(src, []string{"AAPL", "BAD", "GOOG"})
	events, err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// BAD is skipped; GOOG has no scheduled dividend but still appears.
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Symbol != "AAPL" || events[0].NextDivDate != "2026-09-10" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Symbol != "GOOG" || events[1].NextDivDate != "" {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestJobRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{errs: map[string]error{"AAPL": ctx.Err()}}
	job := NewJob(src, []string{"AAPL", "GOOG"})

	if _, err := job.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
