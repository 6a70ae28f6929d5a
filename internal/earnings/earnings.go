// Package earnings implements the weekly dividend-calendar job: one Polygon
// reference lookup per symbol, collected into a semicolon CSV.
package earnings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shazam/internal/domain"
)

// DividendSource is the vendor call the job depends on; *provider.Polygon
// satisfies it.
type DividendSource interface {
	NextDividend(ctx context.Context, symbol string, from time.Time) (time.Time, error)
}

// Job fetches the next dividend date for every symbol in the universe. The
// next-earnings column is carried in the output but not yet populated; no
// configured vendor exposes it on a free tier.
type Job struct {
	source   DividendSource
	universe []string
	log      *slog.Logger
	now      func() time.Time
}

func NewJob(source DividendSource, universe []string) *Job {
	return &Job{
		source:   source,
		universe: universe,
		log:      slog.Default().With("job", "earn-div"),
		now:      time.Now,
	}
}

// Run queries every symbol once and returns the collected events. Symbols
// that fail after retries are logged and omitted.
func (j *Job) Run(ctx context.Context) ([]domain.DividendEvent, error) {
	from := NextSaturday(j.now())
	fetched := j.now()

	j.log.Info("dividend run starting", "symbols", len(j.universe), "from", from.Format("2006-01-02"))

	events := make([]domain.DividendEvent, 0, len(j.universe))
	for _, symbol := range j.universe {
		divDate, err := j.source.NextDividend(ctx, symbol, from)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return events, err
			}
			j.log.Warn("dividend lookup failed", "symbol", symbol, "error", err)
			continue
		}
		var divStr string
		if !divDate.IsZero() {
			divStr = divDate.Format("2006-01-02")
		}
		events = append(events, domain.DividendEvent{
			Symbol:      symbol,
			FetchedAt:   fetched,
			NextDivDate: divStr,
		})
	}

	j.log.Info("dividend run finished", "events", len(events))
	return events, nil
}

// NextSaturday returns the upcoming Saturday at midnight; a Saturday input
// maps to the following week.
func NextSaturday(now time.Time) time.Time {
	days := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
