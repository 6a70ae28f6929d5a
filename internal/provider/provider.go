// Package provider implements the per-vendor daily-bar adapters behind a
// common fetch contract. Each adapter paces its own requests according to
// the vendor's documented quota, retries rate-limit responses with
// exponential backoff, and normalizes the vendor payload into domain bars.
package provider

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// Provider fetches raw daily bars for one symbol over a lookback window of
// trading days. Implementations return an error when the symbol yields no
// usable data; the batch orchestrator records it and moves on.
type Provider interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error)
}

const httpTimeout = 30 * time.Second

// userAgents is the rotation pool for vendors that block scripted clients.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_1) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

// randomUserAgent picks one entry from the rotation pool.
func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// fetchBody executes the request and returns the response body, mapping
// non-200 statuses to *util.StatusError so the retry layer can classify
// 429/503 as retryable.
func fetchBody(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &util.StatusError{Code: resp.StatusCode}
	}
	return body, nil
}

// finalize applies the shared normalization tail: drop invalid bars, keep
// only the market's trading weekdays, sort ascending by date, and truncate
// to the most recent `days` entries.
func finalize(bars []domain.Bar, market domain.Market, days int) []domain.Bar {
	kept := bars[:0]
	for _, b := range bars {
		if b.Valid() {
			kept = append(kept, b)
		}
	}
	kept = util.FilterTradingDays(kept, market)

	sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	if days > 0 && len(kept) > days {
		kept = kept[len(kept)-days:]
	}
	return kept
}

// day truncates a timestamp to local midnight.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// lookbackStart pads the requested trading-day count with calendar slack so
// weekends and holidays inside the range don't shrink the result below the
// target.
func lookbackStart(end time.Time, days int) time.Time {
	calendarDays := days*3/2 + 10
	return end.AddDate(0, 0, -calendarDays)
}

// errNoData is returned when a vendor responds 200 but carries no bars.
func errNoData(vendor, symbol string) error {
	return fmt.Errorf("%s: no data for %s", vendor, symbol)
}
