package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// ----------------------------------------------------------------------------
// Polygon.io aggregates adapter
// ----------------------------------------------------------------------------

const (
	polygonBaseURL     = "https://api.polygon.io"
	polygonMaxAttempts = 3
	polygonBaseDelay   = 5 * time.Second

	// Free tier caps at 5 requests per minute; the adapter keeps 12 seconds
	// between calls and cools off for two minutes after every fifth request.
	polygonMinDelay      = 12 * time.Second
	polygonCooldownEvery = 5
	polygonCooldown      = 2 * time.Minute
)

// Polygon pulls daily aggregates from /v2/aggs and, for the dividend job,
// upcoming cash dividends from /v3/reference/dividends.
type Polygon struct {
	apiKey string
	client *http.Client
	pacer  *util.Pacer
	logger *slog.Logger
	now    func() time.Time
}

var _ Provider = (*Polygon)(nil)

func NewPolygon(apiKey string) *Polygon {
	return &Polygon{
		apiKey: apiKey,
		client: &http.Client{Timeout: httpTimeout},
		pacer: util.NewPacer(util.PacerPolicy{
			MinDelay:      polygonMinDelay,
			CooldownEvery: polygonCooldownEvery,
			Cooldown:      polygonCooldown,
		}),
		logger: slog.Default().With("provider", "polygon"),
		now:    time.Now,
	}
}

func (p *Polygon) Name() string { return "polygon" }

func (p *Polygon) FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("polygon: missing API key")
	}
	if err := p.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	end := util.LastCompleteTradingDay(p.now(), domain.MarketUS)
	start := lookbackStart(end, days)

	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", "50000")
	q.Set("apiKey", p.apiKey)

	reqURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?%s",
		polygonBaseURL, url.PathEscape(symbol),
		day(start).Format("2006-01-02"), day(end).Format("2006-01-02"), q.Encode())

	var body []byte
	err := util.RetryHTTP(ctx, polygonMaxAttempts, polygonBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		body, err = fetchBody(p.client, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("polygon: fetch %s: %w", symbol, err)
	}

	bars, err := parsePolygonAggs(body, symbol)
	if err != nil {
		return nil, err
	}
	bars = finalize(bars, domain.MarketUS, days)
	if len(bars) == 0 {
		return nil, errNoData("polygon", symbol)
	}
	p.logger.Debug("fetched", "symbol", symbol, "bars", len(bars))
	return bars, nil
}

// NextDividend returns the next cash dividend with an ex-date on or after
// `from`, or a zero time when none is scheduled.
func (p *Polygon) NextDividend(ctx context.Context, symbol string, from time.Time) (time.Time, error) {
	if p.apiKey == "" {
		return time.Time{}, fmt.Errorf("polygon: missing API key")
	}
	if err := p.pacer.Wait(ctx); err != nil {
		return time.Time{}, err
	}

	q := url.Values{}
	q.Set("ticker", symbol)
	q.Set("ex_dividend_date.gte", day(from).Format("2006-01-02"))
	q.Set("order", "asc")
	q.Set("sort", "ex_dividend_date")
	q.Set("limit", "1")
	q.Set("apiKey", p.apiKey)

	var body []byte
	err := util.RetryHTTP(ctx, polygonMaxAttempts, polygonBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			polygonBaseURL+"/v3/reference/dividends?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		body, err = fetchBody(p.client, req)
		return err
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("polygon: dividends %s: %w", symbol, err)
	}

	return parseNextDividend(body, symbol)
}

// parseNextDividend decodes a /v3/reference/dividends response. Results are
// only trusted when the vendor reports status OK; no scheduled dividend
// yields a zero time.
func parseNextDividend(body []byte, symbol string) (time.Time, error) {
	var payload struct {
		Status  string `json:"status"`
		Error   string `json:"error"`
		Results []struct {
			ExDividendDate string `json:"ex_dividend_date"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return time.Time{}, fmt.Errorf("polygon: decode dividends %s: %w", symbol, err)
	}
	if payload.Status != "OK" {
		return time.Time{}, fmt.Errorf("polygon: dividends %s: status %s %s", symbol, payload.Status, payload.Error)
	}
	if len(payload.Results) == 0 || payload.Results[0].ExDividendDate == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation("2006-01-02", payload.Results[0].ExDividendDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("polygon: dividend date %s: %w", symbol, err)
	}
	return d, nil
}

// parsePolygonAggs decodes /v2/aggs results. Rows with non-positive prices
// or volume are dropped; the vendor reports volume as a float.
func parsePolygonAggs(body []byte, symbol string) ([]domain.Bar, error) {
	var payload struct {
		Status  string `json:"status"`
		Error   string `json:"error"`
		Results []struct {
			T int64   `json:"t"` // epoch millis
			O float64 `json:"o"`
			H float64 `json:"h"`
			L float64 `json:"l"`
			C float64 `json:"c"`
			V float64 `json:"v"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("polygon: decode %s: %w", symbol, err)
	}
	if payload.Status != "OK" && payload.Status != "DELAYED" {
		if payload.Error != "" {
			return nil, fmt.Errorf("polygon: %s: %s", symbol, payload.Error)
		}
		return nil, fmt.Errorf("polygon: %s: status %q", symbol, payload.Status)
	}

	bars := make([]domain.Bar, 0, len(payload.Results))
	for _, r := range payload.Results {
		if r.V <= 0 {
			continue
		}
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   day(time.UnixMilli(r.T)),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: int64(r.V),
		})
	}
	return bars, nil
}
