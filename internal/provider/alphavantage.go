package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// ----------------------------------------------------------------------------
// Alpha Vantage TIME_SERIES_DAILY adapter
// ----------------------------------------------------------------------------

const (
	alphaVantageURL    = "https://www.alphavantage.co/query"
	alphaMaxAttempts   = 3
	alphaBaseDelay     = 5 * time.Second
	alphaMinReqSpacing = 12 * time.Second // free tier: 5 requests/minute
)

// AlphaVantage pulls compact daily series. The free tier throttles hard, so
// the adapter self-paces to one request every 12 seconds.
type AlphaVantage struct {
	apiKey string
	client *http.Client
	pacer  *util.Pacer
	logger *slog.Logger
}

var _ Provider = (*AlphaVantage)(nil)

func NewAlphaVantage(apiKey string) *AlphaVantage {
	return &AlphaVantage{
		apiKey: apiKey,
		client: &http.Client{Timeout: httpTimeout},
		pacer:  util.NewPacer(util.PacerPolicy{MinDelay: alphaMinReqSpacing}),
		logger: slog.Default().With("provider", "alphavantage"),
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

func (a *AlphaVantage) FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("alphavantage: missing API key")
	}
	if err := a.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "compact")
	q.Set("apikey", a.apiKey)

	var body []byte
	err := util.RetryHTTP(ctx, alphaMaxAttempts, alphaBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, alphaVantageURL+"?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		body, err = fetchBody(a.client, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("alphavantage: fetch %s: %w", symbol, err)
	}

	bars, err := parseAlphaVantage(body, symbol)
	if err != nil {
		return nil, err
	}
	bars = finalize(bars, domain.MarketUS, days)
	if len(bars) == 0 {
		return nil, errNoData("alphavantage", symbol)
	}
	a.logger.Debug("fetched", "symbol", symbol, "bars", len(bars))
	return bars, nil
}

// alphaSeries is the day entry keyed by date string in the response map.
type alphaSeries struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// parseAlphaVantage decodes the daily series. The vendor signals quota and
// symbol errors inside a 200 body, so those fields are checked before the
// series itself.
func parseAlphaVantage(body []byte, symbol string) ([]domain.Bar, error) {
	var payload struct {
		ErrorMessage string                 `json:"Error Message"`
		Note         string                 `json:"Note"`
		Information  string                 `json:"Information"`
		Series       map[string]alphaSeries `json:"Time Series (Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("alphavantage: decode %s: %w", symbol, err)
	}
	switch {
	case payload.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage: %s: %s", symbol, payload.ErrorMessage)
	case payload.Note != "":
		return nil, fmt.Errorf("alphavantage: %s: rate limited: %s", symbol, payload.Note)
	case payload.Information != "":
		return nil, fmt.Errorf("alphavantage: %s: %s", symbol, payload.Information)
	case len(payload.Series) == 0:
		return nil, errNoData("alphavantage", symbol)
	}

	bars := make([]domain.Bar, 0, len(payload.Series))
	for date, row := range payload.Series {
		d, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(row.Open, 64)
		high, err2 := strconv.ParseFloat(row.High, 64)
		low, err3 := strconv.ParseFloat(row.Low, 64)
		closePx, err4 := strconv.ParseFloat(row.Close, 64)
		volume, err5 := strconv.ParseInt(row.Volume, 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   d,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}
	return bars, nil
}
