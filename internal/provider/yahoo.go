package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// ----------------------------------------------------------------------------
// Yahoo chart API adapter
// ----------------------------------------------------------------------------

const (
	yahooChartURL    = "https://query1.finance.yahoo.com/v8/finance/chart/"
	yahooMaxAttempts = 3
	yahooBaseDelay   = 5 * time.Second
	crumbChars       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	crumbLen         = 11
)

// Yahoo fetches daily bars from the unauthenticated chart endpoint. Requests
// carry a rotating browser User-Agent and a fresh random crumb per call, and
// are spaced by a randomized delay so the host does not throttle the batch.
type Yahoo struct {
	client *http.Client
	pacer  *util.Pacer
	logger *slog.Logger
	now    func() time.Time
}

var _ Provider = (*Yahoo)(nil)

// NewYahoo builds the adapter with a uniform random inter-request delay in
// [minDelay, maxDelay].
func NewYahoo(minDelay, maxDelay time.Duration) *Yahoo {
	return &Yahoo{
		client: &http.Client{Timeout: httpTimeout},
		pacer: util.NewPacer(util.PacerPolicy{
			MinDelay:   minDelay,
			JitterSpan: maxDelay - minDelay,
		}),
		logger: slog.Default().With("provider", "yahoo"),
		now:    time.Now,
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

// FetchDaily requests the chart range covering the last `days` complete
// trading sessions of the symbol's home market.
func (y *Yahoo) FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	if err := y.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	market := domain.MarketForSymbol(symbol)
	end := util.LastCompleteTradingDay(y.now(), market)
	start := lookbackStart(end, days)

	q := url.Values{}
	q.Set("period1", strconv.FormatInt(day(start).Unix(), 10))
	q.Set("period2", strconv.FormatInt(day(end).Add(23*time.Hour+59*time.Minute).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div,split")
	q.Set("crumb", randomCrumb())

	reqURL := yahooChartURL + url.PathEscape(symbol) + "?" + q.Encode()

	var body []byte
	err := util.RetryHTTP(ctx, yahooMaxAttempts, yahooBaseDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", randomUserAgent())
		req.Header.Set("Accept", "application/json")

		body, err = fetchBody(y.client, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo: fetch %s: %w", symbol, err)
	}

	bars, err := parseYahooChart(body, symbol)
	if err != nil {
		return nil, err
	}
	bars = finalize(bars, market, days)
	if len(bars) == 0 {
		return nil, errNoData("yahoo", symbol)
	}
	y.logger.Debug("fetched", "symbol", symbol, "bars", len(bars))
	return bars, nil
}

// randomCrumb mimics the session token the web client attaches; the chart
// endpoint accepts any value but rejects its absence for some symbols.
func randomCrumb() string {
	b := make([]byte, crumbLen)
	for i := range b {
		b[i] = crumbChars[rand.Intn(len(crumbChars))]
	}
	return string(b)
}

// yahooChart mirrors the subset of the chart response we read. Quote arrays
// use pointers because the vendor emits explicit nulls for halted sessions.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseYahooChart zips the parallel arrays into bars. Entries with a null in
// any field are skipped, and a trailing index past the shortest array is
// dropped rather than guessed at.
func parseYahooChart(body []byte, symbol string) ([]domain.Bar, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo: decode %s: %w", symbol, err)
	}
	if e := chart.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo: %s: %s (%s)", symbol, e.Description, e.Code)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errNoData("yahoo", symbol)
	}

	res := chart.Chart.Result[0]
	quote := res.Indicators.Quote[0]

	n := len(res.Timestamp)
	for _, l := range []int{len(quote.Open), len(quote.High), len(quote.Low), len(quote.Close), len(quote.Volume)} {
		if l < n {
			n = l
		}
	}

	bars := make([]domain.Bar, 0, n)
	for i := 0; i < n; i++ {
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   day(time.Unix(res.Timestamp[i], 0)),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}
	return bars, nil
}
