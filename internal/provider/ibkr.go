package provider

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// ----------------------------------------------------------------------------
// Interactive Brokers client-portal gateway adapter
// ----------------------------------------------------------------------------

const (
	ibkrMaxAttempts = 4
	ibkrBaseDelay   = 5 * time.Second

	// The gateway allows 60 requests per rolling 10-minute window.
	ibkrWindowLimit = 60
	ibkrWindow      = 10 * time.Minute
)

// IBKR reads Tel Aviv daily history through a locally running client-portal
// gateway. The gateway terminates TLS with a self-signed certificate, so the
// client skips verification for the loopback endpoint.
type IBKR struct {
	baseURL    string
	client     *http.Client
	pacer      *util.Pacer
	logger     *slog.Logger
	retryDelay time.Duration

	mu     sync.Mutex
	conids map[string]int64
}

var _ Provider = (*IBKR)(nil)

func NewIBKR(baseURL string) *IBKR {
	return &IBKR{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		pacer: util.NewPacer(util.PacerPolicy{
			WindowLimit: ibkrWindowLimit,
			Window:      ibkrWindow,
		}),
		logger:     slog.Default().With("provider", "ibkr"),
		retryDelay: ibkrBaseDelay,
		conids:     make(map[string]int64),
	}
}

func (ib *IBKR) Name() string { return "ibkr" }

// FetchDaily resolves the TASE contract for the symbol and pulls its daily
// history. Zero-volume sessions are kept; only negative volume is clamped.
func (ib *IBKR) FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	conid, err := ib.resolveConid(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if err := ib.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("conid", fmt.Sprint(conid))
	q.Set("period", fmt.Sprintf("%dd", days*3/2+10))
	q.Set("bar", "1d")

	var body []byte
	err = util.RetryHTTP(ctx, ibkrMaxAttempts, ib.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			ib.baseURL+"/iserver/marketdata/history?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		body, err = fetchBody(ib.client, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ibkr: history %s: %w", symbol, err)
	}

	var payload struct {
		Data []struct {
			T int64   `json:"t"` // epoch millis
			O float64 `json:"o"`
			H float64 `json:"h"`
			L float64 `json:"l"`
			C float64 `json:"c"`
			V float64 `json:"v"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("ibkr: decode %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(payload.Data))
	for _, r := range payload.Data {
		volume := int64(r.V)
		if volume < 0 {
			volume = 0
		}
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   day(time.UnixMilli(r.T)),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: volume,
		})
	}

	bars = finalize(bars, domain.MarketTASE, days)
	if len(bars) == 0 {
		return nil, errNoData("ibkr", symbol)
	}
	ib.logger.Debug("fetched", "symbol", symbol, "conid", conid, "bars", len(bars))
	return bars, nil
}

// resolveConid looks up the gateway contract id for a Tel Aviv ticker,
// caching results for the life of the adapter. The gateway expects the bare
// local symbol without the exchange suffix.
func (ib *IBKR) resolveConid(ctx context.Context, symbol string) (int64, error) {
	local := taseLocalSymbol(symbol)

	ib.mu.Lock()
	if conid, ok := ib.conids[local]; ok {
		ib.mu.Unlock()
		return conid, nil
	}
	ib.mu.Unlock()

	if err := ib.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	q := url.Values{}
	q.Set("symbol", local)
	q.Set("secType", "STK")

	var body []byte
	err := util.RetryHTTP(ctx, ibkrMaxAttempts, ib.retryDelay, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			ib.baseURL+"/iserver/secdef/search?"+q.Encode(), nil)
		if err != nil {
			return err
		}
		body, err = fetchBody(ib.client, req)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("ibkr: search %s: %w", symbol, err)
	}

	var results []struct {
		Conid       json.Number `json:"conid"`
		Description string      `json:"description"`
		Sections    []struct {
			SecType  string `json:"secType"`
			Exchange string `json:"exchange"`
			Currency string `json:"currency"`
		} `json:"sections"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return 0, fmt.Errorf("ibkr: decode search %s: %w", symbol, err)
	}

	for _, r := range results {
		for _, s := range r.Sections {
			// A cross-listed ticker can match on symbol alone; the Tel Aviv
			// contract is the one listed on TASE in shekels.
			if s.SecType == "STK" && strings.Contains(s.Exchange, "TASE") && s.Currency == "ILS" {
				conid, err := r.Conid.Int64()
				if err != nil {
					continue
				}
				ib.mu.Lock()
				ib.conids[local] = conid
				ib.mu.Unlock()
				return conid, nil
			}
		}
	}
	return 0, fmt.Errorf("ibkr: no TASE contract for %s", symbol)
}

// taseLocalSymbol strips the Yahoo-style exchange suffix: TEVA.TA -> TEVA.
func taseLocalSymbol(symbol string) string {
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}
