// Package domain defines the core types shared across fetch jobs: daily
// OHLCV bars, market identifiers, run reports, and dividend events.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Market identifies a stock exchange universe.
type Market string

const (
	MarketUS   Market = "us"
	MarketTASE Market = "tase"
)

// MarketForSymbol infers the market from the ticker suffix. Tel Aviv
// tickers carry a .TA or .TLV suffix; everything else is treated as US.
func MarketForSymbol(symbol string) Market {
	if strings.HasSuffix(symbol, ".TA") || strings.HasSuffix(symbol, ".TLV") {
		return MarketTASE
	}
	return MarketUS
}

// Bar is a single daily OHLCV record. Date carries no time-of-day; it is
// always midnight in the local zone of the producing adapter.
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Valid reports whether the bar satisfies the retention invariants:
// all prices positive, high >= low, volume non-negative.
func (b Bar) Valid() bool {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return false
	}
	if b.High < b.Low {
		return false
	}
	return b.Volume >= 0
}

type barJSON struct {
	Symbol string  `json:"symbol"`
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MarshalJSON emits the bar with a bare YYYY-MM-DD date string.
func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(barJSON{
		Symbol: b.Symbol,
		Date:   b.Date.Format("2006-01-02"),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	})
}

// UnmarshalJSON parses the YYYY-MM-DD date string back into a time.Time.
func (b *Bar) UnmarshalJSON(data []byte) error {
	var raw barJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := time.Parse("2006-01-02", raw.Date)
	if err != nil {
		return err
	}
	*b = Bar{
		Symbol: raw.Symbol,
		Date:   d,
		Open:   raw.Open,
		High:   raw.High,
		Low:    raw.Low,
		Close:  raw.Close,
		Volume: raw.Volume,
	}
	return nil
}

// Report is the aggregate outcome of one market's fetch run. It marshals to
// the published JSON document layout.
type Report struct {
	LastUpdated       time.Time        `json:"last_updated"`
	Market            string           `json:"market"`
	TotalSymbols      int              `json:"total_symbols"`
	SuccessfulSymbols int              `json:"successful_symbols"`
	FailedSymbols     []string         `json:"failed_symbols"`
	Data              map[string][]Bar `json:"data"`
}

// NewReport creates an empty report for a market universe of the given size.
func NewReport(market string, totalSymbols int) *Report {
	return &Report{
		LastUpdated:   time.Now(),
		Market:        market,
		TotalSymbols:  totalSymbols,
		FailedSymbols: []string{},
		Data:          make(map[string][]Bar),
	}
}

// AddSuccess records a per-symbol series in the report.
func (r *Report) AddSuccess(symbol string, bars []Bar) {
	r.Data[symbol] = bars
	r.SuccessfulSymbols++
}

// AddFailure records a symbol that produced no data.
func (r *Report) AddFailure(symbol string) {
	r.FailedSymbols = append(r.FailedSymbols, symbol)
}

// DividendEvent is the per-symbol outcome of the weekly dividend/earnings
// lookup. Empty date strings mean no upcoming event was found.
type DividendEvent struct {
	Symbol       string
	FetchedAt    time.Time
	NextDivDate  string
	NextEarnDate string
}
