package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"shazam/internal/domain"
	"shazam/internal/util"
)

// ----------------------------------------------------------------------------
// Alpaca market-data adapter
// ----------------------------------------------------------------------------

// Alpaca fetches US daily bars through the official market-data SDK. It is
// the fallback vendor when Yahoo throttles a batch, since a keyed Alpaca
// account has no meaningful daily-bar quota.
type Alpaca struct {
	client *marketdata.Client
	logger *slog.Logger
	now    func() time.Time
}

var _ Provider = (*Alpaca)(nil)

func NewAlpaca(apiKey, apiSecret, dataURL string) *Alpaca {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &Alpaca{
		client: marketdata.NewClient(opts),
		logger: slog.Default().With("provider", "alpaca"),
		now:    time.Now,
	}
}

func (a *Alpaca) Name() string { return "alpaca" }

func (a *Alpaca) FetchDaily(ctx context.Context, symbol string, days int) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	end := util.LastCompleteTradingDay(a.now(), domain.MarketUS)
	start := lookbackStart(end, days)

	alpacaBars, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     day(start),
		End:       day(end).Add(23*time.Hour + 59*time.Minute),
		Feed:      "iex",
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca: fetch %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol: symbol,
			Date:   day(ab.Timestamp),
			Open:   ab.Open,
			High:   ab.High,
			Low:    ab.Low,
			Close:  ab.Close,
			Volume: int64(ab.Volume),
		})
	}

	bars = finalize(bars, domain.MarketUS, days)
	if len(bars) == 0 {
		return nil, errNoData("alpaca", symbol)
	}
	a.logger.Debug("fetched", "symbol", symbol, "bars", len(bars))
	return bars, nil
}
