// fetch-sp500 downloads S&P 500 daily bars and writes
// sp500_ohlcv_latest.json. The default Alpha Vantage vendor allows 5
// requests per minute, so a full run takes hours; -vendor=alpaca uses a
// keyed Alpaca account instead, and fetch-daily covers the fast Yahoo path.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shazam/internal/config"
	"shazam/internal/domain"
	"shazam/internal/fetch"
	"shazam/internal/provider"
	"shazam/internal/symbols"
	"shazam/internal/util"
)

func main() {
	vendor := flag.String("vendor", "alphavantage", "data vendor: alphavantage or alpaca")
	flag.Parse()

	cfgPath := "config/shazam.yaml"
	if p := os.Getenv("SHAZAM_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(os.Stdout, cfg.Logging.Level, cfg.Logging.Format))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	universe := symbols.SP500
	if cfg.Fetch.SymbolsCSV != "" {
		universe, err = symbols.Load(cfg.Fetch.SymbolsCSV)
		if err != nil {
			log.Fatalf("loading symbols csv: %v", err)
		}
	}

	var p provider.Provider
	switch *vendor {
	case "alphavantage":
		p = provider.NewAlphaVantage(cfg.Providers.AlphaVantage.APIKey)
	case "alpaca":
		p = provider.NewAlpaca(
			cfg.Providers.Alpaca.APIKey,
			cfg.Providers.Alpaca.APISecret,
			cfg.Providers.Alpaca.DataURL,
		)
	default:
		log.Fatalf("unknown vendor %q", *vendor)
	}

	job := fetch.NewBatcher("fetch-sp500", domain.MarketUS, p,
		universe, cfg.Fetch.SP500BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle)

	started := time.Now()
	report, runErr := job.Run(ctx)
	if report != nil {
		if err := fetch.Persist(ctx, cfg, report, "sp500_ohlcv_latest.json", ""); err != nil {
			log.Fatalf("persisting results: %v", err)
		}
	}
	fetch.WriteStatus(cfg, job.Name(), started, report, runErr)
	if runErr != nil {
		log.Fatalf("fetch-sp500: %v", runErr)
	}
}
