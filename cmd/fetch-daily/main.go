// fetch-daily downloads the last ~50 trading days of OHLCV data for both
// universes via Yahoo: the S&P 500 list and the TA-125 list. Results go to
// per-market CSV files plus the run status JSON.
package main

import (
	"context"
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

	yahoo := provider.NewYahoo(
		time.Duration(cfg.Providers.Yahoo.MinDelaySeconds)*time.Second,
		time.Duration(cfg.Providers.Yahoo.MaxDelaySeconds)*time.Second,
	)

	jobs := []struct {
		job      *fetch.Batcher
		jsonName string
		csvName  string
	}{
		{
			job: fetch.NewBatcher("fetch-daily-sp500", domain.MarketUS, yahoo,
				symbols.SP500, cfg.Fetch.SP500BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle),
			jsonName: "us_ohlcv_latest.json",
			csvName:  "Shazam-Stock-Info-SP500.csv",
		},
		{
			job: fetch.NewBatcher("fetch-daily-ta125", domain.MarketTASE, yahoo,
				symbols.TA125, cfg.Fetch.TA125BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle),
			jsonName: "tase_ohlcv_latest.json",
			csvName:  "Shazam-Stock-Info-TA125.csv",
		},
	}

	for _, j := range jobs {
		started := time.Now()
		report, runErr := j.job.Run(ctx)
		if report != nil {
			if err := fetch.Persist(ctx, cfg, report, j.jsonName, j.csvName); err != nil {
				log.Fatalf("%s: persisting results: %v", j.job.Name(), err)
			}
		}
		fetch.WriteStatus(cfg, j.job.Name(), started, report, runErr)
		if runErr != nil {
			log.Fatalf("%s: %v", j.job.Name(), runErr)
		}
	}
}
