// fetch-ta125 downloads TA-125 daily bars via Yahoo and writes
// ta125_ohlcv_latest.json.
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
	job := fetch.NewBatcher("fetch-ta125", domain.MarketTASE, yahoo,
		symbols.TA125, cfg.Fetch.TA125BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle)

	started := time.Now()
	report, runErr := job.Run(ctx)
	if report != nil {
		if err := fetch.Persist(ctx, cfg, report, "ta125_ohlcv_latest.json", ""); err != nil {
			log.Fatalf("persisting results: %v", err)
		}
	}
	fetch.WriteStatus(cfg, job.Name(), started, report, runErr)
	if runErr != nil {
		log.Fatalf("fetch-ta125: %v", runErr)
	}
}
