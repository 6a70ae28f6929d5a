// tase-ibkr downloads TA-125 daily bars through a locally running
// Interactive Brokers client-portal gateway and writes
// tase_ibkr_ohlcv_latest.json plus a CSV export. The gateway must be logged
// in before this runs.
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

	ib := provider.NewIBKR(cfg.Providers.IBKR.BaseURL)
	job := fetch.NewBatcher("tase-ibkr", domain.MarketTASE, ib,
		symbols.TA125, cfg.Fetch.TA125BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle)

	started := time.Now()
	report, runErr := job.Run(ctx)
	if report != nil {
		if err := fetch.Persist(ctx, cfg, report, "tase_ibkr_ohlcv_latest.json", "Shazam-Stock-Info-TA125-IBKR.csv"); err != nil {
			log.Fatalf("persisting results: %v", err)
		}
	}
	fetch.WriteStatus(cfg, job.Name(), started, report, runErr)
	if runErr != nil {
		log.Fatalf("tase-ibkr: %v", runErr)
	}
}
