// fetch-polygon downloads S&P 500 daily bars via Polygon.io aggregates and
// writes polygon_ohlcv_latest.json. The free-tier pacing (12s between
// requests, 2-minute pause every 5) makes this the slowest daily path.
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

	poly := provider.NewPolygon(cfg.Providers.Polygon.APIKey)
	job := fetch.NewBatcher("fetch-polygon", domain.MarketUS, poly,
		symbols.SP500, cfg.Fetch.SP500BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle)

	started := time.Now()
	report, runErr := job.Run(ctx)
	if report != nil {
		if err := fetch.Persist(ctx, cfg, report, "polygon_ohlcv_latest.json", ""); err != nil {
			log.Fatalf("persisting results: %v", err)
		}
	}
	fetch.WriteStatus(cfg, job.Name(), started, report, runErr)
	if runErr != nil {
		log.Fatalf("fetch-polygon: %v", runErr)
	}
}
