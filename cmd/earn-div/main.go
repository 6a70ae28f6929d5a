// earn-div fetches the upcoming dividend date for every S&P 500 symbol via
// the Polygon reference API and writes the semicolon-separated calendar
// CSV. Intended to run weekly.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"shazam/internal/config"
	"shazam/internal/earnings"
	"shazam/internal/provider"
	"shazam/internal/store"
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
	job := earnings.NewJob(poly, symbols.SP500)

	events, err := job.Run(ctx)
	if err != nil {
		log.Fatalf("earn-div: %v", err)
	}

	path := filepath.Join(cfg.Storage.OutputDir, "weekly_earnings_dividends.csv")
	if err := store.WriteDividendCSV(events, path); err != nil {
		log.Fatalf("earn-div: writing csv: %v", err)
	}
}
