// scheduler is the long-running daemon: it cron-schedules the daily Yahoo
// download for both universes and the weekly dividend-calendar job, and
// blocks until interrupted.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"shazam/internal/config"
	"shazam/internal/domain"
	"shazam/internal/earnings"
	"shazam/internal/fetch"
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
	logger := slog.Default().With("component", "scheduler")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := cron.New()

	if _, err := c.AddFunc(cfg.Schedule.DailyCron, func() { runDaily(ctx, cfg, logger) }); err != nil {
		log.Fatalf("registering daily job: %v", err)
	}
	if _, err := c.AddFunc(cfg.Schedule.WeeklyCron, func() { runWeekly(ctx, cfg, logger) }); err != nil {
		log.Fatalf("registering weekly job: %v", err)
	}

	logger.Info("scheduler starting",
		"daily", cfg.Schedule.DailyCron,
		"weekly", cfg.Schedule.WeeklyCron,
	)
	c.Start()

	<-ctx.Done()
	logger.Info("shutting down")
	stopCtx := c.Stop()
	<-stopCtx.Done()
}

// runDaily fetches both universes via Yahoo and persists all sinks.
func runDaily(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
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
			job: fetch.NewBatcher("daily-sp500", domain.MarketUS, yahoo,
				symbols.SP500, cfg.Fetch.SP500BatchSize, cfg.Fetch.LookbackDays, cfg.Fetch.Shuffle),
			jsonName: "us_ohlcv_latest.json",
			csvName:  "Shazam-Stock-Info-SP500.csv",
		},
		{
			job: fetch.NewBatcher("daily-ta125", domain.MarketTASE, yahoo,
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
				logger.Error("persisting results", "job", j.job.Name(), "error", err)
			}
		}
		fetch.WriteStatus(cfg, j.job.Name(), started, report, runErr)
		if runErr != nil {
			logger.Error("daily job failed", "job", j.job.Name(), "error", runErr)
		}
	}
}

// runWeekly refreshes the dividend calendar.
func runWeekly(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	poly := provider.NewPolygon(cfg.Providers.Polygon.APIKey)
	events, err := earnings.NewJob(poly, symbols.SP500).Run(ctx)
	if err != nil {
		logger.Error("weekly job failed", "error", err)
		return
	}
	path := filepath.Join(cfg.Storage.OutputDir, "weekly_earnings_dividends.csv")
	if err := store.WriteDividendCSV(events, path); err != nil {
		logger.Error("writing dividend csv", "error", err)
	}
}
