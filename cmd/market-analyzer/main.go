// market-analyzer scrapes the index phase table from the configured
// analytics page, asks the configured LLM for a narrative, and publishes the
// HTML report plus the daily and history CSVs. A failed LLM call still
// publishes the table.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shazam/internal/analyzer"
	"shazam/internal/config"
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

	rows, err := analyzer.NewScraper().Scrape(ctx, cfg.Analyzer.PageURL)
	if err != nil {
		log.Fatalf("market-analyzer: %v", err)
	}

	now := time.Now()
	outDir := cfg.Analyzer.OutputDir

	if _, err := analyzer.WriteDailyCSV(rows, outDir, now); err != nil {
		log.Fatalf("market-analyzer: %v", err)
	}
	if _, err := analyzer.AppendTSIHistory(rows, outDir, now); err != nil {
		log.Fatalf("market-analyzer: %v", err)
	}

	var analysis string
	if cfg.Analyzer.LLM.APIKey != "" {
		summarizer := analyzer.NewSummarizer(
			cfg.Analyzer.LLM.BaseURL,
			cfg.Analyzer.LLM.APIKey,
			cfg.Analyzer.LLM.Model,
			cfg.Analyzer.LLM.MaxTokens,
			cfg.Analyzer.Timeout(),
		)
		analysis, err = summarizer.Summarize(ctx, rows)
		if err != nil {
			slog.Default().Warn("llm summary failed, publishing table only", "error", err)
		}
	} else {
		slog.Default().Warn("no LLM API key configured, publishing table only")
	}

	path, err := analyzer.RenderHTML(rows, analysis, outDir, now)
	if err != nil {
		log.Fatalf("market-analyzer: %v", err)
	}
	slog.Default().Info("report published", "path", path)
}
