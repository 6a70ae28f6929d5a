package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"shazam/internal/config"
	"shazam/internal/domain"
	"shazam/internal/store"
	"shazam/internal/util"
)

// archiveAttempts retries transient archive failures (a locked SQLite file,
// a parquet file held by a concurrent reader) before giving up on the sink.
const (
	archiveAttempts  = 3
	archiveBaseDelay = time.Second
)

// Persist writes a finished report to every configured sink: the JSON
// report, the CSV export, the SQLite archive when a path is set, and the
// Parquet cold archive when enabled. jsonName and csvName are file names
// under the output directory; an empty csvName skips the CSV.
func Persist(ctx context.Context, cfg *config.Config, report *domain.Report, jsonName, csvName string) error {
	log := slog.Default().With("component", "persist")

	jsonPath := filepath.Join(cfg.Storage.OutputDir, jsonName)
	if err := store.WriteReportJSON(report, jsonPath); err != nil {
		return fmt.Errorf("writing report json: %w", err)
	}
	log.Info("report written", "path", jsonPath, "symbols", report.SuccessfulSymbols)

	if csvName != "" {
		csvPath := filepath.Join(cfg.Storage.OutputDir, csvName)
		if err := store.WriteBarsCSV(report, csvPath); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
		log.Info("csv written", "path", csvPath)
	}

	bars := allBars(report)

	if cfg.Storage.SQLitePath != "" {
		db, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("opening sqlite: %w", err)
		}
		defer db.Close()
		err = util.Retry(ctx, archiveAttempts, archiveBaseDelay, func() error {
			return db.WriteBars(ctx, bars)
		})
		if err != nil {
			return fmt.Errorf("archiving to sqlite: %w", err)
		}
		log.Info("sqlite archived", "bars", len(bars))
	}

	if cfg.Storage.ArchiveParquet && cfg.Storage.DataDir != "" {
		ps := store.NewParquetStore(cfg.Storage.DataDir)
		err := util.Retry(ctx, archiveAttempts, archiveBaseDelay, func() error {
			return ps.ArchiveBars(bars, report.Market)
		})
		if err != nil {
			return fmt.Errorf("archiving to parquet: %w", err)
		}
		log.Info("parquet archived", "bars", len(bars))
	}
	return nil
}

// WriteStatus records the run outcome for the scheduler status file. Errors
// here are logged, not fatal; the data itself already landed.
func WriteStatus(cfg *config.Config, job string, started time.Time, report *domain.Report, runErr error) {
	finished := time.Now()
	status := store.RunStatus{
		Job:             job,
		LastUpdate:      finished,
		StartTime:       started,
		DurationSeconds: finished.Sub(started).Seconds(),
		Status:          "success",
	}
	if report != nil {
		status.Succeeded = report.SuccessfulSymbols
		status.Failed = len(report.FailedSymbols)
	}
	if runErr != nil {
		status.Status = "failed: " + runErr.Error()
	}
	if err := store.WriteStatusJSON(status, cfg.Storage.OutputDir); err != nil {
		slog.Default().Warn("writing status file", "error", err)
	}
}

// allBars flattens a report's per-symbol data.
func allBars(report *domain.Report) []domain.Bar {
	var bars []domain.Bar
	for _, symbolBars := range report.Data {
		bars = append(bars, symbolBars...)
	}
	return bars
}
