package analyzer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var dailyCSVHeader = []string{
	"Date", "Timestamp", "Symbol", "Description", "Last", "Change",
	"Pct_Change", "5Day", "3Month", "6Month", "YTD", "TSI", "Phase", "RM50", "RM10",
}

var tsiHeader = []string{"Date", "Timestamp", "Symbol", "TSI", "Phase", "RM50", "RM10"}

// tsiSymbols are the indices whose TSI values accumulate in the history file.
var tsiSymbols = map[string]bool{"SPY": true, "QQQ": true}

// WriteDailyCSV snapshots all scraped rows to <outputDir>/Shazam-market-daily.csv,
// overwriting the previous day's file.
func WriteDailyCSV(rows []Row, outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("analyzer: creating output dir: %w", err)
	}

	path := filepath.Join(outputDir, "Shazam-market-daily.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("analyzer: creating daily csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(dailyCSVHeader); err != nil {
		return "", fmt.Errorf("analyzer: writing daily csv header: %w", err)
	}
	date := now.Format("2006-01-02")
	ts := now.Format(time.RFC3339)
	for _, r := range rows {
		row := []string{
			date, ts, r.Symbol, r.Description, r.Last, r.Change,
			r.PctChange, r.FiveDay, r.ThreeMonth, r.SixMonth, r.YTD, r.TSI, r.Phase, r.RM50, r.RM10,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("analyzer: writing daily csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("analyzer: flushing daily csv: %w", err)
	}
	return path, nil
}

// AppendTSIHistory appends today's SPY/QQQ TSI readings to
// <outputDir>/shazam-tsi-history.csv. Existing records for today's date are
// replaced, so re-running the analyzer never duplicates a day.
func AppendTSIHistory(rows []Row, outputDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("analyzer: creating output dir: %w", err)
	}

	path := filepath.Join(outputDir, "shazam-tsi-history.csv")
	date := now.Format("2006-01-02")

	var kept [][]string
	if f, err := os.Open(path); err == nil {
		r := csv.NewReader(f)
		records, err := r.ReadAll()
		f.Close()
		if err != nil {
			return "", fmt.Errorf("analyzer: reading tsi history: %w", err)
		}
		for i, rec := range records {
			if i == 0 {
				continue // header
			}
			if len(rec) > 0 && rec[0] == date {
				continue
			}
			kept = append(kept, rec)
		}
	}

	ts := now.Format(time.RFC3339)
	for _, r := range rows {
		if !tsiSymbols[r.Symbol] {
			continue
		}
		kept = append(kept, []string{date, ts, r.Symbol, r.TSI, r.Phase, r.RM50, r.RM10})
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("analyzer: creating tsi history: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tsiHeader); err != nil {
		return "", fmt.Errorf("analyzer: writing tsi header: %w", err)
	}
	if err := w.WriteAll(kept); err != nil {
		return "", fmt.Errorf("analyzer: writing tsi rows: %w", err)
	}
	w.Flush()
	return path, w.Error()
}
