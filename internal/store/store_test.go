package store

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shazam/internal/domain"
)

func sampleBar(symbol string, day time.Time) domain.Bar {
	return domain.Bar{
		Symbol: symbol,
		Date:   day,
		Open:   100.5,
		High:   102,
		Low:    99,
		Close:  101.25,
		Volume: 5000,
	}
}

func TestWriteReportJSON(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	report := domain.NewReport("us", 2)
	report.AddSuccess("AAPL", []domain.Bar{sampleBar("AAPL", day)})
	report.AddFailure("XXXX")

	path := filepath.Join(dir, "us_ohlcv_latest.json")
	if err := WriteReportJSON(report, path); err != nil {
		t.Fatalf("WriteReportJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"last_updated", "market", "total_symbols", "successful_symbols", "failed_symbols", "data"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing %q key", key)
		}
	}
	if !strings.Contains(string(data), `"2026-08-28"`) {
		t.Error("bar dates not serialized as YYYY-MM-DD strings")
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1", len(entries))
	}
}

func TestWriteBarsCSV(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	report := domain.NewReport("us", 2)
	report.AddSuccess("MSFT", []domain.Bar{sampleBar("MSFT", day)})
	report.AddSuccess("AAPL", []domain.Bar{sampleBar("AAPL", day)})

	path := filepath.Join(dir, "out.csv")
	if err := WriteBarsCSV(report, path); err != nil {
		t.Fatalf("WriteBarsCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	wantHeader := "Symbol,Date,Open,High,Low,Close,Volume"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}
	// Symbols in sorted order.
	if records[1][0] != "AAPL" || records[2][0] != "MSFT" {
		t.Errorf("rows not sorted by symbol: %v vs %v", records[1][0], records[2][0])
	}
	if records[1][1] != "2026-08-28" {
		t.Errorf("date column = %q", records[1][1])
	}
}

func TestWriteDividendCSV(t *testing.T) {
	dir := t.TempDir()
	fetched := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	events := []domain.DividendEvent{
		{Symbol: "AAPL", FetchedAt: fetched, NextDivDate: "2026-09-05"},
		{Symbol: "GOOG", FetchedAt: fetched}, // no dividend scheduled
	}

	path := filepath.Join(dir, "dividends.csv")
	if err := WriteDividendCSV(events, path); err != nil {
		t.Fatalf("WriteDividendCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0] != "Symbol;Date;Next_Div_Date;Next_Earn_Date" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AAPL;2026-08-28;2026-09-05;") {
		t.Errorf("dividend row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "GOOG;2026-08-28;;") {
		t.Errorf("empty dates row = %q", lines[2])
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bars.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)

	if err := s.WriteBars(ctx, []domain.Bar{sampleBar("AAPL", day)}); err != nil {
		t.Fatalf("WriteBars: %v", err)
	}

	// Upsert replaces, never duplicates.
	updated := sampleBar("AAPL", day)
	updated.Close = 999
	if err := s.WriteBars(ctx, []domain.Bar{updated}); err != nil {
		t.Fatalf("WriteBars upsert: %v", err)
	}

	bars, err := s.ReadBars(ctx, "AAPL", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("got %d bars, want 1", len(bars))
	}
	if bars[0].Close != 999 {
		t.Errorf("close = %v, want 999 (upsert should replace)", bars[0].Close)
	}

	symbols, err := s.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != "AAPL" {
		t.Errorf("symbols = %v, want [AAPL]", symbols)
	}
}

func TestParquetStoreArchive(t *testing.T) {
	s := NewParquetStore(t.TempDir())
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	if err := s.ArchiveBars([]domain.Bar{sampleBar("AAPL", day)}, "us"); err != nil {
		t.Fatalf("ArchiveBars: %v", err)
	}
	// Second archive of the same date merges rather than duplicating.
	if err := s.ArchiveBars([]domain.Bar{sampleBar("AAPL", day)}, "us"); err != nil {
		t.Fatalf("ArchiveBars again: %v", err)
	}

	bars, err := s.ReadBars("AAPL", "us", day.AddDate(0, 0, -5), day.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("got %d bars, want 1 after dedup", len(bars))
	}

	symbols, err := s.ListSymbols("us")
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != "AAPL" {
		t.Errorf("symbols = %v, want [AAPL]", symbols)
	}
}

func TestWriteStatusJSONMergesByJob(t *testing.T) {
	dir := t.TempDir()
	finished := time.Date(2026, 8, 28, 2, 15, 0, 0, time.UTC)

	write := func(job, outcome string, succeeded int) {
		t.Helper()
		status := RunStatus{
			Job:             job,
			LastUpdate:      finished,
			StartTime:       finished.Add(-10 * time.Minute),
			DurationSeconds: 600,
			Succeeded:       succeeded,
			Failed:          3,
			Status:          outcome,
		}
		if err := WriteStatusJSON(status, dir); err != nil {
			t.Fatalf("WriteStatusJSON: %v", err)
		}
	}

	write("fetch-daily-sp500", "failed: context canceled", 120)
	write("fetch-daily-ta125", "success", 122)
	write("fetch-daily-sp500", "success", 400)

	data, err := os.ReadFile(filepath.Join(dir, "download_status.json"))
	if err != nil {
		t.Fatalf("reading status: %v", err)
	}
	var entries map[string]RunStatus
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	sp := entries["fetch-daily-sp500"]
	if sp.Status != "success" || sp.Succeeded != 400 {
		t.Errorf("sp500 entry not overwritten by latest run: %+v", sp)
	}
	if entries["fetch-daily-ta125"].Succeeded != 122 {
		t.Errorf("ta125 entry = %+v", entries["fetch-daily-ta125"])
	}
}
