package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"shazam/internal/domain"
)

// csvHeader is the column order of every per-run bar export.
var csvHeader = []string{"Symbol", "Date", "Open", "High", "Low", "Close", "Volume"}

// WriteBarsCSV writes all bars from a report into a single CSV, symbols in
// sorted order, each symbol's rows ascending by date.
func WriteBarsCSV(report *domain.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating csv dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	symbols := make([]string, 0, len(report.Data))
	for symbol := range report.Data {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		for _, b := range report.Data[symbol] {
			row := []string{
				b.Symbol,
				b.Date.Format("2006-01-02"),
				strconv.FormatFloat(b.Open, 'f', -1, 64),
				strconv.FormatFloat(b.High, 'f', -1, 64),
				strconv.FormatFloat(b.Low, 'f', -1, 64),
				strconv.FormatFloat(b.Close, 'f', -1, 64),
				strconv.FormatInt(b.Volume, 10),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing csv row for %s: %w", symbol, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// WriteDividendCSV writes the dividend calendar semicolon-separated with
// empty fields for unknown dates.
func WriteDividendCSV(events []domain.DividendEvent, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dividend dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dividend csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write([]string{"Symbol", "Date", "Next_Div_Date", "Next_Earn_Date"}); err != nil {
		return fmt.Errorf("writing dividend header: %w", err)
	}

	for _, e := range events {
		row := []string{
			e.Symbol,
			e.FetchedAt.Format("2006-01-02"),
			e.NextDivDate,
			e.NextEarnDate,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing dividend row for %s: %w", e.Symbol, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing dividend csv: %w", err)
	}
	return nil
}
