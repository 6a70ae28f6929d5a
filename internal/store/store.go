// Package store persists fetch results: the combined JSON report, per-run
// CSV exports, the dividend calendar, a SQLite bar archive, and a Parquet
// cold archive.
package store

import (
	"context"
	"time"

	"shazam/internal/domain"
)

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars upserts a batch of bars keyed by (symbol, date).
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the given symbol within [start, end],
	// ascending by date.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols in storage, sorted.
	ListSymbols(ctx context.Context) ([]string, error)
}
