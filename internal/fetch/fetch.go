// Package fetch orchestrates batched symbol downloads: it walks a universe
// in sub-batches, drives one provider per job, and collects the per-symbol
// outcomes into a report.
package fetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shazam/internal/domain"
	"shazam/internal/provider"
	"shazam/internal/symbols"
)

// Job is a runnable fetch unit. All batch entrypoints build a Job and hand
// it to a signal-aware main loop.
type Job interface {
	// Name returns the job identifier.
	Name() string
	// Run executes the job. It returns the collected report even when some
	// symbols failed; the error is non-nil only when the run as a whole
	// could not proceed.
	Run(ctx context.Context) (*domain.Report, error)
}

// Batcher fetches a symbol universe through one provider, sub-batch by
// sub-batch, and accumulates results into a report. A symbol that fails
// after retries is recorded and skipped; the batch keeps going.
type Batcher struct {
	name      string
	market    domain.Market
	provider  provider.Provider
	universe  []string
	batchSize int
	lookback  int
	shuffle   bool
	pause     time.Duration
	log       *slog.Logger
}

// batchPause separates consecutive sub-batches so a run never hammers a
// vendor with back-to-back bursts.
const batchPause = 2 * time.Second

var _ Job = (*Batcher)(nil)

// NewBatcher builds a batch job over the given universe. A batchSize of zero
// or less means a single batch.
func NewBatcher(name string, market domain.Market, p provider.Provider, universe []string, batchSize, lookback int, shuffle bool) *Batcher {
	return &Batcher{
		name:      name,
		market:    market,
		provider:  p,
		universe:  universe,
		batchSize: batchSize,
		lookback:  lookback,
		shuffle:   shuffle,
		pause:     batchPause,
		log:       slog.Default().With("job", name),
	}
}

// Name returns the job identifier.
func (b *Batcher) Name() string { return b.name }

// Run walks the universe and fetches every symbol once. Context cancellation
// stops the run and returns the partial report alongside the context error.
func (b *Batcher) Run(ctx context.Context) (*domain.Report, error) {
	universe := b.universe
	if b.shuffle {
		universe = symbols.Shuffle(universe)
	}

	report := domain.NewReport(string(b.market), len(universe))
	start := time.Now()
	b.log.Info("batch starting",
		"provider", b.provider.Name(),
		"symbols", len(universe),
		"batchSize", b.batchSize,
	)

	for i, batch := range subBatches(universe, b.batchSize) {
		if i > 0 && b.pause > 0 {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(b.pause):
			}
		}
		b.log.Info("sub-batch", "index", i+1, "size", len(batch))
		for _, symbol := range batch {
			bars, err := b.provider.FetchDaily(ctx, symbol, b.lookback)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					b.log.Warn("batch interrupted", "symbol", symbol)
					return report, err
				}
				b.log.Warn("symbol failed", "symbol", symbol, "error", err)
				report.AddFailure(symbol)
				continue
			}
			report.AddSuccess(symbol, bars)
		}
	}

	b.log.Info("batch finished",
		"succeeded", report.SuccessfulSymbols,
		"failed", len(report.FailedSymbols),
		"elapsed", time.Since(start).Round(time.Second),
	)
	return report, nil
}

// subBatches splits the universe into contiguous slices of at most size
// entries. Size <= 0 yields the whole universe as one batch.
func subBatches(universe []string, size int) [][]string {
	if size <= 0 || size >= len(universe) {
		if len(universe) == 0 {
			return nil
		}
		return [][]string{universe}
	}
	var out [][]string
	for start := 0; start < len(universe); start += size {
		end := start + size
		if end > len(universe) {
			end = len(universe)
		}
		out = append(out, universe[start:end])
	}
	return out
}
