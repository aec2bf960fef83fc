package backtest

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/storage"
)

// Runner replays levels against close history loaded from a store.
type Runner struct {
	closes storage.DailyCloseStore
}

// NewRunner creates a new backtest runner.
func NewRunner(closes storage.DailyCloseStore) *Runner {
	return &Runner{closes: closes}
}

// Run replays the levels against the ticker's closes in (from, to],
// Unix ms. The entry sits at `from`; only closes strictly after it count
// as replay days.
func (r *Runner) Run(ctx context.Context, ticker string, levels Levels, from, to int64) (*Result, error) {
	history, err := r.closes.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load close history: %w", err)
	}

	var closes []float64
	for _, c := range history {
		if c.TimestampMs > from && c.TimestampMs <= to {
			closes = append(closes, c.Close)
		}
	}

	return Replay(ticker, levels, closes)
}

// RunAll replays the levels against every stored close for the ticker.
func (r *Runner) RunAll(ctx context.Context, ticker string, levels Levels) (*Result, error) {
	history, err := r.closes.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("load close history: %w", err)
	}

	closes := make([]float64, 0, len(history))
	for _, c := range history {
		closes = append(closes, c.Close)
	}

	return Replay(ticker, levels, closes)
}
