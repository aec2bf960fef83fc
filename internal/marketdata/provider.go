package marketdata

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// Provider supplies the market snapshot for a ticker.
type Provider interface {
	// Snapshot returns current price plus annualized volatility and drift.
	// Returns ErrNoHistory when nothing is known about the ticker and
	// ErrInsufficientHistory when too few closes exist to estimate from.
	Snapshot(ctx context.Context, ticker string) (*domain.MarketSnapshot, error)
}

// HistoryProvider estimates snapshots from stored daily closes. The latest
// close doubles as the current price.
type HistoryProvider struct {
	closes storage.DailyCloseStore
	window int
}

// NewHistoryProvider creates a HistoryProvider over a close store.
// window <= 0 selects DefaultEstimationWindow.
func NewHistoryProvider(closes storage.DailyCloseStore, window int) *HistoryProvider {
	if window <= 0 {
		window = DefaultEstimationWindow
	}
	return &HistoryProvider{closes: closes, window: window}
}

// Snapshot estimates the snapshot from the trailing close window.
// A window of w log returns needs w+1 closes.
func (p *HistoryProvider) Snapshot(ctx context.Context, ticker string) (*domain.MarketSnapshot, error) {
	rows, err := p.closes.GetLastN(ctx, ticker, p.window+1)
	if err != nil {
		return nil, fmt.Errorf("load closes for %s: %w", ticker, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, ErrNoHistory)
	}

	prices := make([]float64, len(rows))
	for i, r := range rows {
		prices[i] = r.Close
	}

	vol, err := EstimateVolatility(prices)
	if err != nil {
		return nil, fmt.Errorf("estimate volatility for %s: %w", ticker, err)
	}
	drift, err := EstimateDrift(prices)
	if err != nil {
		return nil, fmt.Errorf("estimate drift for %s: %w", ticker, err)
	}

	return &domain.MarketSnapshot{
		Ticker:     ticker,
		Price:      prices[len(prices)-1],
		Volatility: vol,
		Drift:      drift,
	}, nil
}

var _ Provider = (*HistoryProvider)(nil)
