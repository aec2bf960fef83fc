// Package stub provides a fixed-snapshot market data provider for tests
// and offline runs.
package stub

import (
	"context"
	"fmt"

	"trade-sim-lab/internal/domain"
)

// Provider serves snapshots from a fixed set.
// Implements marketdata.Provider.
type Provider struct {
	Snapshots map[string]*domain.MarketSnapshot
}

// New creates a new stub provider.
func New() *Provider {
	return &Provider{Snapshots: make(map[string]*domain.MarketSnapshot)}
}

// Add registers a snapshot under its ticker.
func (p *Provider) Add(snap *domain.MarketSnapshot) {
	p.Snapshots[snap.Ticker] = snap
}

// Snapshot returns the registered snapshot for a ticker.
func (p *Provider) Snapshot(_ context.Context, ticker string) (*domain.MarketSnapshot, error) {
	snap, ok := p.Snapshots[ticker]
	if !ok {
		return nil, fmt.Errorf("no snapshot for %s", ticker)
	}
	snapCopy := *snap
	return &snapCopy, nil
}
