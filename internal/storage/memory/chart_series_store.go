package memory

import (
	"context"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// ChartSeriesStore is an in-memory implementation of storage.ChartSeriesStore.
type ChartSeriesStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ChartData // keyed by record_id
}

// NewChartSeriesStore creates a new in-memory chart series store.
func NewChartSeriesStore() *ChartSeriesStore {
	return &ChartSeriesStore{
		data: make(map[string]*domain.ChartData),
	}
}

// InsertChart adds all percentile and sample-path rows for a record.
// Returns ErrDuplicateKey if the record already has chart rows.
func (s *ChartSeriesStore) InsertChart(_ context.Context, recordID string, chart domain.ChartData) error {
	if recordID == "" {
		return storage.ErrInvalidInput
	}
	if len(chart.TimeIndex) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[recordID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[recordID] = copyChart(chart)
	return nil
}

// GetChart reassembles the chart for a record.
// Returns ErrNotFound if the record has no chart rows.
func (s *ChartSeriesStore) GetChart(_ context.Context, recordID string) (*domain.ChartData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chart, exists := s.data[recordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyChart(*chart), nil
}

// copyChart deep-copies every series so callers never share backing arrays
// with the store.
func copyChart(c domain.ChartData) *domain.ChartData {
	out := &domain.ChartData{
		TimeIndex:   append([]int(nil), c.TimeIndex...),
		P5:          append([]float64(nil), c.P5...),
		P50:         append([]float64(nil), c.P50...),
		P95:         append([]float64(nil), c.P95...),
		SamplePaths: make([]domain.PricePath, len(c.SamplePaths)),
	}
	for i, path := range c.SamplePaths {
		out.SamplePaths[i] = append(domain.PricePath(nil), path...)
	}
	return out
}

var _ storage.ChartSeriesStore = (*ChartSeriesStore)(nil)
