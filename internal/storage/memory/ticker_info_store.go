package memory

import (
	"context"
	"sort"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// TickerInfoStore is an in-memory implementation of storage.TickerInfoStore.
type TickerInfoStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TickerInfo // keyed by ticker
}

// NewTickerInfoStore creates a new in-memory ticker info store.
func NewTickerInfoStore() *TickerInfoStore {
	return &TickerInfoStore{
		data: make(map[string]*domain.TickerInfo),
	}
}

// Insert adds new ticker metadata. Returns ErrDuplicateKey if ticker exists.
func (s *TickerInfoStore) Insert(_ context.Context, info *domain.TickerInfo) error {
	if info == nil || info.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[info.Ticker]; exists {
		return storage.ErrDuplicateKey
	}

	infoCopy := *info
	s.data[info.Ticker] = &infoCopy
	return nil
}

// GetByTicker retrieves metadata by ticker. Returns ErrNotFound if not exists.
func (s *TickerInfoStore) GetByTicker(_ context.Context, ticker string) (*domain.TickerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.data[ticker]
	if !exists {
		return nil, storage.ErrNotFound
	}

	infoCopy := *info
	return &infoCopy, nil
}

// ListAll retrieves all tickers, ordered by ticker ASC.
func (s *TickerInfoStore) ListAll(_ context.Context) ([]*domain.TickerInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TickerInfo, 0, len(s.data))
	for _, info := range s.data {
		infoCopy := *info
		result = append(result, &infoCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Ticker < result[j].Ticker
	})

	return result, nil
}

var _ storage.TickerInfoStore = (*TickerInfoStore)(nil)
