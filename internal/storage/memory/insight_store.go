package memory

import (
	"context"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// InsightStore is an in-memory implementation of storage.InsightStore.
type InsightStore struct {
	mu   sync.RWMutex
	data map[string]*domain.InsightRecord // keyed by ticker
}

// NewInsightStore creates a new in-memory insight store.
func NewInsightStore() *InsightStore {
	return &InsightStore{
		data: make(map[string]*domain.InsightRecord),
	}
}

// Insert adds a new insight row. Returns ErrDuplicateKey if ticker exists.
func (s *InsightStore) Insert(_ context.Context, ins *domain.InsightRecord) error {
	if ins == nil || ins.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[ins.Ticker]; exists {
		return storage.ErrDuplicateKey
	}

	insCopy := *ins
	s.data[ins.Ticker] = &insCopy
	return nil
}

// GetByTicker retrieves the insight row for a ticker. Returns ErrNotFound if not exists.
func (s *InsightStore) GetByTicker(_ context.Context, ticker string) (*domain.InsightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ins, exists := s.data[ticker]
	if !exists {
		return nil, storage.ErrNotFound
	}

	insCopy := *ins
	return &insCopy, nil
}

// UpdateLevels overwrites an existing row's levels and scalars.
// Returns ErrNotFound when no row exists for the ticker; it never inserts.
func (s *InsightStore) UpdateLevels(_ context.Context, ins *domain.InsightRecord) error {
	if ins == nil || ins.Ticker == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[ins.Ticker]; !exists {
		return storage.ErrNotFound
	}

	insCopy := *ins
	s.data[ins.Ticker] = &insCopy
	return nil
}

var _ storage.InsightStore = (*InsightStore)(nil)
