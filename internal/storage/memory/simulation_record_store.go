package memory

import (
	"context"
	"sort"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// SimulationRecordStore is an in-memory implementation of storage.SimulationRecordStore.
type SimulationRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SimulationRecord // keyed by record_id
}

// NewSimulationRecordStore creates a new in-memory simulation record store.
func NewSimulationRecordStore() *SimulationRecordStore {
	return &SimulationRecordStore{
		data: make(map[string]*domain.SimulationRecord),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if record_id exists.
func (s *SimulationRecordStore) Insert(_ context.Context, r *domain.SimulationRecord) error {
	if r == nil || r.RecordID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.RecordID]; exists {
		return storage.ErrDuplicateKey
	}

	recCopy := *r
	s.data[r.RecordID] = &recCopy
	return nil
}

// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
func (s *SimulationRecordStore) GetByID(_ context.Context, recordID string) (*domain.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[recordID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *r
	return &recCopy, nil
}

// ListBySession retrieves all records for a session, ordered by created_at_ms ASC.
func (s *SimulationRecordStore) ListBySession(_ context.Context, sessionID string) ([]*domain.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulationRecord
	for _, r := range s.data {
		if r.SessionID == sessionID {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}

	sortRecords(result)
	return result, nil
}

// ListByTicker retrieves all records for a ticker, ordered by created_at_ms ASC.
func (s *SimulationRecordStore) ListByTicker(_ context.Context, ticker string) ([]*domain.SimulationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SimulationRecord
	for _, r := range s.data {
		if r.Ticker == ticker {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}

	sortRecords(result)
	return result, nil
}

// sortRecords orders by created_at_ms ASC with record_id as tie-break so
// listings are deterministic regardless of map iteration order.
func sortRecords(recs []*domain.SimulationRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAtMs != recs[j].CreatedAtMs {
			return recs[i].CreatedAtMs < recs[j].CreatedAtMs
		}
		return recs[i].RecordID < recs[j].RecordID
	})
}

var _ storage.SimulationRecordStore = (*SimulationRecordStore)(nil)
