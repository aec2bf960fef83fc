package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// DailyCloseStore is an in-memory implementation of storage.DailyCloseStore.
type DailyCloseStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DailyClose // keyed by (ticker, timestamp_ms)
}

// NewDailyCloseStore creates a new in-memory daily close store.
func NewDailyCloseStore() *DailyCloseStore {
	return &DailyCloseStore{
		data: make(map[string]*domain.DailyClose),
	}
}

// closeKey generates a unique key for a daily close.
func closeKey(ticker string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", ticker, timestampMs)
}

// InsertBulk adds multiple closes. Fails entire batch on duplicate (ticker, timestamp_ms).
func (s *DailyCloseStore) InsertBulk(_ context.Context, closes []*domain.DailyClose) error {
	if len(closes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(closes))

	// First pass: check for duplicates (existing + intra-batch)
	for _, c := range closes {
		if c == nil || c.Ticker == "" {
			return storage.ErrInvalidInput
		}
		key := closeKey(c.Ticker, c.TimestampMs)

		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, c := range closes {
		key := closeKey(c.Ticker, c.TimestampMs)
		closeCopy := *c
		s.data[key] = &closeCopy
	}

	return nil
}

// GetByTicker retrieves all closes for a ticker, ordered by timestamp ASC.
func (s *DailyCloseStore) GetByTicker(_ context.Context, ticker string) ([]*domain.DailyClose, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DailyClose
	for _, c := range s.data {
		if c.Ticker == ticker {
			closeCopy := *c
			result = append(result, &closeCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// GetLastN retrieves the most recent n closes for a ticker, ordered by
// timestamp ASC. Returns fewer when less history exists.
func (s *DailyCloseStore) GetLastN(ctx context.Context, ticker string, n int) ([]*domain.DailyClose, error) {
	if n <= 0 {
		return nil, nil
	}

	all, err := s.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

var _ storage.DailyCloseStore = (*DailyCloseStore)(nil)
