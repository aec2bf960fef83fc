package memory

import (
	"context"
	"errors"
	"testing"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

func makeCloses(ticker string, closes []float64, startMs, intervalMs int64) []*domain.DailyClose {
	result := make([]*domain.DailyClose, len(closes))
	for i, c := range closes {
		result[i] = &domain.DailyClose{
			Ticker:      ticker,
			TimestampMs: startMs + int64(i)*intervalMs,
			Close:       c,
		}
	}
	return result
}

func TestDailyCloseStore_InsertBulkAndGet(t *testing.T) {
	store := NewDailyCloseStore()
	ctx := context.Background()

	closes := makeCloses("AAPL", []float64{100, 101, 99.5, 102}, 1000000, 86400000)
	if err := store.InsertBulk(ctx, closes); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if len(result) != 4 {
		t.Fatalf("Expected 4 closes, got %d", len(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i].TimestampMs <= result[i-1].TimestampMs {
			t.Errorf("Results not ordered by timestamp at index %d", i)
		}
	}
}

func TestDailyCloseStore_InsertBulkDuplicate(t *testing.T) {
	store := NewDailyCloseStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, makeCloses("AAPL", []float64{100}, 1000000, 86400000)); err != nil {
		t.Fatalf("First InsertBulk failed: %v", err)
	}

	// Same (ticker, timestamp) again fails the whole batch.
	batch := makeCloses("AAPL", []float64{101, 102}, 1000000, 86400000)
	err := store.InsertBulk(ctx, batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}

	all, _ := store.GetByTicker(ctx, "AAPL")
	if len(all) != 1 {
		t.Errorf("Expected 1 close (no partial insert), got %d", len(all))
	}
}

func TestDailyCloseStore_GetLastN(t *testing.T) {
	store := NewDailyCloseStore()
	ctx := context.Background()

	closes := makeCloses("AAPL", []float64{100, 101, 102, 103, 104}, 1000000, 86400000)
	if err := store.InsertBulk(ctx, closes); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	last3, err := store.GetLastN(ctx, "AAPL", 3)
	if err != nil {
		t.Fatalf("GetLastN failed: %v", err)
	}
	if len(last3) != 3 {
		t.Fatalf("Expected 3 closes, got %d", len(last3))
	}
	if last3[0].Close != 102 || last3[2].Close != 104 {
		t.Errorf("Expected the 3 most recent closes in ASC order, got %f..%f", last3[0].Close, last3[2].Close)
	}

	// Asking for more than exists returns everything.
	all, err := store.GetLastN(ctx, "AAPL", 50)
	if err != nil {
		t.Fatalf("GetLastN failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Expected all 5 closes, got %d", len(all))
	}
}

func TestDailyCloseStore_TickersIsolated(t *testing.T) {
	store := NewDailyCloseStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, makeCloses("AAPL", []float64{100, 101}, 1000000, 86400000)); err != nil {
		t.Fatalf("InsertBulk AAPL failed: %v", err)
	}
	if err := store.InsertBulk(ctx, makeCloses("MSFT", []float64{300}, 1000000, 86400000)); err != nil {
		t.Fatalf("InsertBulk MSFT failed: %v", err)
	}

	result, _ := store.GetByTicker(ctx, "MSFT")
	if len(result) != 1 {
		t.Errorf("Expected 1 close for MSFT, got %d", len(result))
	}
}
