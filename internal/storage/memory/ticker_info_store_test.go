package memory

import (
	"context"
	"errors"
	"testing"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

func TestTickerInfoStore_InsertAndGet(t *testing.T) {
	store := NewTickerInfoStore()
	ctx := context.Background()

	info := &domain.TickerInfo{
		Ticker: "AAPL",
		Name:   "Apple Inc.",
		Region: "US",
		Sector: "Technology",
	}

	if err := store.Insert(ctx, info); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("GetByTicker failed: %v", err)
	}
	if got.Name != "Apple Inc." {
		t.Errorf("Name mismatch: got %q", got.Name)
	}
}

func TestTickerInfoStore_DuplicateKey(t *testing.T) {
	store := NewTickerInfoStore()
	ctx := context.Background()

	info := &domain.TickerInfo{Ticker: "AAPL", Name: "Apple Inc."}
	if err := store.Insert(ctx, info); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, info); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTickerInfoStore_ListAll(t *testing.T) {
	store := NewTickerInfoStore()
	ctx := context.Background()

	for _, ticker := range []string{"MSFT", "AAPL", "GOOG"} {
		if err := store.Insert(ctx, &domain.TickerInfo{Ticker: ticker}); err != nil {
			t.Fatalf("Insert %s failed: %v", ticker, err)
		}
	}

	all, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 tickers, got %d", len(all))
	}
	if all[0].Ticker != "AAPL" || all[1].Ticker != "GOOG" || all[2].Ticker != "MSFT" {
		t.Errorf("Results not ordered by ticker: %s, %s, %s", all[0].Ticker, all[1].Ticker, all[2].Ticker)
	}
}

func TestTickerInfoStore_NotFound(t *testing.T) {
	store := NewTickerInfoStore()
	ctx := context.Background()

	if _, err := store.GetByTicker(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
