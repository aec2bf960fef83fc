package idhash

import (
	"testing"

	"trade-sim-lab/internal/domain"
)

func TestComputeRecordID(t *testing.T) {
	got := ComputeRecordID("sess-1", "AAPL", domain.StrategyLong, 1700000000000)

	// 32 hash bytes encode to 43 or 44 base58 characters.
	if len(got) < 43 || len(got) > 44 {
		t.Errorf("ComputeRecordID() length = %d, want 43-44", len(got))
	}

	// Verify determinism: same inputs should produce same output
	got2 := ComputeRecordID("sess-1", "AAPL", domain.StrategyLong, 1700000000000)
	if got != got2 {
		t.Errorf("ComputeRecordID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeRecordID_DistinctInputs(t *testing.T) {
	base := ComputeRecordID("sess-1", "AAPL", domain.StrategyLong, 1700000000000)

	variants := []string{
		ComputeRecordID("sess-2", "AAPL", domain.StrategyLong, 1700000000000),
		ComputeRecordID("sess-1", "MSFT", domain.StrategyLong, 1700000000000),
		ComputeRecordID("sess-1", "AAPL", domain.StrategyShort, 1700000000000),
		ComputeRecordID("sess-1", "AAPL", domain.StrategyLong, 1700000000001),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID %s", i, base)
		}
	}
}
