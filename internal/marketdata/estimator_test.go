package marketdata

import (
	"errors"
	"math"
	"testing"
)

func TestEstimateVolatility_ConstantCloses(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}

	vol, err := EstimateVolatility(closes)
	if err != nil {
		t.Fatalf("EstimateVolatility failed: %v", err)
	}
	if vol != 0 {
		t.Errorf("expected zero volatility for constant closes, got %v", vol)
	}
}

func TestEstimateVolatility_AlternatingCloses(t *testing.T) {
	// Alternating 100/110 gives returns of +-log(1.1) with zero mean, so
	// the daily std is exactly log(1.1).
	closes := []float64{100, 110, 100, 110, 100, 110, 100, 110, 100}

	vol, err := EstimateVolatility(closes)
	if err != nil {
		t.Fatalf("EstimateVolatility failed: %v", err)
	}
	want := math.Log(1.1) * math.Sqrt(252)
	if math.Abs(vol-want) > 1e-9 {
		t.Errorf("expected volatility %v, got %v", want, vol)
	}

	drift, err := EstimateDrift(closes)
	if err != nil {
		t.Fatalf("EstimateDrift failed: %v", err)
	}
	if math.Abs(drift) > 1e-9 {
		t.Errorf("expected near-zero drift for a round trip, got %v", drift)
	}
}

func TestEstimateDrift_GeometricGrowth(t *testing.T) {
	closes := make([]float64, 0, 30)
	c := 100.0
	for i := 0; i < 30; i++ {
		closes = append(closes, c)
		c *= 1.01
	}

	drift, err := EstimateDrift(closes)
	if err != nil {
		t.Fatalf("EstimateDrift failed: %v", err)
	}
	want := math.Log(1.01) * 252
	if math.Abs(drift-want) > 1e-9 {
		t.Errorf("expected drift %v, got %v", want, drift)
	}

	// Identical daily returns carry no spread.
	vol, err := EstimateVolatility(closes)
	if err != nil {
		t.Fatalf("EstimateVolatility failed: %v", err)
	}
	if vol > 1e-9 {
		t.Errorf("expected near-zero volatility for steady growth, got %v", vol)
	}
}

func TestEstimate_HistoryErrors(t *testing.T) {
	if _, err := EstimateVolatility(nil); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for no closes, got %v", err)
	}
	if _, err := EstimateVolatility([]float64{100}); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for one close, got %v", err)
	}
	if _, err := EstimateDrift([]float64{100}); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for one close, got %v", err)
	}
	if _, err := EstimateVolatility([]float64{100, 0, 100}); !errors.Is(err, ErrNonPositiveClose) {
		t.Errorf("expected ErrNonPositiveClose for a zero close, got %v", err)
	}
	if _, err := EstimateDrift([]float64{100, -5}); !errors.Is(err, ErrNonPositiveClose) {
		t.Errorf("expected ErrNonPositiveClose for a negative close, got %v", err)
	}
}
