// Package marketdata supplies the per-ticker inputs a simulation needs:
// current price, annualized volatility and annualized drift. Estimates come
// from stored daily closes; a live quote stream can overlay the price.
package marketdata

import (
	"errors"
	"fmt"
	"math"

	"trade-sim-lab/internal/domain"
)

// DefaultEstimationWindow is the trailing window of trading days used to
// estimate volatility and drift.
const DefaultEstimationWindow = 90

// Estimation errors.
var (
	ErrNoHistory           = errors.New("no close history for ticker")
	ErrInsufficientHistory = errors.New("insufficient close history")
	ErrNonPositiveClose    = errors.New("non-positive close")
)

// EstimateVolatility returns annualized volatility from daily closes: the
// population standard deviation of log returns scaled by sqrt(252).
// Needs at least two closes.
func EstimateVolatility(closes []float64) (float64, error) {
	rets, err := logReturns(closes)
	if err != nil {
		return 0, err
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	variance := 0.0
	for _, r := range rets {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(rets))

	return math.Sqrt(variance) * math.Sqrt(domain.TradingDaysPerYear), nil
}

// EstimateDrift returns annualized drift from daily closes: the mean log
// return scaled by 252. Needs at least two closes.
func EstimateDrift(closes []float64) (float64, error) {
	rets, err := logReturns(closes)
	if err != nil {
		return 0, err
	}

	mean := 0.0
	for _, r := range rets {
		mean += r
	}
	mean /= float64(len(rets))

	return mean * domain.TradingDaysPerYear, nil
}

// logReturns converts n closes into n-1 daily log returns.
func logReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("%d closes: %w", len(closes), ErrInsufficientHistory)
	}
	for i, c := range closes {
		if c <= 0 {
			return nil, fmt.Errorf("close %v at index %d: %w", c, i, ErrNonPositiveClose)
		}
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	return rets, nil
}
