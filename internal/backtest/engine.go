// Package backtest replays contracted levels against stored close history,
// yielding the realized outcome to place next to simulated probabilities.
package backtest

import (
	"errors"
	"fmt"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/simulation"
)

// ErrInvalidLevels is returned when target and stop do not bracket the
// entry price for the direction.
var ErrInvalidLevels = errors.New("invalid levels: target and stop must bracket entry")

// Levels is the (direction, entry, target, stop) tuple under test.
type Levels struct {
	Strategy    domain.Strategy
	EntryPrice  float64
	TargetPrice float64
	StopLoss    float64
}

// Validate checks direction and level ordering.
func (l Levels) Validate() error {
	if !l.Strategy.Valid() {
		return fmt.Errorf("invalid strategy %q: must be LONG or SHORT", l.Strategy)
	}
	if l.EntryPrice <= 0 {
		return fmt.Errorf("entry price %v: must be positive", l.EntryPrice)
	}
	if !l.Strategy.ValidLevels(l.EntryPrice, l.TargetPrice, l.StopLoss) {
		return ErrInvalidLevels
	}
	return nil
}

// Result holds the realized outcome of one replay.
type Result struct {
	Ticker string
	Levels Levels

	Outcome     domain.OutcomeKind
	DayOfHit    int     // trading days after entry, domain.NoHitDay when never crossed
	ExitPrice   float64 // contracted level on a hit, last close otherwise
	Payoff      float64 // signed, price units
	MaxDrawdown float64

	DaysReplayed int
}

// Replay walks the close series against the levels. closes are the daily
// closes after entry in time order; the first element is day 1. An empty
// series yields an EXPIRED result with zero payoff.
func Replay(ticker string, levels Levels, closes []float64) (*Result, error) {
	if err := levels.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Ticker:       ticker,
		Levels:       levels,
		Outcome:      domain.OutcomeExpired,
		DayOfHit:     domain.NoHitDay,
		ExitPrice:    levels.EntryPrice,
		DaysReplayed: len(closes),
	}
	if len(closes) == 0 {
		return result, nil
	}

	prices := make(domain.PricePath, 0, len(closes)+1)
	prices = append(prices, levels.EntryPrice)
	prices = append(prices, closes...)

	outcome := simulation.EvaluateSeries(levels.Strategy, levels.TargetPrice, levels.StopLoss, prices)

	result.Outcome = outcome.Kind
	result.DayOfHit = outcome.DayOfHit
	result.Payoff = outcome.Payoff
	result.MaxDrawdown = outcome.MaxDrawdown

	switch outcome.Kind {
	case domain.OutcomeWin:
		result.ExitPrice = levels.TargetPrice
	case domain.OutcomeLoss:
		result.ExitPrice = levels.StopLoss
	default:
		result.ExitPrice = closes[len(closes)-1]
	}

	return result, nil
}
