package engine

import (
	"errors"
	"fmt"
	"math"
)

// Validation errors. Every request fails fast on the first violation, before
// any path is generated; inputs are never coerced.
var (
	ErrInvalidStrategy   = errors.New("invalid strategy: must be LONG or SHORT")
	ErrInvalidPrice      = errors.New("invalid price: must be positive")
	ErrInvalidHorizon    = errors.New("invalid horizon: must be at least 1 trading day")
	ErrInvalidSimCount   = errors.New("invalid simulation count: must be at least 1")
	ErrInvalidVolatility = errors.New("invalid volatility: must be non-negative")
	ErrInvalidThresholds = errors.New("invalid thresholds: target and stop must bracket the entry for the strategy")
	ErrNonFiniteInput    = errors.New("non-finite numeric input")
)

// validateSimulation checks a fixed-level request.
func validateSimulation(req SimulationRequest) error {
	if err := checkFinite(
		field{"initial_price", req.InitialPrice},
		field{"target_price", req.TargetPrice},
		field{"stop_loss", req.StopLoss},
		field{"volatility", req.Volatility},
		field{"drift", req.Drift},
	); err != nil {
		return err
	}
	if !req.Strategy.Valid() {
		return fmt.Errorf("strategy %q: %w", string(req.Strategy), ErrInvalidStrategy)
	}
	if req.InitialPrice <= 0 {
		return fmt.Errorf("initial_price %v: %w", req.InitialPrice, ErrInvalidPrice)
	}
	if req.Volatility < 0 {
		return fmt.Errorf("volatility %v: %w", req.Volatility, ErrInvalidVolatility)
	}
	if req.HorizonDays < 1 {
		return fmt.Errorf("time_horizon_days %d: %w", req.HorizonDays, ErrInvalidHorizon)
	}
	if req.NumSimulations < 1 {
		return fmt.Errorf("num_simulations %d: %w", req.NumSimulations, ErrInvalidSimCount)
	}
	if !req.Strategy.ValidLevels(req.InitialPrice, req.TargetPrice, req.StopLoss) {
		return fmt.Errorf("target %v stop %v around entry %v for %s: %w",
			req.TargetPrice, req.StopLoss, req.InitialPrice, req.Strategy, ErrInvalidThresholds)
	}
	return nil
}

// validateOptimization checks a level-discovery request. Levels are absent;
// the optimizer resolves them.
func validateOptimization(req OptimizationRequest) error {
	if err := checkFinite(
		field{"initial_price", req.InitialPrice},
		field{"volatility", req.Volatility},
		field{"drift", req.Drift},
		field{"min_reward_risk_ratio", req.MinRewardRisk},
	); err != nil {
		return err
	}
	if !req.Strategy.Valid() {
		return fmt.Errorf("strategy %q: %w", string(req.Strategy), ErrInvalidStrategy)
	}
	if req.InitialPrice <= 0 {
		return fmt.Errorf("initial_price %v: %w", req.InitialPrice, ErrInvalidPrice)
	}
	if req.Volatility < 0 {
		return fmt.Errorf("volatility %v: %w", req.Volatility, ErrInvalidVolatility)
	}
	if req.NumSimulations < 1 {
		return fmt.Errorf("num_simulations %d: %w", req.NumSimulations, ErrInvalidSimCount)
	}
	return nil
}

type field struct {
	name  string
	value float64
}

// checkFinite rejects NaN and Inf before they can contaminate summary
// statistics downstream. Fields are checked in declaration order so the
// reported field is stable.
func checkFinite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s %v: %w", f.name, f.value, ErrNonFiniteInput)
		}
	}
	return nil
}
