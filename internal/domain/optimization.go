package domain

// OptimizationCandidate is one (stop, target) pair scored during the grid
// search. Transient: the search retains only the best candidate seen.
type OptimizationCandidate struct {
	StopLoss        float64
	TargetPrice     float64
	VolMultiplier   float64 // stop distance in daily-volatility units
	RewardRiskRatio float64
	ExpectedValue   float64
}

// GridConfig bounds the optimizer's search ranges.
type GridConfig struct {
	VolMultMin  float64 // first stop-distance multiplier
	VolMultMax  float64 // last stop-distance multiplier (inclusive)
	VolMultStep float64

	RewardRiskCap  float64 // highest reward/risk explored regardless of request
	RewardRiskStep float64

	// Dynamic horizon clamp. The derived horizon grows with the
	// aggressiveness of the search ranges; these are tunable constants,
	// not derived values.
	HorizonFloorDays int
	HorizonCapDays   int
}

// DefaultGridConfig is the production search range.
var DefaultGridConfig = GridConfig{
	VolMultMin:       1.0,
	VolMultMax:       5.0,
	VolMultStep:      0.5,
	RewardRiskCap:    3.0,
	RewardRiskStep:   0.5,
	HorizonFloorDays: 21,
	HorizonCapDays:   252,
}

// DefaultMinRewardRisk is the reward/risk floor applied when a request does
// not set one.
const DefaultMinRewardRisk = 2.0
