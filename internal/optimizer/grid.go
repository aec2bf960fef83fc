package optimizer

import (
	"math"

	"trade-sim-lab/internal/domain"
)

// Grid holds the two search axes of one optimization run, both ascending.
type Grid struct {
	VolMultipliers []float64
	RewardRisks    []float64
}

// NewGrid expands the configured ranges. The reward/risk axis starts at the
// caller's minimum and is capped at cfg.RewardRiskCap no matter how high the
// request goes; a minimum above the cap produces an empty axis.
func NewGrid(cfg domain.GridConfig, minRewardRisk float64) Grid {
	return Grid{
		VolMultipliers: stepRange(cfg.VolMultMin, cfg.VolMultMax, cfg.VolMultStep),
		RewardRisks:    stepRange(minRewardRisk, cfg.RewardRiskCap, cfg.RewardRiskStep),
	}
}

// Size returns the number of (vol_mult, reward_risk) pairs before rejection.
func (g Grid) Size() int {
	return len(g.VolMultipliers) * len(g.RewardRisks)
}

// HorizonDays derives the simulation horizon from the axis medians:
// round((median_rr * median_vol_mult)^2), clamped into the configured window.
// Tying the horizon to the search ranges reflects that wider stops and
// targets take longer to resolve. The formula is a tunable heuristic.
func (g Grid) HorizonDays(cfg domain.GridConfig) int {
	m := median(g.RewardRisks) * median(g.VolMultipliers)
	h := int(math.Round(m * m))
	if h < cfg.HorizonFloorDays {
		return cfg.HorizonFloorDays
	}
	if h > cfg.HorizonCapDays {
		return cfg.HorizonCapDays
	}
	return h
}

// Candidates expands the grid into concrete stop/target pairs around one
// entry price. The stop sits vol_mult daily-volatility units away from the
// entry on the losing side; the target sits reward_risk times that distance
// on the winning side. Pairs whose target does not land strictly on the
// profitable side are dropped here, before any scoring.
//
// Iteration is vol multiplier outer, reward/risk inner; the returned order
// is the tie-break order for best-candidate selection.
func (g Grid) Candidates(initialPrice, dailyVol float64, strategy domain.Strategy) []domain.OptimizationCandidate {
	out := make([]domain.OptimizationCandidate, 0, g.Size())

	for _, vm := range g.VolMultipliers {
		for _, rr := range g.RewardRisks {
			dist := initialPrice * dailyVol * vm

			stop := initialPrice - dist
			target := initialPrice + dist*rr
			if strategy == domain.StrategyShort {
				stop = initialPrice + dist
				target = initialPrice - dist*rr
			}

			if !strategy.ProfitableSide(initialPrice, target) {
				continue
			}

			out = append(out, domain.OptimizationCandidate{
				StopLoss:        stop,
				TargetPrice:     target,
				VolMultiplier:   vm,
				RewardRiskRatio: rr,
			})
		}
	}

	return out
}

// stepRange returns {min, min+step, ...} up to and including max.
// Returns nil when max < min or step is not positive.
func stepRange(min, max, step float64) []float64 {
	if max < min || step <= 0 {
		return nil
	}

	// Small epsilon so an endpoint that lands exactly on max survives
	// float division.
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = min + step*float64(i)
	}
	return vals
}

// median of an ascending slice; 0 when empty.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
