package simulation

import (
	"math/rand"

	"trade-sim-lab/internal/domain"
)

// Runner executes the detailed simulation mode: each path is generated one
// day at a time and abandoned the moment it crosses a threshold, which gives
// exact hit days and inline drawdown tracking without wasted steps.
type Runner struct {
	gen *Generator
}

// NewRunner creates a Runner around the given random source.
// The source is owned by one run; Runner is not safe for concurrent use.
func NewRunner(rng *rand.Rand) *Runner {
	return &Runner{gen: NewGenerator(rng)}
}

// Generator exposes the underlying generator, which shares the Runner's
// random stream. Used to draw chart samples after a run so a seeded
// invocation stays fully deterministic.
func (r *Runner) Generator() *Generator {
	return r.gen
}

// Run simulates in.NumSimulations paths and resolves each against the
// target and stop levels in in. Returned paths are raw: a path that hit a
// threshold on day d holds exactly d+1 prices.
func (r *Runner) Run(in domain.SimulationInputs) ([]domain.PricePath, []domain.PathOutcome) {
	dailyDrift := in.DailyDrift()
	dailyVol := in.DailyVolatility()

	paths := make([]domain.PricePath, in.NumSimulations)
	outcomes := make([]domain.PathOutcome, in.NumSimulations)

	for p := 0; p < in.NumSimulations; p++ {
		paths[p], outcomes[p] = r.runPath(in, dailyDrift, dailyVol)
	}

	return paths, outcomes
}

// runPath walks a single path day by day. Target is checked before stop at
// each day end, matching the batch evaluator's tie-break.
func (r *Runner) runPath(in domain.SimulationInputs, dailyDrift, dailyVol float64) (domain.PricePath, domain.PathOutcome) {
	path := make(domain.PricePath, 1, in.HorizonDays+1)
	path[0] = in.InitialPrice

	peak := in.InitialPrice
	maxDD := 0.0

	out := domain.PathOutcome{
		Kind:     domain.OutcomeExpired,
		DayOfHit: domain.NoHitDay,
	}

	w := r.gen.NewWalker(in.InitialPrice, dailyDrift, dailyVol)

	for d := 1; d <= in.HorizonDays; d++ {
		price := w.Next()
		path = append(path, price)

		if price > peak {
			peak = price
		}
		if peak > 0 {
			if dd := (peak - price) / peak; dd > maxDD {
				maxDD = dd
			}
		}

		if in.Strategy.TargetHit(price, in.TargetPrice) {
			out.Kind = domain.OutcomeWin
			out.DayOfHit = d
			break
		}
		if in.Strategy.StopHit(price, in.StopLoss) {
			out.Kind = domain.OutcomeLoss
			out.DayOfHit = d
			break
		}
	}

	finalPrice := path[len(path)-1]
	out.Payoff = payoff(in.Strategy, out.Kind, in.InitialPrice, in.TargetPrice, in.StopLoss, finalPrice)
	out.MaxDrawdown = maxDD

	return path, out
}
