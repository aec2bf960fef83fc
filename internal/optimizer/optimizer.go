// Package optimizer searches a stop-loss/target grid for the candidate pair
// with the highest expected value under a minimum reward/risk constraint.
package optimizer

import (
	"errors"
	"log"
	"math/rand"
	"sync"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/simulation"
)

// ErrNoViableCandidate is returned when the grid holds no candidate whose
// target lies on the profitable side of the entry. An expected, representable
// outcome of the search; callers may relax the reward/risk minimum and retry.
var ErrNoViableCandidate = errors.New("no optimal parameters found")

// SearchRequest carries everything one search needs. Levels are absent: the
// search's whole job is to resolve them.
type SearchRequest struct {
	InitialPrice   float64
	Strategy       domain.Strategy
	Volatility     float64 // annualized, decimal
	Drift          float64 // annualized, decimal
	NumSimulations int
	MinRewardRisk  float64
	Seed           int64
}

// SearchResult is the winning candidate with the horizon it was scored at.
type SearchResult struct {
	Best        domain.OptimizationCandidate
	HorizonDays int
	Scored      int // candidates evaluated after rejection
}

// Optimizer runs the two-stage grid search. Safe for concurrent use; each
// Search owns its buffers and random streams.
type Optimizer struct {
	cfg     domain.GridConfig
	workers int
	verbose bool
}

// Options for creating an Optimizer.
type Options struct {
	// Config bounds the search ranges; zero value means DefaultGridConfig.
	Config *domain.GridConfig

	// Workers sets the scoring parallelism. <= 1 scores sequentially.
	// Results are identical at any worker count: every candidate owns a
	// random stream derived from (seed, grid position).
	Workers int

	Verbose bool
}

// New creates an Optimizer.
func New(opts Options) *Optimizer {
	cfg := domain.DefaultGridConfig
	if opts.Config != nil {
		cfg = *opts.Config
	}
	return &Optimizer{
		cfg:     cfg,
		workers: opts.Workers,
		verbose: opts.Verbose,
	}
}

// Search scores every viable grid candidate by batch expected value and
// returns the strict maximum; ties keep the earlier candidate in grid order
// regardless of scoring parallelism.
// Returns ErrNoViableCandidate when the grid rejects everything.
func (o *Optimizer) Search(req SearchRequest) (*SearchResult, error) {
	grid := NewGrid(o.cfg, req.MinRewardRisk)
	horizon := grid.HorizonDays(o.cfg)

	// The simulation frame shared by every candidate; only the levels vary.
	in := domain.SimulationInputs{
		InitialPrice:   req.InitialPrice,
		Strategy:       req.Strategy,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    horizon,
		NumSimulations: req.NumSimulations,
	}

	candidates := grid.Candidates(req.InitialPrice, in.DailyVolatility(), req.Strategy)
	if len(candidates) == 0 {
		return nil, ErrNoViableCandidate
	}

	o.log("scoring %d candidates (grid %d, horizon %d days, %d paths each)",
		len(candidates), grid.Size(), horizon, req.NumSimulations)

	scores := o.scoreAll(in, candidates, req.Seed)

	// Strictly-greater comparison keeps the first of tied candidates, so
	// the winner does not depend on worker scheduling.
	bestIdx := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[bestIdx] {
			bestIdx = i
		}
	}

	best := candidates[bestIdx]
	best.ExpectedValue = scores[bestIdx]

	o.log("best candidate: stop=%.4f target=%.4f (vol_mult=%.1f rr=%.1f) EV=%.6f",
		best.StopLoss, best.TargetPrice, best.VolMultiplier, best.RewardRiskRatio, best.ExpectedValue)

	return &SearchResult{
		Best:        best,
		HorizonDays: horizon,
		Scored:      len(candidates),
	}, nil
}

// scoreAll evaluates every candidate's batch expected value into a slice
// indexed by candidate position. Candidate i always seeds its generator with
// seed+i, so sequential and parallel runs score identically.
func (o *Optimizer) scoreAll(in domain.SimulationInputs, candidates []domain.OptimizationCandidate, seed int64) []float64 {
	scores := make([]float64, len(candidates))

	score := func(i int) {
		gen := simulation.NewGenerator(rand.New(rand.NewSource(seed + int64(i))))
		m := gen.GenerateMatrix(in.InitialPrice, in.DailyDrift(), in.DailyVolatility(), in.HorizonDays, in.NumSimulations)
		scores[i] = simulation.BatchExpectedValue(m, in.Strategy, candidates[i].TargetPrice, candidates[i].StopLoss)
	}

	if o.workers <= 1 {
		for i := range candidates {
			score(i)
		}
		return scores
	}

	jobs := make(chan int, len(candidates))
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				score(i)
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return scores
}

func (o *Optimizer) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[optimizer] "+format, args...)
	}
}
