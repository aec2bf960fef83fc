// Package simulation generates synthetic daily price paths and resolves
// their first-passage outcomes against target and stop levels.
package simulation

import (
	"math"
	"math/rand"
)

// Generator produces price paths under a discrete geometric-Brownian-motion
// model: each day's gross return is exp((dailyDrift - 0.5*dailyVol^2) +
// dailyVol*Z) with Z ~ N(0,1) drawn independently per day per path.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator around the given random source.
// The source is owned by exactly one run; Generator is not safe for
// concurrent use.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// nextPrice advances one trading day from prev.
// mu is the volatility-adjusted daily drift term, vol the daily volatility.
// With vol = 0 the step collapses to the deterministic exp(mu) drift factor.
func (g *Generator) nextPrice(prev, mu, vol float64) float64 {
	if vol == 0 {
		return prev * math.Exp(mu)
	}
	return prev * math.Exp(mu+vol*g.rng.NormFloat64())
}

// PathMatrix is a dense numPaths x (horizon+1) price grid backed by a single
// slice. Row p holds path p's full trajectory; column 0 is the entry price.
type PathMatrix struct {
	Prices  []float64
	Paths   int
	Horizon int // trading days; each row holds Horizon+1 entries
}

// At returns the price of path p at day d.
func (m *PathMatrix) At(p, d int) float64 {
	return m.Prices[p*(m.Horizon+1)+d]
}

// Row returns path p's full trajectory as a subslice of the backing array.
func (m *PathMatrix) Row(p int) []float64 {
	start := p * (m.Horizon + 1)
	return m.Prices[start : start+m.Horizon+1]
}

// GenerateMatrix produces all paths' full trajectories at once. This is the
// batch mode used by the optimizer's cheap scoring, where only endpoint
// detection matters and no day-by-day early exit is needed.
func (g *Generator) GenerateMatrix(initialPrice, dailyDrift, dailyVol float64, horizonDays, numPaths int) *PathMatrix {
	m := &PathMatrix{
		Prices:  make([]float64, numPaths*(horizonDays+1)),
		Paths:   numPaths,
		Horizon: horizonDays,
	}

	mu := dailyDrift - 0.5*dailyVol*dailyVol

	for p := 0; p < numPaths; p++ {
		row := m.Row(p)
		price := initialPrice
		row[0] = price
		for d := 1; d <= horizonDays; d++ {
			price = g.nextPrice(price, mu, dailyVol)
			row[d] = price
		}
	}

	return m
}

// Walker generates a single path one day at a time so the caller can stop
// as soon as a threshold is crossed. This is the incremental mode used by
// the detailed simulation.
type Walker struct {
	gen   *Generator
	price float64
	mu    float64
	vol   float64
}

// NewWalker starts an incremental path at initialPrice.
func (g *Generator) NewWalker(initialPrice, dailyDrift, dailyVol float64) *Walker {
	return &Walker{
		gen:   g,
		price: initialPrice,
		mu:    dailyDrift - 0.5*dailyVol*dailyVol,
		vol:   dailyVol,
	}
}

// Next advances the path by one trading day and returns the new price.
func (w *Walker) Next() float64 {
	w.price = w.gen.nextPrice(w.price, w.mu, w.vol)
	return w.price
}

// SampleIndexes returns up to max distinct path indexes drawn uniformly at
// random from [0, n), in the random order produced by the draw. When n <= max
// every index is returned.
func (g *Generator) SampleIndexes(n, max int) []int {
	if n <= max {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	return g.rng.Perm(n)[:max]
}
