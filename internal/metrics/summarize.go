// Package metrics reduces raw simulation output into summary statistics and
// aggregates stored records for reporting.
package metrics

import (
	"sort"

	"trade-sim-lab/internal/domain"
)

// PathSampler selects up to max path indexes out of n for charting.
// The simulation generator satisfies this with its run-owned random stream,
// which keeps seeded invocations fully reproducible.
type PathSampler interface {
	SampleIndexes(n, max int) []int
}

// Summarize reduces one run's paths and outcomes into a SimulationResult.
// paths and outcomes must be parallel slices from the same run.
func Summarize(in domain.SimulationInputs, paths []domain.PricePath, outcomes []domain.PathOutcome, sampler PathSampler) domain.SimulationResult {
	n := len(outcomes)
	if n == 0 {
		return domain.SimulationResult{}
	}

	wins := 0
	losses := 0
	expired := 0
	sumWinDays := 0
	maxDrawdown := 0.0
	payoffs := make([]float64, n)

	for i, out := range outcomes {
		switch out.Kind {
		case domain.OutcomeWin:
			wins++
			sumWinDays += out.DayOfHit
		case domain.OutcomeLoss:
			losses++
		default:
			expired++
		}
		payoffs[i] = out.Payoff
		if out.MaxDrawdown > maxDrawdown {
			maxDrawdown = out.MaxDrawdown
		}
	}

	result := domain.SimulationResult{
		WinProbability:     float64(wins) / float64(n),
		RiskOfRuin:         float64(losses) / float64(n),
		ExpiredProbability: float64(expired) / float64(n),
		MaximumDrawdown:    maxDrawdown,
		ExpectedValue:      computeMean(payoffs),
		Chart:              buildChart(in.HorizonDays, paths, sampler),
	}

	// Days-to-target averages over the WIN subset only; with no wins the
	// field stays 0.0 rather than becoming NaN.
	if wins > 0 {
		result.AvgDaysToTarget = float64(sumWinDays) / float64(wins)
	}

	return result
}

// buildChart computes the per-day percentile series and draws the sample
// paths kept for visualization.
func buildChart(horizonDays int, paths []domain.PricePath, sampler PathSampler) domain.ChartData {
	chart := domain.ChartData{
		TimeIndex: make([]int, horizonDays+1),
		P5:        make([]float64, horizonDays+1),
		P50:       make([]float64, horizonDays+1),
		P95:       make([]float64, horizonDays+1),
	}
	for d := range chart.TimeIndex {
		chart.TimeIndex[d] = d
	}

	// Early-terminated paths hold their terminal price through the rest of
	// the horizon so every day's percentile sees all N paths. Padding with
	// a constant adds no volatility of its own.
	column := make([]float64, len(paths))
	for d := 0; d <= horizonDays; d++ {
		for p, path := range paths {
			column[p] = heldPrice(path, d)
		}
		sort.Float64s(column)
		chart.P5[d] = computePercentile(column, 0.05)
		chart.P50[d] = computePercentile(column, 0.50)
		chart.P95[d] = computePercentile(column, 0.95)
	}

	// Sample paths stay raw: an early exit keeps its true length.
	idx := sampler.SampleIndexes(len(paths), domain.MaxSamplePaths)
	sort.Ints(idx)
	chart.SamplePaths = make([]domain.PricePath, len(idx))
	for i, p := range idx {
		chart.SamplePaths[i] = paths[p]
	}

	return chart
}

// heldPrice reads a path at day d, holding the terminal price once the path
// has ended.
func heldPrice(path domain.PricePath, d int) float64 {
	if d < len(path) {
		return path[d]
	}
	return path[len(path)-1]
}
