package simulation

import (
	"trade-sim-lab/internal/domain"
)

// firstPassage scans a full trajectory for the first day either threshold is
// crossed. prices[0] is the entry price; the scan starts at day 1.
//
// Checks run target before stop at every day, so a day-step that crosses both
// levels resolves as a win. That ordering is an arbitrary but deliberate
// tie-break: a discrete daily step cannot order intraday events, and the
// incremental mode applies the same order, so both modes agree.
//
// Returns (domain.NoHitDay, OutcomeExpired) when no threshold is ever
// crossed. Callers must branch on NoHitDay before treating the result as a
// day index; a path that never hit anything must not be read as "hit on day
// 0".
func firstPassage(strategy domain.Strategy, target, stop float64, prices []float64) (int, domain.OutcomeKind) {
	for d := 1; d < len(prices); d++ {
		if strategy.TargetHit(prices[d], target) {
			return d, domain.OutcomeWin
		}
		if strategy.StopHit(prices[d], stop) {
			return d, domain.OutcomeLoss
		}
	}
	return domain.NoHitDay, domain.OutcomeExpired
}

// payoff computes the signed price-unit payoff for a resolved path.
// Wins and losses pay the contracted exit level, not the overshoot price;
// expired paths pay the final simulated price against entry.
func payoff(strategy domain.Strategy, kind domain.OutcomeKind, entry, target, stop, finalPrice float64) float64 {
	var exit float64
	switch kind {
	case domain.OutcomeWin:
		exit = target
	case domain.OutcomeLoss:
		exit = stop
	default:
		exit = finalPrice
	}

	if strategy == domain.StrategyShort {
		return entry - exit
	}
	return exit - entry
}

// drawdownTo computes the worst peak-to-price fraction over prices[0..lastDay].
func drawdownTo(prices []float64, lastDay int) float64 {
	peak := prices[0]
	maxDD := 0.0
	for d := 0; d <= lastDay; d++ {
		if prices[d] > peak {
			peak = prices[d]
		}
		if peak > 0 {
			dd := (peak - prices[d]) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// EvaluateSeries resolves one explicit price series, prices[0] being the
// entry. The series may be a generated path or real closes; the historical
// replay walks actual closes through here so both share one tie-break.
// prices must be non-empty.
func EvaluateSeries(strategy domain.Strategy, target, stop float64, prices domain.PricePath) domain.PathOutcome {
	day, kind := firstPassage(strategy, target, stop, prices)

	lastDay := len(prices) - 1
	if day != domain.NoHitDay {
		lastDay = day
	}

	return domain.PathOutcome{
		Kind:        kind,
		DayOfHit:    day,
		Payoff:      payoff(strategy, kind, prices[0], target, stop, prices[lastDay]),
		MaxDrawdown: drawdownTo(prices, lastDay),
	}
}

// EvaluateMatrix resolves every path in a batch-generated matrix.
// Drawdown is tracked through the hit day only, matching the incremental
// mode, which stops generating once a threshold is crossed.
func EvaluateMatrix(m *PathMatrix, strategy domain.Strategy, target, stop float64) []domain.PathOutcome {
	outcomes := make([]domain.PathOutcome, m.Paths)

	for p := 0; p < m.Paths; p++ {
		outcomes[p] = EvaluateSeries(strategy, target, stop, m.Row(p))
	}

	return outcomes
}

// BatchExpectedValue is the cheap vectorized scorer used inside the
// optimizer's grid loop: mean payoff over all paths, nothing else.
func BatchExpectedValue(m *PathMatrix, strategy domain.Strategy, target, stop float64) float64 {
	if m.Paths == 0 {
		return 0
	}

	sum := 0.0
	for p := 0; p < m.Paths; p++ {
		row := m.Row(p)
		day, kind := firstPassage(strategy, target, stop, row)

		finalDay := m.Horizon
		if day != domain.NoHitDay {
			finalDay = day
		}
		sum += payoff(strategy, kind, row[0], target, stop, row[finalDay])
	}

	return sum / float64(m.Paths)
}
