package decision

import (
	"fmt"
	"math"

	"trade-sim-lab/internal/domain"
)

// Evaluator evaluates simulation results against entry thresholds.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator creates an evaluator with the default thresholds.
func NewEvaluator() *Evaluator {
	return &Evaluator{thresholds: DefaultThresholds()}
}

// NewEvaluatorWith creates an evaluator with custom thresholds.
func NewEvaluatorWith(th Thresholds) *Evaluator {
	return &Evaluator{thresholds: th}
}

// Evaluate produces a Result from a simulation run.
// TRADE if ALL criteria pass, NO-TRADE if ANY criterion fails.
func (e *Evaluator) Evaluate(in domain.SimulationInputs, res domain.SimulationResult) *Result {
	th := e.thresholds
	criteria := make([]CriterionResult, 5)

	// 1. Win probability
	criteria[0] = CriterionResult{
		Name:      "Win probability",
		Threshold: fmt.Sprintf(">= %.2f", th.MinWinProbability),
		Actual:    fmt.Sprintf("%.4f", res.WinProbability),
		Pass:      res.WinProbability >= th.MinWinProbability,
	}

	// 2. Risk of ruin
	criteria[1] = CriterionResult{
		Name:      "Risk of ruin",
		Threshold: fmt.Sprintf("<= %.2f", th.MaxRiskOfRuin),
		Actual:    fmt.Sprintf("%.4f", res.RiskOfRuin),
		Pass:      res.RiskOfRuin <= th.MaxRiskOfRuin,
	}

	// 3. Expected value
	criteria[2] = CriterionResult{
		Name:      "Expected value",
		Threshold: fmt.Sprintf("> %.2f", th.MinExpectedValue),
		Actual:    fmt.Sprintf("%.4f", res.ExpectedValue),
		Pass:      res.ExpectedValue > th.MinExpectedValue,
	}

	// 4. Maximum drawdown
	criteria[3] = CriterionResult{
		Name:      "Maximum drawdown",
		Threshold: fmt.Sprintf("<= %.2f", th.MaxDrawdown),
		Actual:    fmt.Sprintf("%.4f", res.MaximumDrawdown),
		Pass:      res.MaximumDrawdown <= th.MaxDrawdown,
	}

	// 5. Realized reward/risk of the levels
	rr := rewardRisk(in)
	criteria[4] = CriterionResult{
		Name:      "Reward/risk ratio",
		Threshold: fmt.Sprintf(">= %.2f", th.MinRewardRisk),
		Actual:    fmt.Sprintf("%.2f", rr),
		Pass:      rr >= th.MinRewardRisk,
	}

	verdict := VerdictTrade
	for _, c := range criteria {
		if !c.Pass {
			verdict = VerdictNoTrade
			break
		}
	}

	return &Result{
		Verdict:  verdict,
		Criteria: criteria,
	}
}

// rewardRisk returns |target-entry| / |entry-stop|, 0 when the stop
// distance is zero.
func rewardRisk(in domain.SimulationInputs) float64 {
	risk := math.Abs(in.InitialPrice - in.StopLoss)
	if risk == 0 {
		return 0
	}
	return math.Abs(in.TargetPrice-in.InitialPrice) / risk
}
