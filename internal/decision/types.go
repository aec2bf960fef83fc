package decision

// Verdict represents the final TRADE/NO-TRADE result.
type Verdict string

const (
	VerdictTrade   Verdict = "TRADE"
	VerdictNoTrade Verdict = "NO-TRADE"
)

// Thresholds bound the entry criteria. Zero values are meaningful
// (MinExpectedValue = 0 demands a positive edge), so callers that want
// defaults use DefaultThresholds rather than a zero struct.
type Thresholds struct {
	MinWinProbability float64 // win probability must reach this
	MaxRiskOfRuin     float64 // stop-out probability must stay under this
	MinExpectedValue  float64 // expected value must exceed this, price units
	MaxDrawdown       float64 // worst path drawdown must stay under this
	MinRewardRisk     float64 // realized reward/risk of the levels
}

// DefaultThresholds returns the standard entry thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinWinProbability: 0.55,
		MaxRiskOfRuin:     0.35,
		MinExpectedValue:  0,
		MaxDrawdown:       0.60,
		MinRewardRisk:     1.5,
	}
}

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// Result contains the final verdict with checklist.
type Result struct {
	Verdict  Verdict
	Criteria []CriterionResult
}

// Passed reports how many criteria passed.
func (r *Result) Passed() int {
	n := 0
	for _, c := range r.Criteria {
		if c.Pass {
			n++
		}
	}
	return n
}
