package decision

import "testing"

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()

	if th.MinWinProbability <= 0 || th.MinWinProbability >= 1 {
		t.Errorf("MinWinProbability %v outside (0,1)", th.MinWinProbability)
	}
	if th.MaxRiskOfRuin <= 0 || th.MaxRiskOfRuin >= 1 {
		t.Errorf("MaxRiskOfRuin %v outside (0,1)", th.MaxRiskOfRuin)
	}
	if th.MaxDrawdown <= 0 || th.MaxDrawdown >= 1 {
		t.Errorf("MaxDrawdown %v outside (0,1)", th.MaxDrawdown)
	}
	if th.MinRewardRisk < 1 {
		t.Errorf("MinRewardRisk %v below 1", th.MinRewardRisk)
	}
	if th.MinExpectedValue != 0 {
		t.Errorf("MinExpectedValue = %v, want 0", th.MinExpectedValue)
	}
}

func TestResult_Passed(t *testing.T) {
	result := &Result{
		Criteria: []CriterionResult{
			{Name: "a", Pass: true},
			{Name: "b", Pass: false},
			{Name: "c", Pass: true},
		},
	}

	if got := result.Passed(); got != 2 {
		t.Errorf("Passed() = %d, want 2", got)
	}

	empty := &Result{}
	if got := empty.Passed(); got != 0 {
		t.Errorf("Passed() on empty = %d, want 0", got)
	}
}
