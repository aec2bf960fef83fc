package domain

import "testing"

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want Strategy
		ok   bool
	}{
		{"LONG", StrategyLong, true},
		{"long", StrategyLong, true},
		{" Short ", StrategyShort, true},
		{"SHORT", StrategyShort, true},
		{"", "", false},
		{"NEUTRAL", "", false},
	}

	for _, c := range cases {
		got, ok := ParseStrategy(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseStrategy(%q) = (%q, %t), want (%q, %t)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestStrategy_ThresholdChecks(t *testing.T) {
	// LONG: win upward, lose downward
	if !StrategyLong.TargetHit(110, 110) {
		t.Error("LONG target at exactly target price should hit")
	}
	if StrategyLong.TargetHit(109.99, 110) {
		t.Error("LONG target below target price should not hit")
	}
	if !StrategyLong.StopHit(95, 95) {
		t.Error("LONG stop at exactly stop price should hit")
	}
	if StrategyLong.StopHit(95.01, 95) {
		t.Error("LONG stop above stop price should not hit")
	}

	// SHORT mirrors LONG
	if !StrategyShort.TargetHit(90, 90) {
		t.Error("SHORT target at exactly target price should hit")
	}
	if StrategyShort.TargetHit(90.01, 90) {
		t.Error("SHORT target above target price should not hit")
	}
	if !StrategyShort.StopHit(105, 105) {
		t.Error("SHORT stop at exactly stop price should hit")
	}
	if StrategyShort.StopHit(104.99, 105) {
		t.Error("SHORT stop below stop price should not hit")
	}
}

func TestStrategy_ValidLevels(t *testing.T) {
	if !StrategyLong.ValidLevels(100, 110, 95) {
		t.Error("LONG 110/100/95 should be valid")
	}
	if StrategyLong.ValidLevels(100, 100, 95) {
		t.Error("LONG target equal to entry should be invalid")
	}
	if StrategyLong.ValidLevels(100, 110, 100) {
		t.Error("LONG stop equal to entry should be invalid")
	}
	if StrategyLong.ValidLevels(100, 95, 110) {
		t.Error("LONG inverted levels should be invalid")
	}

	if !StrategyShort.ValidLevels(100, 90, 105) {
		t.Error("SHORT 90/100/105 should be valid")
	}
	if StrategyShort.ValidLevels(100, 110, 95) {
		t.Error("SHORT with LONG-shaped levels should be invalid")
	}
}

func TestStrategy_ProfitableSide(t *testing.T) {
	if !StrategyLong.ProfitableSide(100, 101) {
		t.Error("LONG target above entry is profitable side")
	}
	if StrategyLong.ProfitableSide(100, 100) {
		t.Error("LONG target at entry is not strictly profitable")
	}
	if !StrategyShort.ProfitableSide(100, 99) {
		t.Error("SHORT target below entry is profitable side")
	}
	if StrategyShort.ProfitableSide(100, 100) {
		t.Error("SHORT target at entry is not strictly profitable")
	}
}
