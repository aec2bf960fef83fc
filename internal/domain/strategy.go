package domain

import "strings"

// Strategy is the trade direction.
type Strategy string

// Strategy constants.
const (
	StrategyLong  Strategy = "LONG"
	StrategyShort Strategy = "SHORT"
)

// ParseStrategy normalizes a string into a Strategy.
// Returns false when the value is not LONG or SHORT.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyLong:
		return StrategyLong, true
	case StrategyShort:
		return StrategyShort, true
	}
	return "", false
}

// Valid reports whether the strategy is a known direction.
func (s Strategy) Valid() bool {
	return s == StrategyLong || s == StrategyShort
}

// TargetHit reports whether price has reached the target for this direction.
func (s Strategy) TargetHit(price, target float64) bool {
	if s == StrategyShort {
		return price <= target
	}
	return price >= target
}

// StopHit reports whether price has reached the stop for this direction.
func (s Strategy) StopHit(price, stop float64) bool {
	if s == StrategyShort {
		return price >= stop
	}
	return price <= stop
}

// ProfitableSide reports whether target lies strictly on the winning side of
// the entry price for this direction.
func (s Strategy) ProfitableSide(entry, target float64) bool {
	if s == StrategyShort {
		return target < entry
	}
	return target > entry
}

// ValidLevels reports whether target and stop bracket the entry price
// correctly for this direction: LONG needs target > entry > stop,
// SHORT needs target < entry < stop.
func (s Strategy) ValidLevels(entry, target, stop float64) bool {
	if s == StrategyShort {
		return target < entry && entry < stop
	}
	return target > entry && entry > stop
}
