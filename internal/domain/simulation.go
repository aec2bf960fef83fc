package domain

import "math"

// TradingDaysPerYear is the day-count convention used to scale annualized
// drift and volatility down to daily steps.
const TradingDaysPerYear = 252

// SimulationInputs holds the parameters of one simulation run.
// Constructed once per run and never mutated.
type SimulationInputs struct {
	InitialPrice   float64  // entry price, must be > 0
	Strategy       Strategy // LONG | SHORT
	TargetPrice    float64  // profit exit level
	StopLoss       float64  // loss exit level
	Volatility     float64  // annualized, decimal (0.25 = 25%)
	Drift          float64  // annualized, decimal, may be negative
	HorizonDays    int      // trading days, >= 1
	NumSimulations int      // path count, >= 1
}

// DailyVolatility returns volatility scaled to one trading day.
func (in SimulationInputs) DailyVolatility() float64 {
	return in.Volatility / math.Sqrt(TradingDaysPerYear)
}

// DailyDrift returns drift scaled to one trading day.
func (in SimulationInputs) DailyDrift() float64 {
	return in.Drift / TradingDaysPerYear
}

// PricePath is one simulated trajectory. Index 0 is the entry price.
// Paths produced by the early-exit mode stop at the day a threshold was
// hit, so a path may hold fewer than horizon+1 entries.
type PricePath []float64

// OutcomeKind classifies how a path resolved.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeWin     OutcomeKind = "WIN"
	OutcomeLoss    OutcomeKind = "LOSS"
	OutcomeExpired OutcomeKind = "EXPIRED"
)

// NoHitDay marks a path that never crossed either threshold.
// A found hit day is always >= 1, so the scan result must be checked
// against NoHitDay before being used as a day index.
const NoHitDay = -1

// PathOutcome is the first-passage result derived from one path.
type PathOutcome struct {
	Kind        OutcomeKind
	DayOfHit    int     // day the threshold was hit, NoHitDay when expired
	Payoff      float64 // signed, in price units
	MaxDrawdown float64 // worst (peak-price)/peak over the path, in [0,1]
}

// MaxSamplePaths bounds the raw paths kept for charting.
const MaxSamplePaths = 100

// ChartData holds the series persisted for visualization.
// The percentile series always span the full horizon; sample paths are
// raw and may be shorter when they terminated early.
type ChartData struct {
	TimeIndex   []int       // 0..horizon
	P5          []float64   // 5th percentile price per day
	P50         []float64   // median price per day
	P95         []float64   // 95th percentile price per day
	SamplePaths []PricePath // at most MaxSamplePaths unpadded paths
}

// SimulationResult aggregates a full batch of path outcomes.
// Created fresh per invocation, persisted once, never mutated.
type SimulationResult struct {
	WinProbability     float64 // count(WIN) / N
	RiskOfRuin         float64 // count(LOSS) / N
	ExpiredProbability float64 // count(EXPIRED) / N
	AvgDaysToTarget    float64 // mean hit day over WIN paths, 0 when no wins
	MaximumDrawdown    float64 // max over all paths' MaxDrawdown
	ExpectedValue      float64 // mean payoff, price units
	Chart              ChartData
}
