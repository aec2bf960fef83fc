package domain

// SimulationRecord is the persisted form of one simulation invocation:
// input echo plus summary results. Chart series are stored separately,
// keyed by RecordID.
type SimulationRecord struct {
	RecordID  string // deterministic hash
	SessionID string
	Ticker    string
	Strategy  Strategy

	// Input echo
	EntryPrice     float64
	TargetPrice    float64
	StopLoss       float64
	Volatility     float64
	Drift          float64
	HorizonDays    int
	NumSimulations int
	Optimized      bool // true when levels came from the optimizer

	// Results
	WinProbability     float64
	RiskOfRuin         float64
	ExpiredProbability float64
	AvgDaysToTarget    float64
	MaximumDrawdown    float64
	ExpectedValue      float64

	CreatedAtMs int64
}

// InsightRecord is the per-ticker recommendation row refreshed after a
// successful optimization. One row per ticker.
type InsightRecord struct {
	Ticker      string
	Direction   Strategy
	EntryPrice  float64
	TargetPrice float64
	StopLoss    float64

	WinProbability     float64
	RiskOfRuin         float64
	ExpiredProbability float64
	AvgDaysToTarget    float64
	MaximumDrawdown    float64
	ExpectedValue      float64

	UpdatedAtMs int64
}

// TickerInfo is instrument metadata.
type TickerInfo struct {
	Ticker      string
	Name        string
	Region      string
	Sector      string
	Description string
}
