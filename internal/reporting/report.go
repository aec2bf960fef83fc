package reporting

import (
	"time"

	"trade-sim-lab/internal/backtest"
	"trade-sim-lab/internal/decision"
	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/metrics"
)

// Report is the assembled view of one reporting scope: every stored run
// with its entry-gate verdict, per-ticker aggregates, persisted chart
// series and, where close history exists, the realized backtest placed
// next to the simulated probabilities.
type Report struct {
	GeneratedAt time.Time
	SessionID   string // set when scoped to a session
	Ticker      string // set when scoped to a ticker

	// Records sorted by (created_at_ms, record_id) ASC
	Records []RecordRow

	// Aggregates sorted by ticker ASC
	Aggregates []metrics.TickerAggregate

	// Backtests covers only records with close history after creation
	Backtests []BacktestRow

	// Charts covers only records with persisted series
	Charts []ChartRow
}

// RecordRow pairs a stored run with its entry-gate evaluation.
type RecordRow struct {
	Record   *domain.SimulationRecord
	Decision *decision.Result
}

// BacktestRow places a run's simulated win probability next to what the
// close history actually did after the run was recorded.
type BacktestRow struct {
	RecordID          string
	SimWinProbability float64
	Realized          *backtest.Result
}

// ChartRow carries the persisted percentile series for one record.
type ChartRow struct {
	RecordID string
	Chart    domain.ChartData
}
