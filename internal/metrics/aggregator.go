package metrics

import (
	"context"
	"errors"
	"sort"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
)

// ErrNoRecords is returned when no simulation records are available for
// aggregation.
var ErrNoRecords = errors.New("no simulation records available for aggregation")

// TickerAggregate summarizes every stored simulation run for one ticker.
// Computed on demand for reporting; never persisted.
type TickerAggregate struct {
	Ticker string

	// Counts
	TotalRuns     int
	OptimizedRuns int

	// Result distribution
	MeanWinProbability float64
	MeanExpectedValue  float64

	// Best run by expected value
	BestExpectedValue float64
	BestRecordID      string
}

// Aggregator computes per-ticker aggregates from stored simulation records.
type Aggregator struct {
	records storage.SimulationRecordStore
}

// NewAggregator creates a new metrics aggregator.
func NewAggregator(records storage.SimulationRecordStore) *Aggregator {
	return &Aggregator{records: records}
}

// ComputeTickerAggregate loads all records for a ticker and reduces them.
// Returns ErrNoRecords when the ticker has no stored runs.
func (a *Aggregator) ComputeTickerAggregate(ctx context.Context, ticker string) (*TickerAggregate, error) {
	recs, err := a.records.ListByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoRecords
	}
	agg := reduceRecords(ticker, sortRecords(recs))
	return &agg, nil
}

// AggregateRecords groups an already-loaded record set by ticker and
// reduces each group. Tickers come back in ascending order so report
// tables are stable.
func AggregateRecords(records []*domain.SimulationRecord) []TickerAggregate {
	groups := make(map[string][]*domain.SimulationRecord)
	for _, r := range records {
		groups[r.Ticker] = append(groups[r.Ticker], r)
	}

	tickers := make([]string, 0, len(groups))
	for t := range groups {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	aggs := make([]TickerAggregate, 0, len(tickers))
	for _, t := range tickers {
		aggs = append(aggs, reduceRecords(t, sortRecords(groups[t])))
	}
	return aggs
}

// sortRecords returns a copy ordered by CreatedAtMs ASC, RecordID ASC so
// the best-run tie-break does not depend on store iteration order.
func sortRecords(recs []*domain.SimulationRecord) []*domain.SimulationRecord {
	sorted := make([]*domain.SimulationRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAtMs != sorted[j].CreatedAtMs {
			return sorted[i].CreatedAtMs < sorted[j].CreatedAtMs
		}
		return sorted[i].RecordID < sorted[j].RecordID
	})
	return sorted
}

// reduceRecords collapses one ticker's sorted records into an aggregate.
func reduceRecords(ticker string, sorted []*domain.SimulationRecord) TickerAggregate {
	optimized := 0
	winProbs := make([]float64, len(sorted))
	evs := make([]float64, len(sorted))
	best := sorted[0]

	for i, r := range sorted {
		if r.Optimized {
			optimized++
		}
		winProbs[i] = r.WinProbability
		evs[i] = r.ExpectedValue
		// Strictly greater keeps the earliest best on ties.
		if r.ExpectedValue > best.ExpectedValue {
			best = r
		}
	}

	return TickerAggregate{
		Ticker:             ticker,
		TotalRuns:          len(sorted),
		OptimizedRuns:      optimized,
		MeanWinProbability: computeMean(winProbs),
		MeanExpectedValue:  computeMean(evs),
		BestExpectedValue:  best.ExpectedValue,
		BestRecordID:       best.RecordID,
	}
}
