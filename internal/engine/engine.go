// Package engine exposes the two top-level operations: running a
// fixed-level simulation and discovering levels through the optimizer.
// It validates requests, drives the simulation and summary layers, and
// persists results best-effort.
package engine

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/idhash"
	"trade-sim-lab/internal/metrics"
	"trade-sim-lab/internal/optimizer"
	"trade-sim-lab/internal/simulation"
	"trade-sim-lab/internal/storage"
)

// SimulationRequest is a fixed-level run: the caller supplies both exit
// levels and the horizon.
type SimulationRequest struct {
	SessionID string
	Ticker    string

	InitialPrice   float64
	Strategy       domain.Strategy
	TargetPrice    float64
	StopLoss       float64
	Volatility     float64 // annualized, decimal
	Drift          float64 // annualized, decimal
	HorizonDays    int
	NumSimulations int

	// Seed pins the random stream. Nil seeds from the clock.
	Seed *int64
}

// OptimizationRequest asks the engine to discover exit levels. Levels and
// horizon are absent: the grid search resolves both.
type OptimizationRequest struct {
	SessionID string
	Ticker    string

	InitialPrice   float64
	Strategy       domain.Strategy
	Volatility     float64 // annualized, decimal
	Drift          float64 // annualized, decimal
	NumSimulations int

	// MinRewardRisk floors the grid's reward/risk axis.
	// Zero means domain.DefaultMinRewardRisk.
	MinRewardRisk float64

	// Seed pins the random stream. Nil seeds from the clock.
	Seed *int64
}

// SimulationOutcome couples the summary result with the identity it was
// persisted under.
type SimulationOutcome struct {
	RecordID string
	Result   domain.SimulationResult
}

// OptimizationOutcome is the winning levels plus the detailed re-run at
// those levels.
type OptimizationOutcome struct {
	RecordID    string
	TargetPrice float64
	StopLoss    float64
	HorizonDays int
	Candidate   domain.OptimizationCandidate
	Result      domain.SimulationResult

	// Scored is how many grid candidates passed the gates and were
	// evaluated before the winner was picked.
	Scored int
}

// Engine runs simulations and optimizations against a set of stores.
// Any store may be nil; persistence of that concern is then skipped.
type Engine struct {
	records  storage.SimulationRecordStore
	charts   storage.ChartSeriesStore
	insights storage.InsightStore

	optimizer *optimizer.Optimizer
	verbose   bool
}

// Options for creating an Engine.
type Options struct {
	// Optional stores. A nil store skips persistence of that concern;
	// results are still computed and returned.
	RecordStore  storage.SimulationRecordStore
	ChartStore   storage.ChartSeriesStore
	InsightStore storage.InsightStore

	// Optimizer used by OptimizeAndSimulate. Nil builds one with the
	// default grid.
	Optimizer *optimizer.Optimizer

	Verbose bool
}

// New creates a new Engine.
func New(opts Options) *Engine {
	opt := opts.Optimizer
	if opt == nil {
		opt = optimizer.New(optimizer.Options{Verbose: opts.Verbose})
	}
	return &Engine{
		records:   opts.RecordStore,
		charts:    opts.ChartStore,
		insights:  opts.InsightStore,
		optimizer: opt,
		verbose:   opts.Verbose,
	}
}

// RunSimulation executes one fixed-level run.
// Steps:
//  1. Validate the request
//  2. Walk every path with early exit at the first threshold hit
//  3. Summarize outcomes into probabilities, EV and chart series
//  4. Persist record and chart rows (failures logged, not returned)
func (e *Engine) RunSimulation(ctx context.Context, req SimulationRequest) (*SimulationOutcome, error) {
	if err := validateSimulation(req); err != nil {
		return nil, err
	}

	seed := resolveSeed(req.Seed)
	in := domain.SimulationInputs{
		InitialPrice:   req.InitialPrice,
		Strategy:       req.Strategy,
		TargetPrice:    req.TargetPrice,
		StopLoss:       req.StopLoss,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    req.HorizonDays,
		NumSimulations: req.NumSimulations,
	}

	e.log("simulating %s %s: %d paths over %d days (seed %d)",
		req.Ticker, req.Strategy, in.NumSimulations, in.HorizonDays, seed)

	runner := simulation.NewRunner(rand.New(rand.NewSource(seed)))
	paths, outcomes := runner.Run(in)
	result := metrics.Summarize(in, paths, outcomes, runner.Generator())

	e.log("done: win=%.4f ruin=%.4f expired=%.4f ev=%.4f",
		result.WinProbability, result.RiskOfRuin, result.ExpiredProbability, result.ExpectedValue)

	recordID := e.persist(ctx, req.SessionID, req.Ticker, in, false, result)

	return &SimulationOutcome{RecordID: recordID, Result: result}, nil
}

// OptimizeAndSimulate discovers exit levels for the instrument, then runs
// the full simulation at the winning levels.
// Steps:
//  1. Validate the request
//  2. Grid-search (stop, target) pairs by batch expected value
//  3. Re-run the winner with early exit for the detailed summary
//  4. Persist the record and refresh the ticker's insight row
//
// Returns optimizer.ErrNoViableCandidate when the grid rejects everything.
func (e *Engine) OptimizeAndSimulate(ctx context.Context, req OptimizationRequest) (*OptimizationOutcome, error) {
	if err := validateOptimization(req); err != nil {
		return nil, err
	}

	minRR := req.MinRewardRisk
	if minRR == 0 {
		minRR = domain.DefaultMinRewardRisk
	}
	seed := resolveSeed(req.Seed)

	search, err := e.optimizer.Search(optimizer.SearchRequest{
		InitialPrice:   req.InitialPrice,
		Strategy:       req.Strategy,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		NumSimulations: req.NumSimulations,
		MinRewardRisk:  minRR,
		Seed:           seed,
	})
	if err != nil {
		return nil, err
	}

	// Detailed re-run at the winning levels. The plain seed gives this run
	// its own stream, independent of the per-candidate scoring streams.
	in := domain.SimulationInputs{
		InitialPrice:   req.InitialPrice,
		Strategy:       req.Strategy,
		TargetPrice:    search.Best.TargetPrice,
		StopLoss:       search.Best.StopLoss,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    search.HorizonDays,
		NumSimulations: req.NumSimulations,
	}

	e.log("re-running winner for %s: target=%.4f stop=%.4f over %d days",
		req.Ticker, in.TargetPrice, in.StopLoss, in.HorizonDays)

	runner := simulation.NewRunner(rand.New(rand.NewSource(seed)))
	paths, outcomes := runner.Run(in)
	result := metrics.Summarize(in, paths, outcomes, runner.Generator())

	recordID := e.persist(ctx, req.SessionID, req.Ticker, in, true, result)
	e.refreshInsight(ctx, req.Ticker, in, result)

	return &OptimizationOutcome{
		RecordID:    recordID,
		TargetPrice: search.Best.TargetPrice,
		StopLoss:    search.Best.StopLoss,
		HorizonDays: search.HorizonDays,
		Candidate:   search.Best,
		Result:      result,
		Scored:      search.Scored,
	}, nil
}

// persist writes the record and its chart rows. Failures are logged and
// swallowed: a computed result is still worth returning when storage is
// down. Chart rows are skipped when the record insert fails so no orphan
// series exist. Returns the record ID either way.
func (e *Engine) persist(ctx context.Context, sessionID, ticker string, in domain.SimulationInputs, optimized bool, result domain.SimulationResult) string {
	createdAt := time.Now().UnixMilli()
	recordID := idhash.ComputeRecordID(sessionID, ticker, in.Strategy, createdAt)

	if e.records == nil {
		return recordID
	}

	rec := &domain.SimulationRecord{
		RecordID:  recordID,
		SessionID: sessionID,
		Ticker:    ticker,
		Strategy:  in.Strategy,

		EntryPrice:     in.InitialPrice,
		TargetPrice:    in.TargetPrice,
		StopLoss:       in.StopLoss,
		Volatility:     in.Volatility,
		Drift:          in.Drift,
		HorizonDays:    in.HorizonDays,
		NumSimulations: in.NumSimulations,
		Optimized:      optimized,

		WinProbability:     result.WinProbability,
		RiskOfRuin:         result.RiskOfRuin,
		ExpiredProbability: result.ExpiredProbability,
		AvgDaysToTarget:    result.AvgDaysToTarget,
		MaximumDrawdown:    result.MaximumDrawdown,
		ExpectedValue:      result.ExpectedValue,

		CreatedAtMs: createdAt,
	}
	if err := e.records.Insert(ctx, rec); err != nil {
		log.Printf("WARN: persist record %s failed: %v", recordID, err)
		return recordID
	}
	if e.charts != nil {
		if err := e.charts.InsertChart(ctx, recordID, result.Chart); err != nil {
			log.Printf("WARN: persist chart for record %s failed: %v", recordID, err)
		}
	}
	return recordID
}

// refreshInsight pushes newly optimized levels into the ticker's insight
// row. Missing rows are reported, not created: rows are provisioned when
// the ticker is registered.
func (e *Engine) refreshInsight(ctx context.Context, ticker string, in domain.SimulationInputs, result domain.SimulationResult) {
	if e.insights == nil || ticker == "" {
		return
	}
	ins := &domain.InsightRecord{
		Ticker:      ticker,
		Direction:   in.Strategy,
		EntryPrice:  in.InitialPrice,
		TargetPrice: in.TargetPrice,
		StopLoss:    in.StopLoss,

		WinProbability:     result.WinProbability,
		RiskOfRuin:         result.RiskOfRuin,
		ExpiredProbability: result.ExpiredProbability,
		AvgDaysToTarget:    result.AvgDaysToTarget,
		MaximumDrawdown:    result.MaximumDrawdown,
		ExpectedValue:      result.ExpectedValue,

		UpdatedAtMs: time.Now().UnixMilli(),
	}
	if err := e.insights.UpdateLevels(ctx, ins); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("WARN: no insight row for %s, levels not refreshed", ticker)
			return
		}
		log.Printf("WARN: refresh insight for %s failed: %v", ticker, err)
	}
}

// resolveSeed pins the random stream. A nil request seed falls back to the
// clock, trading reproducibility for variety.
func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

func (e *Engine) log(format string, args ...interface{}) {
	if e.verbose {
		log.Printf("[engine] "+format, args...)
	}
}
