package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-sim-lab/internal/decision"
	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/engine"
	"trade-sim-lab/internal/optimizer"
	"trade-sim-lab/internal/storage"
	chstore "trade-sim-lab/internal/storage/clickhouse"
	"trade-sim-lab/internal/storage/memory"
	pgstore "trade-sim-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	ticker := flag.String("ticker", "", "Instrument symbol (required)")
	sessionID := flag.String("session", "", "Session ID grouping related runs (default: generated)")
	strategyFlag := flag.String("strategy", "LONG", "Trade direction: LONG or SHORT")

	// Market inputs. Levels and horizon are resolved by the grid search.
	entry := flag.Float64("entry", 0, "Entry price (required)")
	vol := flag.Float64("volatility", 0, "Annualized volatility, decimal (required)")
	drift := flag.Float64("drift", 0, "Annualized drift, decimal")
	sims := flag.Int("sims", 10000, "Number of Monte Carlo paths per candidate")
	minRR := flag.Float64("min-rr", domain.DefaultMinRewardRisk, "Minimum reward/risk ratio for grid candidates")
	seed := flag.Int64("seed", 0, "Random seed (0 = seed from clock)")
	workers := flag.Int("workers", 0, "Grid search workers (0 = number of CPUs)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (records and insights)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (chart series)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	verbose := flag.Bool("verbose", false, "Verbose engine logging")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[optimize] ", log.LstdFlags)

	// Validate required flags
	if *ticker == "" {
		logger.Fatal("--ticker is required")
	}
	strategy, ok := domain.ParseStrategy(*strategyFlag)
	if !ok {
		logger.Fatalf("Invalid strategy: %s. Must be LONG or SHORT", *strategyFlag)
	}
	if *entry <= 0 {
		logger.Fatal("--entry is required and must be positive")
	}
	if *vol <= 0 {
		logger.Fatal("--volatility is required and must be positive")
	}

	if *sessionID == "" {
		*sessionID = "cli-" + time.Now().UTC().Format("20060102-150405")
	}

	var seedPtr *int64
	if *seed != 0 {
		seedPtr = seed
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Create stores. With no storage flags the run is compute-only: the
	// result is printed but not persisted.
	var recordStore storage.SimulationRecordStore
	var chartStore storage.ChartSeriesStore
	var insightStore storage.InsightStore

	switch {
	case *useMemory:
		recordStore = memory.NewSimulationRecordStore()
		chartStore = memory.NewChartSeriesStore()
		insightStore = memory.NewInsightStore()
	case *postgresDSN != "" || *clickhouseDSN != "":
		if *postgresDSN != "" {
			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			recordStore = pgstore.NewSimulationRecordStore(pool)
			insightStore = pgstore.NewInsightStore(pool)
		}
		if *clickhouseDSN != "" {
			conn, err := chstore.NewConn(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			chartStore = chstore.NewChartSeriesStore(conn)
		}
	default:
		logger.Println("No storage configured, result will not be persisted")
	}

	// Create engine
	eng := engine.New(engine.Options{
		RecordStore:  recordStore,
		ChartStore:   chartStore,
		InsightStore: insightStore,
		Optimizer:    optimizer.New(optimizer.Options{Workers: *workers, Verbose: *verbose}),
		Verbose:      *verbose,
	})

	logger.Printf("Optimizing levels: ticker=%s strategy=%s entry=%.4f vol=%.4f drift=%.4f min-rr=%.2f",
		*ticker, strategy, *entry, *vol, *drift, *minRR)

	outcome, err := eng.OptimizeAndSimulate(ctx, engine.OptimizationRequest{
		SessionID:      *sessionID,
		Ticker:         *ticker,
		InitialPrice:   *entry,
		Strategy:       strategy,
		Volatility:     *vol,
		Drift:          *drift,
		NumSimulations: *sims,
		MinRewardRisk:  *minRR,
		Seed:           seedPtr,
	})
	if err != nil {
		if errors.Is(err, optimizer.ErrNoViableCandidate) {
			logger.Fatalf("optimization failed: %v (try a lower --min-rr)", err)
		}
		logger.Fatalf("optimization failed: %v", err)
	}

	// Gate the winner through the entry criteria
	in := domain.SimulationInputs{
		InitialPrice:   *entry,
		Strategy:       strategy,
		TargetPrice:    outcome.TargetPrice,
		StopLoss:       outcome.StopLoss,
		Volatility:     *vol,
		Drift:          *drift,
		HorizonDays:    outcome.HorizonDays,
		NumSimulations: *sims,
	}
	dec := decision.NewEvaluator().Evaluate(in, outcome.Result)

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(optimizationOutput{
			RecordID:         outcome.RecordID,
			SessionID:        *sessionID,
			Ticker:           *ticker,
			Strategy:         string(strategy),
			TargetPrice:      outcome.TargetPrice,
			StopLoss:         outcome.StopLoss,
			HorizonDays:      outcome.HorizonDays,
			VolMultiplier:    outcome.Candidate.VolMultiplier,
			RewardRiskRatio:  outcome.Candidate.RewardRiskRatio,
			ScoredCandidates: outcome.Scored,
			Result: resultOutput{
				WinProbability:     outcome.Result.WinProbability,
				RiskOfRuin:         outcome.Result.RiskOfRuin,
				ExpiredProbability: outcome.Result.ExpiredProbability,
				AvgDaysToTarget:    outcome.Result.AvgDaysToTarget,
				MaximumDrawdown:    outcome.Result.MaximumDrawdown,
				ExpectedValue:      outcome.Result.ExpectedValue,
			},
			Verdict:        string(dec.Verdict),
			CriteriaPassed: dec.Passed(),
			CriteriaTotal:  len(dec.Criteria),
		}, "", "  ")
		fmt.Println(string(output))
	} else {
		printOutcome(*ticker, strategy, outcome, dec)
	}
}

// optimizationOutput is the JSON shape for --json runs. It matches the
// server's /optimize response.
type optimizationOutput struct {
	RecordID         string       `json:"record_id"`
	SessionID        string       `json:"session_id"`
	Ticker           string       `json:"ticker"`
	Strategy         string       `json:"strategy"`
	TargetPrice      float64      `json:"target_price"`
	StopLoss         float64      `json:"stop_loss"`
	HorizonDays      int          `json:"horizon_days"`
	VolMultiplier    float64      `json:"vol_multiplier"`
	RewardRiskRatio  float64      `json:"reward_risk_ratio"`
	ScoredCandidates int          `json:"scored_candidates"`
	Result           resultOutput `json:"result"`
	Verdict          string       `json:"verdict"`
	CriteriaPassed   int          `json:"criteria_passed"`
	CriteriaTotal    int          `json:"criteria_total"`
}

type resultOutput struct {
	WinProbability     float64 `json:"win_probability"`
	RiskOfRuin         float64 `json:"risk_of_ruin"`
	ExpiredProbability float64 `json:"expired_probability"`
	AvgDaysToTarget    float64 `json:"avg_days_to_target"`
	MaximumDrawdown    float64 `json:"maximum_drawdown"`
	ExpectedValue      float64 `json:"expected_value"`
}

// printOutcome outputs a human-readable summary of the winning levels,
// the detailed re-run and the entry verdict.
func printOutcome(ticker string, strategy domain.Strategy, out *engine.OptimizationOutcome, dec *decision.Result) {
	r := out.Result
	fmt.Println()
	fmt.Println("=== Optimization Result ===")
	fmt.Printf("Record ID:          %s\n", out.RecordID)
	fmt.Printf("Ticker:             %s\n", ticker)
	fmt.Printf("Strategy:           %s\n", strategy)
	fmt.Println()

	fmt.Println("Winning Levels:")
	fmt.Printf("  Target Price:     %.4f\n", out.TargetPrice)
	fmt.Printf("  Stop Loss:        %.4f\n", out.StopLoss)
	fmt.Printf("  Horizon:          %d days\n", out.HorizonDays)
	fmt.Printf("  Vol Multiplier:   %.2f\n", out.Candidate.VolMultiplier)
	fmt.Printf("  Reward/Risk:      %.2f\n", out.Candidate.RewardRiskRatio)
	fmt.Printf("  Candidates:       %d scored\n", out.Scored)
	fmt.Println()

	fmt.Println("Simulation:")
	fmt.Printf("  Win Probability:  %.4f\n", r.WinProbability)
	fmt.Printf("  Risk of Ruin:     %.4f\n", r.RiskOfRuin)
	fmt.Printf("  Expired:          %.4f\n", r.ExpiredProbability)
	if r.AvgDaysToTarget > 0 {
		fmt.Printf("  Avg Days to Tgt:  %.1f\n", r.AvgDaysToTarget)
	} else {
		fmt.Println("  Avg Days to Tgt:  n/a (no winning paths)")
	}
	fmt.Printf("  Max Drawdown:     %.2f%%\n", r.MaximumDrawdown*100)
	fmt.Printf("  Expected Value:   %.4f\n", r.ExpectedValue)
	fmt.Println()

	fmt.Println("Entry Decision:")
	fmt.Printf("  Verdict:          %s (%d/%d criteria passed)\n", dec.Verdict, dec.Passed(), len(dec.Criteria))
	for _, c := range dec.Criteria {
		mark := "PASS"
		if !c.Pass {
			mark = "FAIL"
		}
		fmt.Printf("  [%s] %-18s %s (threshold %s)\n", mark, c.Name, c.Actual, c.Threshold)
	}
}
