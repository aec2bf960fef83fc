package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/engine"
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

	// Simulation inputs
	entry := flag.Float64("entry", 0, "Entry price (required)")
	target := flag.Float64("target", 0, "Target price (required)")
	stop := flag.Float64("stop", 0, "Stop-loss price (required)")
	vol := flag.Float64("volatility", 0, "Annualized volatility, decimal (required)")
	drift := flag.Float64("drift", 0, "Annualized drift, decimal")
	horizon := flag.Int("horizon", 63, "Time horizon in trading days")
	sims := flag.Int("sims", 10000, "Number of Monte Carlo paths")
	seed := flag.Int64("seed", 0, "Random seed (0 = seed from clock)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (simulation records)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (chart series)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	verbose := flag.Bool("verbose", false, "Verbose engine logging")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

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
	if *target <= 0 {
		logger.Fatal("--target is required and must be positive")
	}
	if *stop <= 0 {
		logger.Fatal("--stop is required and must be positive")
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

	switch {
	case *useMemory:
		recordStore = memory.NewSimulationRecordStore()
		chartStore = memory.NewChartSeriesStore()
	case *postgresDSN != "" || *clickhouseDSN != "":
		if *postgresDSN != "" {
			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			recordStore = pgstore.NewSimulationRecordStore(pool)
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
		RecordStore: recordStore,
		ChartStore:  chartStore,
		Verbose:     *verbose,
	})

	logger.Printf("Running simulation: ticker=%s strategy=%s entry=%.4f target=%.4f stop=%.4f horizon=%d sims=%d",
		*ticker, strategy, *entry, *target, *stop, *horizon, *sims)

	outcome, err := eng.RunSimulation(ctx, engine.SimulationRequest{
		SessionID:      *sessionID,
		Ticker:         *ticker,
		InitialPrice:   *entry,
		Strategy:       strategy,
		TargetPrice:    *target,
		StopLoss:       *stop,
		Volatility:     *vol,
		Drift:          *drift,
		HorizonDays:    *horizon,
		NumSimulations: *sims,
		Seed:           seedPtr,
	})
	if err != nil {
		logger.Fatalf("simulation failed: %v", err)
	}

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(simulationOutput{
			RecordID:  outcome.RecordID,
			SessionID: *sessionID,
			Ticker:    *ticker,
			Strategy:  string(strategy),
			Result:    newResultOutput(outcome.Result),
		}, "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(*ticker, strategy, outcome)
	}
}

// simulationOutput is the JSON shape for --json runs. It matches the
// server's /simulate response.
type simulationOutput struct {
	RecordID  string       `json:"record_id"`
	SessionID string       `json:"session_id"`
	Ticker    string       `json:"ticker"`
	Strategy  string       `json:"strategy"`
	Result    resultOutput `json:"result"`
}

type resultOutput struct {
	WinProbability     float64 `json:"win_probability"`
	RiskOfRuin         float64 `json:"risk_of_ruin"`
	ExpiredProbability float64 `json:"expired_probability"`
	AvgDaysToTarget    float64 `json:"avg_days_to_target"`
	MaximumDrawdown    float64 `json:"maximum_drawdown"`
	ExpectedValue      float64 `json:"expected_value"`
}

func newResultOutput(r domain.SimulationResult) resultOutput {
	return resultOutput{
		WinProbability:     r.WinProbability,
		RiskOfRuin:         r.RiskOfRuin,
		ExpiredProbability: r.ExpiredProbability,
		AvgDaysToTarget:    r.AvgDaysToTarget,
		MaximumDrawdown:    r.MaximumDrawdown,
		ExpectedValue:      r.ExpectedValue,
	}
}

// printResult outputs a human-readable summary.
func printResult(ticker string, strategy domain.Strategy, out *engine.SimulationOutcome) {
	r := out.Result
	fmt.Println()
	fmt.Println("=== Simulation Result ===")
	fmt.Printf("Record ID:          %s\n", out.RecordID)
	fmt.Printf("Ticker:             %s\n", ticker)
	fmt.Printf("Strategy:           %s\n", strategy)
	fmt.Println()
	fmt.Printf("Win Probability:    %.4f\n", r.WinProbability)
	fmt.Printf("Risk of Ruin:       %.4f\n", r.RiskOfRuin)
	fmt.Printf("Expired:            %.4f\n", r.ExpiredProbability)
	if r.AvgDaysToTarget > 0 {
		fmt.Printf("Avg Days to Target: %.1f\n", r.AvgDaysToTarget)
	} else {
		fmt.Println("Avg Days to Target: n/a (no winning paths)")
	}
	fmt.Printf("Max Drawdown:       %.2f%%\n", r.MaximumDrawdown*100)
	fmt.Printf("Expected Value:     %.4f\n", r.ExpectedValue)
}
