// Package main provides the unified simulation service:
// - HTTP API: POST /simulate and /optimize, GET /snapshot and /status
// - Sweep (scheduled): optimizes every registered ticker from market data
// - Observability: /health and Prometheus /metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"trade-sim-lab/internal/decision"
	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/engine"
	"trade-sim-lab/internal/marketdata"
	"trade-sim-lab/internal/observability"
	"trade-sim-lab/internal/optimizer"
	"trade-sim-lab/internal/storage"
	chstore "trade-sim-lab/internal/storage/clickhouse"
	"trade-sim-lab/internal/storage/memory"
	"trade-sim-lab/internal/storage/migrations"
	pgstore "trade-sim-lab/internal/storage/postgres"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	addr          string
	useMemory     bool
	sweepInterval time.Duration
	sweepSims     int
	sweepStrategy domain.Strategy
	sweepMinRR    float64

	// Components
	stores   *allStores
	eng      *engine.Engine
	provider marketdata.Provider
	stream   *marketdata.QuoteStream
	logger   *log.Logger

	// State
	mu            sync.Mutex
	started       time.Time
	lastSweepRun  time.Time
	sweepRunning  bool
	sweepRuns     int
	simulations   int
	optimizations int
}

// allStores holds all storage implementations.
type allStores struct {
	recordStore  storage.SimulationRecordStore
	chartStore   storage.ChartSeriesStore
	insightStore storage.InsightStore
	tickerStore  storage.TickerInfoStore
	closeStore   storage.DailyCloseStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	streamEndpoint := flag.String("stream-endpoint", os.Getenv("QUOTE_STREAM_ENDPOINT"), "Quote stream WebSocket endpoint (optional)")
	sweepInterval := flag.Duration("sweep-interval", 0, "Scheduled sweep interval (0 to disable)")
	sweepSims := flag.Int("sweep-sims", 10000, "Monte Carlo paths per sweep optimization")
	sweepStrategy := flag.String("sweep-strategy", "LONG", "Trade direction for sweep runs: LONG or SHORT")
	sweepMinRR := flag.Float64("sweep-min-rr", domain.DefaultMinRewardRisk, "Minimum reward/risk ratio for sweep runs")
	workers := flag.Int("workers", 0, "Grid search workers (0 = number of CPUs)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	migrate := flag.Bool("migrate", false, "Apply schema migrations on startup")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}
	strategy, ok := domain.ParseStrategy(*sweepStrategy)
	if !ok {
		logger.Fatalf("Invalid sweep strategy: %s. Must be LONG or SHORT", *sweepStrategy)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Market data: vol and drift come from close history; a live stream
	// overlays the current price when configured.
	var provider marketdata.Provider = marketdata.NewHistoryProvider(stores.closeStore, 0)
	var stream *marketdata.QuoteStream
	if *streamEndpoint != "" {
		stream, err = marketdata.NewQuoteStream(ctx, *streamEndpoint, nil)
		if err != nil {
			logger.Fatalf("Failed to connect quote stream: %v", err)
		}
		defer stream.Close()
		provider = marketdata.NewStreamProvider(provider, stream)
		logger.Printf("Quote stream connected: %s", *streamEndpoint)
	}

	// Create server
	server := &Server{
		addr:          *addr,
		useMemory:     *useMemory,
		sweepInterval: *sweepInterval,
		sweepSims:     *sweepSims,
		sweepStrategy: strategy,
		sweepMinRR:    *sweepMinRR,
		stores:        stores,
		provider:      provider,
		stream:        stream,
		logger:        logger,
		eng: engine.New(engine.Options{
			RecordStore:  stores.recordStore,
			ChartStore:   stores.chartStore,
			InsightStore: stores.insightStore,
			Optimizer:    optimizer.New(optimizer.Options{Workers: *workers}),
		}),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go server.startHTTPServer(ctx)

	// Run the server
	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			recordStore:  memory.NewSimulationRecordStore(),
			chartStore:   memory.NewChartSeriesStore(),
			insightStore: memory.NewInsightStore(),
			tickerStore:  memory.NewTickerInfoStore(),
			closeStore:   memory.NewDailyCloseStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply postgres migrations: %w", err)
		}
	}

	// ClickHouse
	var chConn *chstore.Conn
	if migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		// PostgreSQL stores (records, insights, metadata)
		recordStore:  pgstore.NewSimulationRecordStore(pool),
		insightStore: pgstore.NewInsightStore(pool),
		tickerStore:  pgstore.NewTickerInfoStore(pool),

		// ClickHouse stores (chart series, close history)
		chartStore: chstore.NewChartSeriesStore(chConn),
		closeStore: chstore.NewDailyCloseStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// Run starts the sweep scheduler and blocks until cancellation or error.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting server...")
	if s.useMemory {
		s.logger.Println("Using in-memory storage, nothing survives a restart")
	}

	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()

	if s.stream != nil {
		if err := s.subscribeRegistered(ctx); err != nil {
			s.logger.Printf("Quote stream subscribe failed: %v", err)
		}
	}

	errCh := make(chan error, 1)

	if s.sweepInterval > 0 {
		go func() {
			err := s.runSweepScheduler(ctx)
			if err != nil && err != context.Canceled {
				errCh <- fmt.Errorf("sweep scheduler: %w", err)
			}
		}()
	} else {
		s.logger.Println("Scheduled sweep disabled")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// subscribeRegistered subscribes the quote stream to every registered
// ticker. Tickers registered later are picked up on restart.
func (s *Server) subscribeRegistered(ctx context.Context) error {
	tickers, err := s.stores.tickerStore.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list tickers: %w", err)
	}
	if len(tickers) == 0 {
		s.logger.Println("No registered tickers to subscribe")
		return nil
	}

	names := make([]string, 0, len(tickers))
	for _, info := range tickers {
		names = append(names, info.Ticker)
	}
	if err := s.stream.Subscribe(ctx, names...); err != nil {
		return err
	}
	s.logger.Printf("Subscribed to quotes for %d tickers", len(names))
	return nil
}

// runSweepScheduler runs the optimization sweep on schedule.
func (s *Server) runSweepScheduler(ctx context.Context) error {
	s.logger.Printf("Starting sweep scheduler (interval: %v)...", s.sweepInterval)

	// Run immediately on start
	s.runSweep(ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runSweep(ctx)
		}
	}
}

// runSweep optimizes every registered ticker with scalars from the
// market data provider. All runs share one sweep session ID.
func (s *Server) runSweep(ctx context.Context) {
	s.mu.Lock()
	if s.sweepRunning {
		s.mu.Unlock()
		s.logger.Println("Sweep already running, skipping...")
		return
	}
	s.sweepRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sweepRunning = false
		s.lastSweepRun = time.Now()
		s.sweepRuns++
		s.mu.Unlock()
	}()

	start := time.Now()
	sessionID := "sweep-" + start.UTC().Format("20060102-150405")

	tickers, err := s.stores.tickerStore.ListAll(ctx)
	if err != nil {
		s.logger.Printf("Sweep: list tickers: %v", err)
		return
	}
	if len(tickers) == 0 {
		s.logger.Println("Sweep: no registered tickers, skipping")
		return
	}

	s.logger.Printf("Sweep %s: optimizing %d tickers...", sessionID, len(tickers))

	var failures int
	for _, info := range tickers {
		if ctx.Err() != nil {
			return
		}

		snap, err := s.provider.Snapshot(ctx, info.Ticker)
		if err != nil {
			s.logger.Printf("Sweep: snapshot %s: %v", info.Ticker, err)
			failures++
			continue
		}

		runStart := time.Now()
		outcome, err := s.eng.OptimizeAndSimulate(ctx, engine.OptimizationRequest{
			SessionID:      sessionID,
			Ticker:         info.Ticker,
			InitialPrice:   snap.Price,
			Strategy:       s.sweepStrategy,
			Volatility:     snap.Volatility,
			Drift:          snap.Drift,
			NumSimulations: s.sweepSims,
			MinRewardRisk:  s.sweepMinRR,
		})
		if err != nil {
			if errors.Is(err, optimizer.ErrNoViableCandidate) {
				s.logger.Printf("Sweep: %s: %v", info.Ticker, err)
				observability.RecordOptimizationRun("no_viable", 0, time.Since(runStart).Seconds())
			} else {
				s.logger.Printf("Sweep: optimize %s: %v", info.Ticker, err)
				observability.RecordOptimizationRun("error", 0, time.Since(runStart).Seconds())
			}
			failures++
			continue
		}
		observability.RecordOptimizationRun("success", outcome.Scored, time.Since(runStart).Seconds())

		s.logger.Printf("Sweep: %s target=%.4f stop=%.4f win=%.4f ev=%.4f",
			info.Ticker, outcome.TargetPrice, outcome.StopLoss,
			outcome.Result.WinProbability, outcome.Result.ExpectedValue)
	}

	if failures == 0 {
		observability.MarkSweepSuccess()
	}
	s.logger.Printf("Sweep completed in %v: %d tickers, %d failures", time.Since(start), len(tickers), failures)
}

// startHTTPServer serves the API until the context is cancelled.
func (s *Server) startHTTPServer(ctx context.Context) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// API
	mux.HandleFunc("/simulate", s.handleSimulate)
	mux.HandleFunc("/optimize", s.handleOptimize)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/status", s.handleStatus)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Starting HTTP server on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// SimulateRequest is the JSON request for POST /simulate.
type SimulateRequest struct {
	SessionID      string  `json:"session_id"`
	Ticker         string  `json:"ticker"`
	Strategy       string  `json:"strategy"`
	EntryPrice     float64 `json:"entry_price"`
	TargetPrice    float64 `json:"target_price"`
	StopLoss       float64 `json:"stop_loss"`
	Volatility     float64 `json:"volatility"`
	Drift          float64 `json:"drift"`
	HorizonDays    int     `json:"horizon_days"`
	NumSimulations int     `json:"num_simulations"`
	Seed           *int64  `json:"seed,omitempty"`
}

// SimulateResponse is the JSON response for POST /simulate.
type SimulateResponse struct {
	RecordID  string         `json:"record_id"`
	SessionID string         `json:"session_id"`
	Result    ResultResponse `json:"result"`
}

// OptimizeRequest is the JSON request for POST /optimize.
type OptimizeRequest struct {
	SessionID      string  `json:"session_id"`
	Ticker         string  `json:"ticker"`
	Strategy       string  `json:"strategy"`
	EntryPrice     float64 `json:"entry_price"`
	Volatility     float64 `json:"volatility"`
	Drift          float64 `json:"drift"`
	NumSimulations int     `json:"num_simulations"`
	MinRewardRisk  float64 `json:"min_reward_risk"`
	Seed           *int64  `json:"seed,omitempty"`
}

// OptimizeResponse is the JSON response for POST /optimize.
type OptimizeResponse struct {
	RecordID         string         `json:"record_id"`
	SessionID        string         `json:"session_id"`
	TargetPrice      float64        `json:"target_price"`
	StopLoss         float64        `json:"stop_loss"`
	HorizonDays      int            `json:"horizon_days"`
	VolMultiplier    float64        `json:"vol_multiplier"`
	RewardRiskRatio  float64        `json:"reward_risk_ratio"`
	ScoredCandidates int            `json:"scored_candidates"`
	Result           ResultResponse `json:"result"`
	Verdict          string         `json:"verdict"`
	CriteriaPassed   int            `json:"criteria_passed"`
	CriteriaTotal    int            `json:"criteria_total"`
}

// ResultResponse carries the summary scalars of one run.
type ResultResponse struct {
	WinProbability     float64 `json:"win_probability"`
	RiskOfRuin         float64 `json:"risk_of_ruin"`
	ExpiredProbability float64 `json:"expired_probability"`
	AvgDaysToTarget    float64 `json:"avg_days_to_target"`
	MaximumDrawdown    float64 `json:"maximum_drawdown"`
	ExpectedValue      float64 `json:"expected_value"`
}

// SnapshotResponse is the JSON response for GET /snapshot.
type SnapshotResponse struct {
	Ticker     string  `json:"ticker"`
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	Drift      float64 `json:"drift"`
	Source     string  `json:"source"`
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	Started       time.Time `json:"started"`
	LastSweepRun  time.Time `json:"last_sweep_run,omitempty"`
	SweepRuns     int       `json:"sweep_runs"`
	SweepRunning  bool      `json:"sweep_running"`
	Simulations   int       `json:"simulations"`
	Optimizations int       `json:"optimizations"`
}

func newResultResponse(r domain.SimulationResult) ResultResponse {
	return ResultResponse{
		WinProbability:     r.WinProbability,
		RiskOfRuin:         r.RiskOfRuin,
		ExpiredProbability: r.ExpiredProbability,
		AvgDaysToTarget:    r.AvgDaysToTarget,
		MaximumDrawdown:    r.MaximumDrawdown,
		ExpectedValue:      r.ExpectedValue,
	}
}

// handleSimulate runs one fixed-level simulation.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	strategy, ok := domain.ParseStrategy(req.Strategy)
	if !ok {
		observability.RecordSimulationError("simulate", "validation")
		http.Error(w, "invalid strategy: must be LONG or SHORT", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = "api-" + time.Now().UTC().Format("20060102-150405")
	}

	start := time.Now()
	outcome, err := s.eng.RunSimulation(r.Context(), engine.SimulationRequest{
		SessionID:      req.SessionID,
		Ticker:         req.Ticker,
		InitialPrice:   req.EntryPrice,
		Strategy:       strategy,
		TargetPrice:    req.TargetPrice,
		StopLoss:       req.StopLoss,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    req.HorizonDays,
		NumSimulations: req.NumSimulations,
		Seed:           req.Seed,
	})
	if err != nil {
		observability.RecordSimulationError("simulate", "validation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	observability.RecordSimulationRun(string(strategy), false, req.NumSimulations, time.Since(start).Seconds())

	s.mu.Lock()
	s.simulations++
	s.mu.Unlock()

	writeJSON(w, SimulateResponse{
		RecordID:  outcome.RecordID,
		SessionID: req.SessionID,
		Result:    newResultResponse(outcome.Result),
	})
}

// handleOptimize discovers levels for the instrument, runs the detailed
// simulation and gates the winner through the entry criteria.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	strategy, ok := domain.ParseStrategy(req.Strategy)
	if !ok {
		observability.RecordSimulationError("optimize", "validation")
		http.Error(w, "invalid strategy: must be LONG or SHORT", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = "api-" + time.Now().UTC().Format("20060102-150405")
	}

	start := time.Now()
	outcome, err := s.eng.OptimizeAndSimulate(r.Context(), engine.OptimizationRequest{
		SessionID:      req.SessionID,
		Ticker:         req.Ticker,
		InitialPrice:   req.EntryPrice,
		Strategy:       strategy,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		NumSimulations: req.NumSimulations,
		MinRewardRisk:  req.MinRewardRisk,
		Seed:           req.Seed,
	})
	if err != nil {
		if errors.Is(err, optimizer.ErrNoViableCandidate) {
			observability.RecordOptimizationRun("no_viable", 0, time.Since(start).Seconds())
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		observability.RecordSimulationError("optimize", "validation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	observability.RecordOptimizationRun("success", outcome.Scored, time.Since(start).Seconds())

	s.mu.Lock()
	s.optimizations++
	s.mu.Unlock()

	// Gate the winner through the entry criteria
	dec := decision.NewEvaluator().Evaluate(domain.SimulationInputs{
		InitialPrice:   req.EntryPrice,
		Strategy:       strategy,
		TargetPrice:    outcome.TargetPrice,
		StopLoss:       outcome.StopLoss,
		Volatility:     req.Volatility,
		Drift:          req.Drift,
		HorizonDays:    outcome.HorizonDays,
		NumSimulations: req.NumSimulations,
	}, outcome.Result)

	writeJSON(w, OptimizeResponse{
		RecordID:         outcome.RecordID,
		SessionID:        req.SessionID,
		TargetPrice:      outcome.TargetPrice,
		StopLoss:         outcome.StopLoss,
		HorizonDays:      outcome.HorizonDays,
		VolMultiplier:    outcome.Candidate.VolMultiplier,
		RewardRiskRatio:  outcome.Candidate.RewardRiskRatio,
		ScoredCandidates: outcome.Scored,
		Result:           newResultResponse(outcome.Result),
		Verdict:          string(dec.Verdict),
		CriteriaPassed:   dec.Passed(),
		CriteriaTotal:    len(dec.Criteria),
	})
}

// handleSnapshot serves the provider's current scalars for a ticker.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker query parameter is required", http.StatusBadRequest)
		return
	}

	snap, err := s.provider.Snapshot(r.Context(), ticker)
	if err != nil {
		if errors.Is(err, marketdata.ErrNoHistory) || errors.Is(err, marketdata.ErrInsufficientHistory) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	source := "history"
	if s.stream != nil {
		if _, ok := s.stream.LastQuote(ticker); ok {
			source = "stream"
		}
	}
	observability.RecordSnapshotServed(source)

	writeJSON(w, SnapshotResponse{
		Ticker:     snap.Ticker,
		Price:      snap.Price,
		Volatility: snap.Volatility,
		Drift:      snap.Drift,
		Source:     source,
	})
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeJSON(w, StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).String(),
		Started:       s.started,
		LastSweepRun:  s.lastSweepRun,
		SweepRuns:     s.sweepRuns,
		SweepRunning:  s.sweepRunning,
		Simulations:   s.simulations,
		Optimizations: s.optimizations,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
