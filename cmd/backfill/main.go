package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/storage"
	chstore "trade-sim-lab/internal/storage/clickhouse"
	"trade-sim-lab/internal/storage/memory"
	"trade-sim-lab/internal/storage/migrations"
	pgstore "trade-sim-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	ticker := flag.String("ticker", "", "Instrument symbol (required)")
	csvPath := flag.String("csv", "", "Path to a date,close CSV file (required)")

	// Ticker registration. Setting --name also provisions the insight row
	// that OptimizeAndSimulate refreshes.
	name := flag.String("name", "", "Instrument name (registers the ticker when set)")
	region := flag.String("region", "", "Instrument region")
	sector := flag.String("sector", "", "Instrument sector")
	description := flag.String("description", "", "Instrument description")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (ticker metadata and insights)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (daily closes)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	migrate := flag.Bool("migrate", false, "Apply schema migrations before loading")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backfill] ", log.LstdFlags)

	// Validate required flags
	if *ticker == "" {
		logger.Fatal("--ticker is required")
	}
	if *csvPath == "" {
		logger.Fatal("--csv is required")
	}
	register := *name != ""

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

	// Parse the CSV before touching storage so bad input fails fast
	closes, err := parseCloses(*csvPath, *ticker)
	if err != nil {
		logger.Fatalf("parse %s: %v", *csvPath, err)
	}

	// Create stores
	var closeStore storage.DailyCloseStore
	var infoStore storage.TickerInfoStore
	var insightStore storage.InsightStore

	if *useMemory {
		closeStore = memory.NewDailyCloseStore()
		infoStore = memory.NewTickerInfoStore()
		insightStore = memory.NewInsightStore()
	} else {
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (daily closes)")
		}
		var conn *chstore.Conn
		if *migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		} else {
			conn, err = chstore.NewConn(ctx, *clickhouseDSN)
		}
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		closeStore = chstore.NewDailyCloseStore(conn)

		if register {
			if *postgresDSN == "" {
				logger.Fatal("--postgres-dsn is required with --name (ticker metadata and insights)")
			}
			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			if *migrate {
				if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
					logger.Fatalf("apply postgres migrations: %v", err)
				}
			}
			infoStore = pgstore.NewTickerInfoStore(pool)
			insightStore = pgstore.NewInsightStore(pool)
		}
	}

	logger.Printf("Loading %d closes for %s: %s to %s",
		len(closes), *ticker,
		time.UnixMilli(closes[0].TimestampMs).UTC().Format("2006-01-02"),
		time.UnixMilli(closes[len(closes)-1].TimestampMs).UTC().Format("2006-01-02"))

	if err := closeStore.InsertBulk(ctx, closes); err != nil {
		logger.Fatalf("insert closes: %v", err)
	}

	if register {
		info := &domain.TickerInfo{
			Ticker:      *ticker,
			Name:        *name,
			Region:      *region,
			Sector:      *sector,
			Description: *description,
		}
		lastClose := closes[len(closes)-1].Close
		registerTicker(ctx, logger, infoStore, insightStore, info, lastClose)
	}

	logger.Println("Backfill complete")
}

// parseCloses reads a date,close CSV file into daily close rows for the
// ticker, sorted by date ASC. A header row is skipped when its second
// column is not numeric. Dates are treated as UTC midnight.
func parseCloses(path, ticker string) ([]*domain.DailyClose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	closes := make([]*domain.DailyClose, 0, len(rows))
	for i, row := range rows {
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: parse close %q: %v", i+1, row[1], err)
		}
		day, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse date %q: %v", i+1, row[0], err)
		}
		closes = append(closes, &domain.DailyClose{
			Ticker:      ticker,
			TimestampMs: day.UnixMilli(),
			Close:       price,
		})
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("no close rows")
	}

	sort.Slice(closes, func(i, j int) bool {
		return closes[i].TimestampMs < closes[j].TimestampMs
	})
	return closes, nil
}

// registerTicker inserts instrument metadata and provisions the insight
// row the optimizer refreshes. Both steps tolerate an already-registered
// ticker.
func registerTicker(ctx context.Context, logger *log.Logger, infoStore storage.TickerInfoStore, insightStore storage.InsightStore, info *domain.TickerInfo, lastClose float64) {
	err := infoStore.Insert(ctx, info)
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		logger.Printf("Ticker %s already registered, metadata unchanged", info.Ticker)
	case err != nil:
		logger.Fatalf("insert ticker metadata: %v", err)
	default:
		logger.Printf("Registered ticker %s (%s)", info.Ticker, info.Name)
	}

	// Entry at the latest close; levels stay zero until the first
	// optimization refreshes them.
	ins := &domain.InsightRecord{
		Ticker:      info.Ticker,
		Direction:   domain.StrategyLong,
		EntryPrice:  lastClose,
		UpdatedAtMs: time.Now().UnixMilli(),
	}
	err = insightStore.Insert(ctx, ins)
	switch {
	case errors.Is(err, storage.ErrDuplicateKey):
		logger.Printf("Insight row for %s exists, leaving levels in place", info.Ticker)
	case err != nil:
		logger.Fatalf("insert insight row: %v", err)
	default:
		logger.Printf("Provisioned insight row for %s", info.Ticker)
	}
}
