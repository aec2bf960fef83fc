package clickhouse

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a ClickHouse container and returns a connection.
// Returns a cleanup function that must be called when done.
func setupTestDB(t *testing.T) (*Conn, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start ClickHouse container
	req := testcontainers.ContainerRequest{
		Image:        "clickhouse/clickhouse-server:24.1-alpine",
		ExposedPorts: []string{"9000/tcp", "8123/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Application: Ready for connections").
				WithStartupTimeout(60 * time.Second),
			wait.ForListeningPort("9000/tcp"),
		),
		Env: map[string]string{
			"CLICKHOUSE_DB":       "test",
			"CLICKHOUSE_USER":     "default",
			"CLICKHOUSE_PASSWORD": "",
		},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	// Get native port (9000)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	dsn := fmt.Sprintf("clickhouse://%s:%s/test", host, port.Port())

	// Connect to ClickHouse
	conn, err := NewConn(ctx, dsn)
	require.NoError(t, err)

	// Run migrations
	runMigrations(t, conn)

	cleanup := func() {
		conn.Close()
		_ = container.Terminate(ctx)
	}

	return conn, cleanup
}

// runMigrations applies all SQL migrations from internal/storage/migrations/clickhouse/
func runMigrations(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	migrations := []string{
		"001_chart_series.sql",
		"002_daily_closes.sql",
	}

	// Try to find the migrations directory
	basePath := findSQLDir()

	for _, m := range migrations {
		path := basePath + "/" + m
		content, err := os.ReadFile(path)
		if err != nil {
			t.Logf("Could not read migration %s: %v, trying inline migrations", m, err)
			// Fall back to inline migrations
			runInlineMigrations(t, conn)
			return
		}

		for _, stmt := range splitStatements(string(content)) {
			err = conn.Exec(ctx, stmt)
			require.NoError(t, err, "failed to apply migration %s", m)
		}
	}
}

// findSQLDir attempts to locate the migrations/clickhouse directory
func findSQLDir() string {
	paths := []string{
		"../migrations/clickhouse",
		"internal/storage/migrations/clickhouse",
		"./internal/storage/migrations/clickhouse",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Default path
	return "../migrations/clickhouse"
}

// splitStatements splits a migration file into individual statements.
// The ClickHouse driver doesn't support multiquery in Exec.
func splitStatements(content string) []string {
	var filtered []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		filtered = append(filtered, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(filtered, "\n"), ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// runInlineMigrations applies migrations directly without reading files
func runInlineMigrations(t *testing.T, conn *Conn) {
	t.Helper()
	ctx := context.Background()

	// 001_chart_series.sql
	err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chart_percentiles (
			record_id           String,
			day                 UInt32,
			p5                  Float64,
			p50                 Float64,
			p95                 Float64
		) ENGINE = MergeTree()
		ORDER BY (record_id, day)
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)

	err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chart_sample_paths (
			record_id           String,
			path_index          UInt32,
			day                 UInt32,
			price               Float64
		) ENGINE = MergeTree()
		ORDER BY (record_id, path_index, day)
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)

	// 002_daily_closes.sql
	err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS daily_closes (
			ticker              String,
			timestamp_ms        UInt64,
			close               Float64
		) ENGINE = MergeTree()
		ORDER BY (ticker, timestamp_ms)
		SETTINGS index_granularity = 8192
	`)
	require.NoError(t, err)
}
