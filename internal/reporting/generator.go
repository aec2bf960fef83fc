package reporting

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"trade-sim-lab/internal/backtest"
	"trade-sim-lab/internal/decision"
	"trade-sim-lab/internal/domain"
	"trade-sim-lab/internal/metrics"
	"trade-sim-lab/internal/storage"
)

// Generator produces reports from stored data. The chart and close
// stores are optional; nil skips the chart export and the backtest
// cross-check respectively.
type Generator struct {
	records storage.SimulationRecordStore
	charts  storage.ChartSeriesStore
	closes  storage.DailyCloseStore
	eval    *decision.Evaluator
	now     func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	records storage.SimulationRecordStore,
	charts storage.ChartSeriesStore,
	closes storage.DailyCloseStore,
) *Generator {
	return &Generator{
		records: records,
		charts:  charts,
		closes:  closes,
		eval:    decision.NewEvaluator(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithEvaluator overrides the default entry-gate thresholds.
func (g *Generator) WithEvaluator(eval *decision.Evaluator) *Generator {
	g.eval = eval
	return g
}

// GenerateSession assembles the report for every record in a session.
// An unknown session yields an empty report, not an error.
func (g *Generator) GenerateSession(ctx context.Context, sessionID string) (*Report, error) {
	recs, err := g.records.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session records: %w", err)
	}

	report, err := g.assemble(ctx, recs)
	if err != nil {
		return nil, err
	}
	report.SessionID = sessionID
	return report, nil
}

// GenerateTicker assembles the report for every record of one ticker.
func (g *Generator) GenerateTicker(ctx context.Context, ticker string) (*Report, error) {
	recs, err := g.records.ListByTicker(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("list ticker records: %w", err)
	}

	report, err := g.assemble(ctx, recs)
	if err != nil {
		return nil, err
	}
	report.Ticker = ticker
	return report, nil
}

// assemble builds the report body from an already-loaded record set.
func (g *Generator) assemble(ctx context.Context, recs []*domain.SimulationRecord) (*Report, error) {
	// Stores return created_at order already; re-sort with a record_id
	// tie-break so rendering does not depend on insert order.
	sorted := make([]*domain.SimulationRecord, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].CreatedAtMs != sorted[j].CreatedAtMs {
			return sorted[i].CreatedAtMs < sorted[j].CreatedAtMs
		}
		return sorted[i].RecordID < sorted[j].RecordID
	})

	rows := make([]RecordRow, len(sorted))
	for i, rec := range sorted {
		in, res := decision.FromRecord(rec)
		rows[i] = RecordRow{Record: rec, Decision: g.eval.Evaluate(in, res)}
	}

	report := &Report{
		GeneratedAt: g.now(),
		Records:     rows,
		Aggregates:  metrics.AggregateRecords(sorted),
	}

	if g.closes != nil {
		backtests, err := g.generateBacktests(ctx, sorted)
		if err != nil {
			return nil, err
		}
		report.Backtests = backtests
	}

	if g.charts != nil {
		charts, err := g.generateCharts(ctx, sorted)
		if err != nil {
			return nil, err
		}
		report.Charts = charts
	}

	return report, nil
}

// generateBacktests replays each record's levels against the close
// history recorded after the run. Records with no later closes are
// skipped; there is nothing realized to compare against.
func (g *Generator) generateBacktests(ctx context.Context, recs []*domain.SimulationRecord) ([]BacktestRow, error) {
	runner := backtest.NewRunner(g.closes)

	var rows []BacktestRow
	for _, rec := range recs {
		levels := backtest.Levels{
			Strategy:    rec.Strategy,
			EntryPrice:  rec.EntryPrice,
			TargetPrice: rec.TargetPrice,
			StopLoss:    rec.StopLoss,
		}
		res, err := runner.Run(ctx, rec.Ticker, levels, rec.CreatedAtMs, math.MaxInt64)
		if err != nil {
			return nil, fmt.Errorf("backtest record %s: %w", rec.RecordID, err)
		}
		if res.DaysReplayed == 0 {
			continue
		}
		rows = append(rows, BacktestRow{
			RecordID:          rec.RecordID,
			SimWinProbability: rec.WinProbability,
			Realized:          res,
		})
	}
	return rows, nil
}

// generateCharts loads persisted percentile series. Records without
// chart rows are skipped.
func (g *Generator) generateCharts(ctx context.Context, recs []*domain.SimulationRecord) ([]ChartRow, error) {
	var rows []ChartRow
	for _, rec := range recs {
		chart, err := g.charts.GetChart(ctx, rec.RecordID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load chart for record %s: %w", rec.RecordID, err)
		}
		rows = append(rows, ChartRow{RecordID: rec.RecordID, Chart: *chart})
	}
	return rows, nil
}

// WriteFiles renders the report into outputDir and returns the written
// paths: REPORT.md, simulation_records.csv, and one chart CSV per
// record with persisted series.
func (g *Generator) WriteFiles(report *Report, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	var written []string

	reportPath := filepath.Join(outputDir, "REPORT.md")
	if err := os.WriteFile(reportPath, []byte(RenderMarkdown(report)), 0644); err != nil {
		return nil, err
	}
	written = append(written, reportPath)

	csvPath := filepath.Join(outputDir, "simulation_records.csv")
	if err := os.WriteFile(csvPath, []byte(RenderRecordsCSV(report.Records)), 0644); err != nil {
		return nil, err
	}
	written = append(written, csvPath)

	for _, c := range report.Charts {
		chartPath := filepath.Join(outputDir, fmt.Sprintf("chart_%s.csv", c.RecordID))
		if err := os.WriteFile(chartPath, []byte(RenderChartCSV(c.Chart)), 0644); err != nil {
			return nil, err
		}
		written = append(written, chartPath)
	}

	return written, nil
}
