package reporting

import (
	"fmt"
	"strings"

	"trade-sim-lab/internal/domain"
)

// RenderRecordsCSV renders stored runs with their verdicts as a CSV string.
func RenderRecordsCSV(rows []RecordRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("record_id,session_id,ticker,strategy,entry_price,target_price,stop_loss,")
	sb.WriteString("volatility,drift,horizon_days,num_simulations,optimized,")
	sb.WriteString("win_probability,risk_of_ruin,expired_probability,avg_days_to_target,")
	sb.WriteString("maximum_drawdown,expected_value,verdict,created_at_ms\n")

	// Rows
	for _, row := range rows {
		rec := row.Record
		verdict := ""
		if row.Decision != nil {
			verdict = string(row.Decision.Verdict)
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%t,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%d\n",
			rec.RecordID,
			rec.SessionID,
			rec.Ticker,
			rec.Strategy,
			rec.EntryPrice,
			rec.TargetPrice,
			rec.StopLoss,
			rec.Volatility,
			rec.Drift,
			rec.HorizonDays,
			rec.NumSimulations,
			rec.Optimized,
			rec.WinProbability,
			rec.RiskOfRuin,
			rec.ExpiredProbability,
			rec.AvgDaysToTarget,
			rec.MaximumDrawdown,
			rec.ExpectedValue,
			verdict,
			rec.CreatedAtMs,
		))
	}

	return sb.String()
}

// RenderChartCSV renders one record's percentile series as a CSV string.
// Sample paths are not exported; the percentile bands are what the
// charts plot.
func RenderChartCSV(chart domain.ChartData) string {
	var sb strings.Builder

	sb.WriteString("day,p5,p50,p95\n")
	for i, day := range chart.TimeIndex {
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f,%.6f\n", day, chart.P5[i], chart.P50[i], chart.P95[i]))
	}

	return sb.String()
}
