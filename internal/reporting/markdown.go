package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"trade-sim-lab/internal/domain"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Simulation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.SessionID != "" {
		sb.WriteString(fmt.Sprintf("Session: %s\n\n", r.SessionID))
	}
	if r.Ticker != "" {
		sb.WriteString(fmt.Sprintf("Ticker: %s\n\n", r.Ticker))
	}
	sb.WriteString(fmt.Sprintf("Records: %d\n\n", len(r.Records)))

	// Inputs
	sb.WriteString("## Simulation Inputs\n\n")
	if len(r.Records) > 0 {
		sb.WriteString("| Record | Ticker | Strategy | Entry | Target | Stop | Volatility | Drift | Horizon | Sims | Optimized |\n")
		sb.WriteString("|--------|--------|----------|-------|--------|------|------------|-------|---------|------|-----------|\n")
		for _, row := range r.Records {
			rec := row.Record
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %.2f | %.2f | %.4f | %.4f | %d | %d | %t |\n",
				rec.RecordID, rec.Ticker, rec.Strategy,
				rec.EntryPrice, rec.TargetPrice, rec.StopLoss,
				rec.Volatility, rec.Drift, rec.HorizonDays, rec.NumSimulations, rec.Optimized))
		}
	} else {
		sb.WriteString("No simulation records available.\n")
	}
	sb.WriteString("\n")

	// Results
	sb.WriteString("## Simulation Results\n\n")
	if len(r.Records) > 0 {
		sb.WriteString("| Record | Win Prob | Risk of Ruin | Expired | Avg Days to Target | Max Drawdown | Expected Value | Verdict |\n")
		sb.WriteString("|--------|----------|--------------|---------|--------------------|--------------|----------------|--------|\n")
		for _, row := range r.Records {
			rec := row.Record
			verdict := ""
			if row.Decision != nil {
				verdict = string(row.Decision.Verdict)
			}
			sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %.1f | %.4f | %.4f | %s |\n",
				rec.RecordID, rec.WinProbability, rec.RiskOfRuin, rec.ExpiredProbability,
				rec.AvgDaysToTarget, rec.MaximumDrawdown, rec.ExpectedValue, verdict))
		}
	} else {
		sb.WriteString("No simulation records available.\n")
	}
	sb.WriteString("\n")

	// Entry decisions
	sb.WriteString("## Entry Decisions\n\n")
	if len(r.Records) > 0 {
		sb.WriteString("| Record | Verdict | Criteria | Failed |\n")
		sb.WriteString("|--------|---------|----------|--------|\n")
		for _, row := range r.Records {
			if row.Decision == nil {
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d/%d | %s |\n",
				row.Record.RecordID, row.Decision.Verdict,
				row.Decision.Passed(), len(row.Decision.Criteria),
				failedCriteria(row)))
		}
	} else {
		sb.WriteString("No entry decisions available.\n")
	}
	sb.WriteString("\n")

	// Optimization context
	sb.WriteString("## Optimization Context\n\n")
	optimized := optimizedRecords(r.Records)
	if len(optimized) > 0 {
		sb.WriteString("Levels chosen by grid search over volatility multipliers and reward/risk ratios.\n\n")
		sb.WriteString("| Record | Ticker | Target | Stop | Reward/Risk | Expected Value |\n")
		sb.WriteString("|--------|--------|--------|------|-------------|----------------|\n")
		for _, rec := range optimized {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %.2f | %.4f |\n",
				rec.RecordID, rec.Ticker, rec.TargetPrice, rec.StopLoss,
				rewardRiskRatio(rec), rec.ExpectedValue))
		}
	} else {
		sb.WriteString("No optimized runs in scope.\n")
	}
	sb.WriteString("\n")

	// Ticker aggregates
	sb.WriteString("## Ticker Aggregates\n\n")
	if len(r.Aggregates) > 0 {
		sb.WriteString("| Ticker | Runs | Optimized | Mean Win Prob | Mean EV | Best Record | Best EV |\n")
		sb.WriteString("|--------|------|-----------|---------------|---------|-------------|--------|\n")
		for _, agg := range r.Aggregates {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.4f | %s | %.4f |\n",
				agg.Ticker, agg.TotalRuns, agg.OptimizedRuns,
				agg.MeanWinProbability, agg.MeanExpectedValue,
				agg.BestRecordID, agg.BestExpectedValue))
		}
	} else {
		sb.WriteString("No ticker aggregates available.\n")
	}
	sb.WriteString("\n")

	// Backtest cross-check
	sb.WriteString("## Backtest Cross-Check\n\n")
	if len(r.Backtests) > 0 {
		sb.WriteString("| Record | Ticker | Sim Win Prob | Realized Outcome | Payoff | Hit Day | Days Replayed |\n")
		sb.WriteString("|--------|--------|--------------|------------------|--------|---------|---------------|\n")
		for _, b := range r.Backtests {
			hitDay := "-"
			if b.Realized.DayOfHit != domain.NoHitDay {
				hitDay = fmt.Sprintf("%d", b.Realized.DayOfHit)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %.4f | %s | %.4f | %s | %d |\n",
				b.RecordID, b.Realized.Ticker, b.SimWinProbability,
				b.Realized.Outcome, b.Realized.Payoff, hitDay, b.Realized.DaysReplayed))
		}
	} else {
		sb.WriteString("No close history to backtest.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// failedCriteria joins the names of failed criteria, "-" when none.
func failedCriteria(row RecordRow) string {
	var failed []string
	for _, c := range row.Decision.Criteria {
		if !c.Pass {
			failed = append(failed, c.Name)
		}
	}
	if len(failed) == 0 {
		return "-"
	}
	return strings.Join(failed, ", ")
}

// optimizedRecords filters rows down to optimizer-produced runs.
func optimizedRecords(rows []RecordRow) []*domain.SimulationRecord {
	var out []*domain.SimulationRecord
	for _, row := range rows {
		if row.Record.Optimized {
			out = append(out, row.Record)
		}
	}
	return out
}

// rewardRiskRatio mirrors the entry-gate ratio for display.
func rewardRiskRatio(rec *domain.SimulationRecord) float64 {
	risk := math.Abs(rec.EntryPrice - rec.StopLoss)
	if risk == 0 {
		return 0
	}
	return math.Abs(rec.TargetPrice-rec.EntryPrice) / risk
}
