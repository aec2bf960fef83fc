package decision

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders a Result as a Markdown string.
func RenderMarkdown(result *Result) string {
	var sb strings.Builder

	// Verdict header
	sb.WriteString("# Entry Decision\n\n")
	sb.WriteString(fmt.Sprintf("## Verdict: %s\n\n", result.Verdict))

	// Criteria table
	sb.WriteString("## Entry Criteria\n\n")
	sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
	sb.WriteString("|---|-----------|-----------|--------|------|\n")
	for i, c := range result.Criteria {
		passStr := "PASS"
		if !c.Pass {
			passStr = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, passStr))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Criteria: %d/%d passed\n\n", result.Passed(), len(result.Criteria)))

	// Summary
	sb.WriteString("## Summary\n\n")
	if result.Verdict == VerdictTrade {
		sb.WriteString("All entry criteria passed.\n")
	} else {
		sb.WriteString("Verdict is NO-TRADE due to:\n")
		for _, c := range result.Criteria {
			if !c.Pass {
				sb.WriteString(fmt.Sprintf("- Criterion failed: %s (actual: %s)\n", c.Name, c.Actual))
			}
		}
	}

	return sb.String()
}
