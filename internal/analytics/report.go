package analytics

import (
	"encoding/json"
	"fmt"
	"strings"
)

const ReportTitle = "Taskodo Analytics Report"

// BuildShareableReport renders a plain-text summary suitable for pasting.
func BuildShareableReport(s SummaryStats) string {
	lines := []string{
		ReportTitle,
		"",
		fmt.Sprintf("• Scheduled: %d", s.ScheduledTotal),
		fmt.Sprintf("• Completed: %d", s.CompletedTotal),
		fmt.Sprintf("• Completion: %d%%", percent(s.CompletionRate)),
		fmt.Sprintf("• Late rate: %d%%", percent(s.Timing.LateRate)),
		fmt.Sprintf("• Current streak: %d days", s.Streak.Current),
		fmt.Sprintf("• Productivity score: %d/100", s.Score),
		"",
		"Effort",
		fmt.Sprintf("• Scheduled: %d", s.Effort.Scheduled),
		fmt.Sprintf("• Completed: %d", s.Effort.Completed),
		fmt.Sprintf("• Effort completion: %d%%", percent(s.Effort.CompletionRate)),
	}

	if s.Compensation.Behind() {
		lines = append(lines,
			"",
			"Catch-up",
			fmt.Sprintf("• Needed: %d", s.Compensation.RemainingToTarget),
			fmt.Sprintf("• Days remaining: %d", s.Compensation.RemainingDays),
			fmt.Sprintf("• Required pace: %s tasks/day", ToFixed(s.Compensation.RequiredPerDay, 1)),
		)
	}

	return strings.Join(lines, "\n")
}

// ExportSummaryJSON is the indented JSON dump offered for download.
func ExportSummaryJSON(s SummaryStats) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func percent(rate float64) int {
	return int(roundHalfUp(rate * 100))
}
