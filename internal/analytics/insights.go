package analytics

import "fmt"

type InsightType string

const (
	InsightSuccess InsightType = "success"
	InsightWarn    InsightType = "warn"
	InsightInfo    InsightType = "info"
)

type Insight struct {
	Type   InsightType `json:"type"`
	Title  string      `json:"title"`
	Detail string      `json:"detail"`
}

const MaxInsights = 8

const (
	lateRateWarnThreshold = 0.35
	lateRateMinCompleted  = 5
	strongStreakDays      = 5
)

// BuildInsights evaluates a fixed rule list in order. The list is truncated,
// never reordered.
func BuildInsights(s SummaryStats) []Insight {
	out := []Insight{}

	switch s.Health {
	case HealthOverloaded:
		out = append(out, Insight{
			Type:   InsightWarn,
			Title:  "Overloaded schedule",
			Detail: "You have a high daily workload. Focus on Line 1 tasks and reduce low-impact work.",
		})
	case HealthHeavy:
		out = append(out, Insight{
			Type:   InsightWarn,
			Title:  "Heavy workload",
			Detail: "Your schedule is heavy. Consider limiting Line 3 tasks to protect energy.",
		})
	default:
		out = append(out, Insight{
			Type:   InsightSuccess,
			Title:  "Workload is manageable",
			Detail: "Your workload is in a healthy range. Keep your pace stable.",
		})
	}

	if s.Timing.LateRate >= lateRateWarnThreshold && s.CompletedTotal >= lateRateMinCompleted {
		out = append(out, Insight{
			Type:   InsightWarn,
			Title:  "Late completion rate is high",
			Detail: "You often complete tasks late. Try doing Line 1 tasks earlier or reducing daily load.",
		})
	}

	switch {
	case s.Streak.Current >= strongStreakDays:
		out = append(out, Insight{
			Type:   InsightSuccess,
			Title:  "Strong streak",
			Detail: fmt.Sprintf("You’re on a %d-day streak. Consistency is building.", s.Streak.Current),
		})
	case s.Streak.Current == 0 && s.CompletedTotal > 0:
		out = append(out, Insight{
			Type:   InsightInfo,
			Title:  "No current streak",
			Detail: "Try completing at least one task per day to build consistency.",
		})
	}

	if s.Compensation.Behind() {
		out = append(out, Insight{
			Type:  InsightWarn,
			Title: "You’re falling behind the target",
			Detail: fmt.Sprintf("To reach %s%%, aim for %s tasks/day.",
				ToFixed(s.Compensation.TargetRate*100, 0), ToFixed(s.Compensation.RequiredPerDay, 1)),
		})
	}

	if len(s.ByTag) > 0 {
		best := s.ByTag[0]
		for _, t := range s.ByTag[1:] {
			if t.CompletionRate > best.CompletionRate {
				best = t
			}
		}
		out = append(out, Insight{
			Type:   InsightInfo,
			Title:  "Best-performing category",
			Detail: fmt.Sprintf(`"%s" has your highest completion rate. Apply similar structure to other categories.`, best.Label),
		})
	}

	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}
