package analytics

import (
	"time"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

const DefaultTargetRate = 0.8

type DashboardOptions struct {
	Mode       RangeMode
	Cursor     time.Time
	Now        time.Time
	Filters    Filters
	TargetRate float64
}

// Dashboard bundles every view the analytics page renders for one period.
type Dashboard struct {
	Mode          RangeMode      `json:"mode"`
	TodayKey      string         `json:"todayKey"`
	Filters       Filters        `json:"filters"`
	Range         Range          `json:"range"`
	PrevRange     Range          `json:"prevRange"`
	Days          []DayStats     `json:"days"`
	Summary       SummaryStats   `json:"summary"`
	PrevSummary   SummaryStats   `json:"prevSummary"`
	Compare       CompareStats   `json:"compare"`
	Forecast      ForecastStats  `json:"forecast"`
	WeekdayHabits []WeekdayHabit `json:"weekdayHabits"`
	Insights      []Insight      `json:"insights"`
	Report        string         `json:"report"`
}

// BuildDashboard computes the current and previous period with the same
// filters, then derives comparison, forecast, habits, insights and report.
// The forecast always looks at the week after Now, whatever the cursor.
func BuildDashboard(tasks []model.Task, opts DashboardOptions) Dashboard {
	if opts.Mode == "" {
		opts.Mode = ModeWeek
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Cursor.IsZero() {
		opts.Cursor = opts.Now
	}
	if opts.TargetRate <= 0 {
		opts.TargetRate = DefaultTargetRate
	}
	todayKey := datekey.ToLocalDateKey(opts.Now)
	sopts := SummaryOptions{TargetRate: opts.TargetRate, TodayKey: todayKey}

	r := ModeRange(opts.Mode, opts.Cursor)
	prev := PreviousRange(opts.Mode, r)

	days := BuildDayStats(tasks, r, opts.Filters)
	summary := ComputeSummary(days, sopts)
	prevSummary := ComputeSummary(BuildDayStats(tasks, prev, opts.Filters), sopts)

	return Dashboard{
		Mode:          opts.Mode,
		TodayKey:      todayKey,
		Filters:       opts.Filters,
		Range:         r,
		PrevRange:     prev,
		Days:          days,
		Summary:       summary,
		PrevSummary:   prevSummary,
		Compare:       ComputeCompare(summary, prevSummary),
		Forecast:      ComputeForecast(tasks, opts.Now),
		WeekdayHabits: ComputeWeekdayHabitConsistency(tasks),
		Insights:      BuildInsights(summary),
		Report:        BuildShareableReport(summary),
	}
}
