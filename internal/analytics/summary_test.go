package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/model"
)

// sampleWeek is Thu 2026-01-01 through Wed 2026-01-07 with two tasks: a
// daily line 1 task of effort 3 and a ranged line 2 task from Sun to Tue.
func sampleWeek() ([]model.Task, Range) {
	work := everyDay("work", model.Line1,
		onTime("2026-01-01"), late("2026-01-02"), onTime("2026-01-03"), onTime("2026-01-05"))
	work.Effort = 3
	work.Tags = []model.Tag{{ID: "work", Label: "Work"}}

	home := model.Task{
		ID:         "home",
		Title:      "home",
		Line:       model.Line2,
		Tags:       []model.Tag{{ID: "home", Label: "Home"}},
		Checked:    []model.CheckEntry{late("2026-01-04")},
		Recurrence: model.Ranged{StartKey: "2026-01-04", EndKey: "2026-01-06"},
	}

	return []model.Task{work, home}, BuildRange(day(2026, 1, 1), day(2026, 1, 7))
}

func TestComputeSummary_SampleWeek(t *testing.T) {
	tasks, r := sampleWeek()
	s := ComputeSummary(BuildDayStats(tasks, r, Filters{}), SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

	assert.Equal(t, 10, s.ScheduledTotal)
	assert.Equal(t, 5, s.CompletedTotal)
	assert.Equal(t, 5, s.UnfinishedTotal)
	assert.InDelta(t, 0.5, s.CompletionRate, 1e-9)

	assert.Equal(t, 24, s.Effort.Scheduled)
	assert.Equal(t, 13, s.Effort.Completed)
	assert.Equal(t, 11, s.Effort.Unfinished)
	assert.InDelta(t, 13.0/24.0, s.Effort.CompletionRate, 1e-9)

	assert.Equal(t, Timing{Late: 2, Early: 0, OnTime: 3, LateRate: 0.4}, s.Timing)
	assert.InDelta(t, 5.0/7.0, s.AvgCompletedPerDay, 1e-9)
	assert.Equal(t, Streak{Current: 5, Longest: 5}, s.Streak)
	assert.Equal(t, &ProductiveDay{DateKey: "2026-01-01", Completed: 1}, s.MostProductiveDay)
	assert.Equal(t, map[model.Line]int{model.Line1: 4, model.Line2: 1, model.Line3: 0}, s.ByLineCompleted)

	require.Len(t, s.ByTag, 2)
	assert.Equal(t, "work", s.ByTag[0].TagID)
	assert.Equal(t, 7, s.ByTag[0].Scheduled)
	assert.Equal(t, 4, s.ByTag[0].Completed)
	assert.Equal(t, "home", s.ByTag[1].TagID)
	assert.InDelta(t, 1.0, s.ByTag[1].LateRate, 1e-9)

	assert.InDelta(t, 0.4517540, s.ConsistencyStdDev, 1e-6)
	assert.Equal(t, 39, s.Score)
	assert.Equal(t, HealthLight, s.Health)

	assert.Equal(t, Compensation{
		TargetRate:           0.8,
		TargetCompletedTotal: 8,
		RemainingToTarget:    3,
		RemainingDays:        3,
		RequiredPerDay:       1,
	}, s.Compensation)
}

func TestComputeSummary_TotalsMatchDaySums(t *testing.T) {
	tasks, r := sampleWeek()
	for _, f := range []Filters{{}, {Line: model.Line1}, {TagID: "home"}, {CompletedOnly: true}} {
		days := BuildDayStats(tasks, r, f)
		s := ComputeSummary(days, SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

		var scheduled, completed, effortScheduled, effortCompleted int
		for _, d := range days {
			scheduled += d.Counts.Scheduled
			completed += d.Counts.Completed
			effortScheduled += d.Effort.Scheduled
			effortCompleted += d.Effort.Completed
			assert.LessOrEqual(t, d.Counts.Completed, d.Counts.Scheduled)
			assert.Equal(t, d.Counts.Completed, d.Counts.Late+d.Counts.Early+d.Counts.OnTime)
		}

		assert.Equal(t, scheduled, s.ScheduledTotal, "%+v", f)
		assert.Equal(t, completed, s.CompletedTotal, "%+v", f)
		assert.Equal(t, effortScheduled, s.Effort.Scheduled, "%+v", f)
		assert.Equal(t, effortCompleted, s.Effort.Completed, "%+v", f)
		assert.GreaterOrEqual(t, s.CompletionRate, 0.0)
		assert.LessOrEqual(t, s.CompletionRate, 1.0)
		assert.LessOrEqual(t, s.Streak.Current, s.Streak.Longest)
	}
}

func TestComputeSummary_Empty(t *testing.T) {
	s := ComputeSummary(nil, SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

	assert.Equal(t, 0, s.ScheduledTotal)
	assert.Equal(t, 0.0, s.CompletionRate)
	assert.Equal(t, 0.0, s.Timing.LateRate)
	assert.Nil(t, s.MostProductiveDay)
	assert.Empty(t, s.ByTag)
	assert.Equal(t, HealthLight, s.Health)
	assert.Equal(t, 0, s.Score)
	assert.False(t, s.Compensation.Behind())
}

func TestComputeCompensation(t *testing.T) {
	c := ComputeCompensation(0.8, 10, 6, "2026-01-06", "2026-01-07")
	assert.Equal(t, 8, c.TargetCompletedTotal)
	assert.Equal(t, 2, c.RemainingToTarget)
	assert.Equal(t, 2, c.RemainingDays)
	assert.InDelta(t, 1.0, c.RequiredPerDay, 1e-9)
	assert.True(t, c.Behind())

	ahead := ComputeCompensation(0.8, 10, 9, "2026-01-06", "2026-01-07")
	assert.Equal(t, 0, ahead.RemainingToTarget)
	assert.False(t, ahead.Behind())

	// today after the range: the whole remainder is due at once.
	past := ComputeCompensation(0.5, 10, 2, "2026-02-01", "2026-01-07")
	assert.Equal(t, 5, past.TargetCompletedTotal)
	assert.Equal(t, 3, past.RemainingToTarget)
	assert.Equal(t, 0, past.RemainingDays)
	assert.InDelta(t, 3.0, past.RequiredPerDay, 1e-9)
	assert.False(t, past.Behind())
}

func TestComputeCompare(t *testing.T) {
	cur := SummaryStats{ScheduledTotal: 10, CompletedTotal: 7, CompletionRate: 0.7, Timing: Timing{LateRate: 0.1}, Streak: Streak{Current: 4}}
	prev := SummaryStats{ScheduledTotal: 12, CompletedTotal: 6, CompletionRate: 0.5, Timing: Timing{LateRate: 0.3}, Streak: Streak{Current: 1}}

	got := ComputeCompare(cur, prev)
	assert.Equal(t, -2, got.ScheduledDelta)
	assert.Equal(t, 1, got.CompletedDelta)
	assert.InDelta(t, 0.2, got.CompletionRateDelta, 1e-9)
	assert.InDelta(t, -0.2, got.LateRateDelta, 1e-9)
	assert.Equal(t, 3, got.StreakDelta)
}

func TestBuildInsights_SampleWeek(t *testing.T) {
	tasks, r := sampleWeek()
	s := ComputeSummary(BuildDayStats(tasks, r, Filters{}), SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

	got := BuildInsights(s)
	require.Len(t, got, 5)

	assert.Equal(t, Insight{Type: InsightSuccess, Title: "Workload is manageable", Detail: "Your workload is in a healthy range. Keep your pace stable."}, got[0])
	assert.Equal(t, "Late completion rate is high", got[1].Title)
	assert.Equal(t, InsightWarn, got[1].Type)
	assert.Equal(t, "You’re on a 5-day streak. Consistency is building.", got[2].Detail)
	assert.Equal(t, Insight{Type: InsightWarn, Title: "You’re falling behind the target", Detail: "To reach 80%, aim for 1.0 tasks/day."}, got[3])
	assert.Equal(t, `"Work" has your highest completion rate. Apply similar structure to other categories.`, got[4].Detail)
}

func TestBuildInsights_HealthAndStreakVariants(t *testing.T) {
	over := BuildInsights(SummaryStats{Health: HealthOverloaded})
	require.Len(t, over, 1)
	assert.Equal(t, "Overloaded schedule", over[0].Title)

	heavy := BuildInsights(SummaryStats{Health: HealthHeavy, CompletedTotal: 3})
	require.Len(t, heavy, 2)
	assert.Equal(t, "Heavy workload", heavy[0].Title)
	assert.Equal(t, Insight{Type: InsightInfo, Title: "No current streak", Detail: "Try completing at least one task per day to build consistency."}, heavy[1])

	// a high late rate is ignored below five completions.
	few := BuildInsights(SummaryStats{Health: HealthLight, CompletedTotal: 4, Timing: Timing{LateRate: 0.9}, Streak: Streak{Current: 2}})
	require.Len(t, few, 1)
}

func TestBuildInsights_BestTagKeepsFirstOnTies(t *testing.T) {
	s := SummaryStats{
		Health: HealthLight,
		ByTag: []TagStat{
			{TagID: "a", Label: "Alpha", CompletionRate: 0.5},
			{TagID: "b", Label: "Beta", CompletionRate: 0.5},
			{TagID: "c", Label: "Gamma", CompletionRate: 0.25},
		},
	}
	got := BuildInsights(s)
	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[1].Detail, `"Alpha"`))
	assert.LessOrEqual(t, len(got), MaxInsights)
}

func TestBuildShareableReport(t *testing.T) {
	tasks, r := sampleWeek()
	s := ComputeSummary(BuildDayStats(tasks, r, Filters{}), SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

	want := strings.Join([]string{
		"Taskodo Analytics Report",
		"",
		"• Scheduled: 10",
		"• Completed: 5",
		"• Completion: 50%",
		"• Late rate: 40%",
		"• Current streak: 5 days",
		"• Productivity score: 39/100",
		"",
		"Effort",
		"• Scheduled: 24",
		"• Completed: 13",
		"• Effort completion: 54%",
		"",
		"Catch-up",
		"• Needed: 3",
		"• Days remaining: 3",
		"• Required pace: 1.0 tasks/day",
	}, "\n")
	assert.Equal(t, want, BuildShareableReport(s))
}

func TestBuildShareableReport_NoCatchUpWhenOnTarget(t *testing.T) {
	report := BuildShareableReport(SummaryStats{ScheduledTotal: 2, CompletedTotal: 2, CompletionRate: 1})
	assert.NotContains(t, report, "Catch-up")
	assert.Contains(t, report, "• Completion: 100%")
}

func TestCatchUpTextRoundsHalvesUp(t *testing.T) {
	// one task short with four days left is 0.25/day
	c := ComputeCompensation(0.8, 10, 7, "2026-01-04", "2026-01-07")
	require.Equal(t, 1, c.RemainingToTarget)
	require.Equal(t, 4, c.RemainingDays)

	report := BuildShareableReport(SummaryStats{ScheduledTotal: 10, CompletedTotal: 7, Compensation: c})
	assert.Contains(t, report, "• Required pace: 0.3 tasks/day")
	assert.Contains(t, catchUpDetail(t, SummaryStats{Compensation: c}), "To reach 80%, aim for 0.3 tasks/day.")

	low := ComputeCompensation(0.125, 8, 0, "2026-01-04", "2026-01-07")
	assert.Equal(t, "To reach 13%, aim for 0.3 tasks/day.", catchUpDetail(t, SummaryStats{Compensation: low}))
}

func catchUpDetail(t *testing.T, s SummaryStats) string {
	t.Helper()
	for _, in := range BuildInsights(s) {
		if strings.HasPrefix(in.Detail, "To reach") {
			return in.Detail
		}
	}
	t.Fatalf("no catch-up insight in %+v", BuildInsights(s))
	return ""
}

func TestRoundHalfUp(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{
		{2.5, 3},
		{-2.5, -2},
		{0.49999999999999994, 0},
		{1.4, 1},
		{-0.6, -1},
	} {
		assert.Equal(t, c.want, roundHalfUp(c.in), "%v", c.in)
	}
	assert.Equal(t, "0.3", ToFixed(0.25, 1))
	assert.Equal(t, "13", ToFixed(12.5, 0))
	assert.Equal(t, "1.0", ToFixed(1, 1))
}

func TestExportSummaryJSON(t *testing.T) {
	tasks, r := sampleWeek()
	s := ComputeSummary(BuildDayStats(tasks, r, Filters{}), SummaryOptions{TargetRate: 0.8, TodayKey: "2026-01-05"})

	b, err := ExportSummaryJSON(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n  \"scheduledTotal\": 10,")

	var back map[string]any
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, float64(39), back["score"])
	assert.Equal(t, "light", back["health"])
}

func TestBuildDashboard_Deterministic(t *testing.T) {
	tasks, _ := sampleWeek()
	opts := DashboardOptions{
		Mode:   ModeWeek,
		Cursor: day(2026, 1, 5),
		Now:    time.Date(2026, 1, 5, 12, 0, 0, 0, time.Local),
	}

	a := BuildDashboard(tasks, opts)
	b := BuildDashboard(tasks, opts)
	assert.Equal(t, a, b)

	assert.Equal(t, "2026-01-05", a.TodayKey)
	assert.Equal(t, "2026-01-04", a.Range.FromKey)
	assert.Equal(t, "2026-01-10", a.Range.ToKey)
	assert.Equal(t, "2025-12-28", a.PrevRange.FromKey)
	assert.Len(t, a.Days, 7)
	assert.Equal(t, "2026-01-11", a.Forecast.Range.FromKey)
	assert.Len(t, a.WeekdayHabits, 7)
	assert.Equal(t, a.Summary.ScheduledTotal-a.PrevSummary.ScheduledTotal, a.Compare.ScheduledDelta)
	assert.Equal(t, BuildShareableReport(a.Summary), a.Report)
	assert.InDelta(t, DefaultTargetRate, a.Summary.Compensation.TargetRate, 1e-9)
}

func TestBuildDashboard_DoesNotMutateTasks(t *testing.T) {
	tasks, _ := sampleWeek()
	before := make([]model.Task, len(tasks))
	for i, task := range tasks {
		before[i] = task.Clone()
	}

	BuildDashboard(tasks, DashboardOptions{Mode: ModeMonth, Now: day(2026, 1, 5), Filters: Filters{CompletedOnly: true}})
	assert.Equal(t, before, tasks)
}
