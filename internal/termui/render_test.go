package termui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"taskodo/internal/analytics"
	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

func init() {
	color.NoColor = true
}

func sampleBoard() []model.Task {
	return []model.Task{
		{ID: "a", Title: "Write", Line: model.Line1,
			Tags:       []model.Tag{{ID: "work", Label: "Work"}},
			Recurrence: model.Weekly{Days: datekey.Week[:]},
			Checked:    []model.CheckEntry{{Date: "2026-01-04"}, {Date: "2026-01-05"}}},
		{ID: "b", Title: "Stretch", Line: model.Line3,
			Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Monday}}},
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", Bar(0.5, 10))
	assert.Equal(t, "██████████", Bar(1.7, 10))
	assert.Equal(t, "░░░░", Bar(-1, 4))
	assert.Equal(t, "", Bar(0.5, 0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50%", Percent(0.5))
	assert.Equal(t, "67%", Percent(2.0/3.0))
	assert.Equal(t, "0%", Percent(0))
}

func TestRenderSummary(t *testing.T) {
	d := analytics.BuildDashboard(sampleBoard(), analytics.DashboardOptions{
		Mode: analytics.ModeWeek,
		Now:  time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local),
	})

	var buf bytes.Buffer
	RenderSummary(&buf, d)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "WEEK  2026-01-04 → 2026-01-10\n"))
	assert.Contains(t, out, "(2/8)")
	assert.Contains(t, out, "Streak       2 current, 2 longest")
	assert.Contains(t, out, "Health       light")
	assert.Contains(t, out, "L1           2 done")
	assert.Contains(t, out, "Catch-up")
	assert.Contains(t, out, "Tags\n  Work")
}

func TestRenderInsightsForecastHabits(t *testing.T) {
	var buf bytes.Buffer
	RenderInsights(&buf, nil)
	assert.Equal(t, "Insights\n  nothing to report\n", buf.String())

	buf.Reset()
	RenderInsights(&buf, []analytics.Insight{{Type: analytics.InsightWarn, Title: "Late", Detail: "Plan less"}})
	assert.Equal(t, "Insights\n  ! Late\n    Plan less\n", buf.String())

	buf.Reset()
	RenderForecast(&buf, analytics.ComputeForecast(sampleBoard(), time.Date(2026, 1, 5, 10, 0, 0, 0, time.Local)))
	assert.Contains(t, buf.String(), "Next week  2026-01-11 → 2026-01-17")
	assert.Contains(t, buf.String(), "Scheduled    8 (1.1/day)")
	assert.Contains(t, buf.String(), "Busiest day  2026-01-12 (2)")
	assert.Contains(t, buf.String(), "Heaviest     L1 (7)")

	buf.Reset()
	RenderHabits(&buf, analytics.ComputeWeekdayHabitConsistency(sampleBoard()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 8)
	assert.Contains(t, lines[1], "sunday")
}

func TestRenderTasks(t *testing.T) {
	var buf bytes.Buffer
	RenderTasks(&buf, sampleBoard(), "2026-01-05")
	assert.Equal(t, "  ✓ L1 Write a\n  ○ L3 Stretch b\n", buf.String())

	buf.Reset()
	RenderTasks(&buf, nil, "2026-01-05")
	assert.Equal(t, "  no tasks\n", buf.String())
}
