package termui

import (
	"fmt"
	"io"
	"strings"

	"taskodo/internal/analytics"
	"taskodo/internal/model"
)

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n", Bold(title))
}

func RenderSummary(w io.Writer, d analytics.Dashboard) {
	s := d.Summary
	heading(w, fmt.Sprintf("%s  %s → %s", strings.ToUpper(string(d.Mode)), d.Range.FromKey, d.Range.ToKey))
	fmt.Fprintf(w, "  Completion   %s %s  (%d/%d)\n", Bar(s.CompletionRate, 20), Percent(s.CompletionRate), s.CompletedTotal, s.ScheduledTotal)
	fmt.Fprintf(w, "  Effort       %s %s  (%d/%d)\n", Bar(s.Effort.CompletionRate, 20), Percent(s.Effort.CompletionRate), s.Effort.Completed, s.Effort.Scheduled)
	fmt.Fprintf(w, "  Late rate    %s  (%d late, %d early, %d on time)\n", Percent(s.Timing.LateRate), s.Timing.Late, s.Timing.Early, s.Timing.OnTime)
	fmt.Fprintf(w, "  Streak       %d current, %d longest\n", s.Streak.Current, s.Streak.Longest)
	fmt.Fprintf(w, "  Score        %s\n", BoldGreen(fmt.Sprintf("%d/100", s.Score)))
	fmt.Fprintf(w, "  Health       %s  (σ %.2f)\n", HealthBadge(s.Health), s.ConsistencyStdDev)

	if s.MostProductiveDay != nil {
		fmt.Fprintf(w, "  Best day     %s (%d done)\n", s.MostProductiveDay.DateKey, s.MostProductiveDay.Completed)
	}
	for _, l := range model.Lines {
		fmt.Fprintf(w, "  %s           %d done\n", LineLabel(int(l)), s.ByLineCompleted[l])
	}
	if c := s.Compensation; c.Behind() {
		fmt.Fprintf(w, "  %s  %d more in %d days (%s/day)\n", BoldYellow("Catch-up"), c.RemainingToTarget, c.RemainingDays, analytics.ToFixed(c.RequiredPerDay, 1))
	}

	cmp := d.Compare
	fmt.Fprintf(w, "  vs previous  %+d scheduled, %+d completed, %+d pts completion\n",
		cmp.ScheduledDelta, cmp.CompletedDelta, int(cmp.CompletionRateDelta*100))

	if len(s.ByTag) > 0 {
		fmt.Fprintln(w)
		heading(w, "Tags")
		for _, t := range s.ByTag {
			fmt.Fprintf(w, "  %-14s %s %s  (%d/%d)\n", t.Label, Bar(t.CompletionRate, 10), Percent(t.CompletionRate), t.Completed, t.Scheduled)
		}
	}
}

func RenderInsights(w io.Writer, insights []analytics.Insight) {
	heading(w, "Insights")
	if len(insights) == 0 {
		fmt.Fprintf(w, "  %s\n", Dim("nothing to report"))
		return
	}
	for _, in := range insights {
		fmt.Fprintf(w, "  %s %s\n    %s\n", InsightIcon(in.Type), Bold(in.Title), Dim(in.Detail))
	}
}

func RenderForecast(w io.Writer, f analytics.ForecastStats) {
	heading(w, fmt.Sprintf("Next week  %s → %s", f.Range.FromKey, f.Range.ToKey))
	fmt.Fprintf(w, "  Scheduled    %d (%s/day)\n", f.ScheduledTotal, analytics.ToFixed(f.ExpectedPerDay, 1))
	if f.BusiestDay != nil {
		fmt.Fprintf(w, "  Busiest day  %s (%d)\n", f.BusiestDay.DateKey, f.BusiestDay.Scheduled)
	}
	if f.HeaviestLine != nil {
		fmt.Fprintf(w, "  Heaviest     %s (%d)\n", LineLabel(int(f.HeaviestLine.Line)), f.HeaviestLine.Scheduled)
	}
}

func RenderHabits(w io.Writer, habits []analytics.WeekdayHabit) {
	heading(w, "Weekday habits")
	for _, h := range habits {
		fmt.Fprintf(w, "  %-10s %3d  %s\n", h.Day, h.Completed, Bar(h.CompletionRate, 10))
	}
}

// RenderTasks lists tasks with their check state for dateKey.
func RenderTasks(w io.Writer, tasks []model.Task, dateKey string) {
	if len(tasks) == 0 {
		fmt.Fprintf(w, "  %s\n", Dim("no tasks"))
		return
	}
	for _, t := range tasks {
		_, done := t.CheckFor(dateKey)
		fmt.Fprintf(w, "  %s %s %s %s\n", CheckIcon(done), LineLabel(int(t.Line)), t.Title, Dim(string(t.ID)))
	}
}
