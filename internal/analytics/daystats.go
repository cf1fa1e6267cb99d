package analytics

import (
	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

// Filters narrow the tasks that enter a day-stats computation. Zero values
// disable a filter.
type Filters struct {
	// Line keeps only tasks in this line.
	Line model.Line `json:"line,omitempty"`
	// TagID keeps only tasks carrying a tag with this id.
	TagID string `json:"tagId,omitempty"`
	// CompletedOnly replaces each day's scheduled set with its completed set.
	// This shrinks the denominator of every completion rate derived from it.
	CompletedOnly bool `json:"completedOnly,omitempty"`
}

func (f Filters) matches(t model.Task) bool {
	if f.Line != 0 && t.Line != f.Line {
		return false
	}
	if f.TagID != "" && !t.HasTag(f.TagID) {
		return false
	}
	return true
}

type DayCounts struct {
	Scheduled  int `json:"scheduled"`
	Completed  int `json:"completed"`
	Unfinished int `json:"unfinished"`
	Late       int `json:"late"`
	Early      int `json:"early"`
	OnTime     int `json:"onTime"`
}

type DayEffort struct {
	Scheduled  int `json:"scheduled"`
	Completed  int `json:"completed"`
	Unfinished int `json:"unfinished"`
}

type DayStats struct {
	DateKey   string          `json:"dateKey"`
	Weekday   datekey.WeekDay `json:"weekday"`
	Scheduled []model.Task    `json:"scheduled"`
	Completed []model.Task    `json:"completed"`
	Counts    DayCounts       `json:"counts"`
	Effort    DayEffort       `json:"effort"`
}

// BuildDayStats computes one DayStats per key of r, in order.
func BuildDayStats(tasks []model.Task, r Range, f Filters) []DayStats {
	out := make([]DayStats, 0, len(r.Keys))
	for _, key := range r.Keys {
		out = append(out, buildDay(tasks, key, f))
	}
	return out
}

func buildDay(tasks []model.Task, key string, f Filters) DayStats {
	weekday := datekey.WeekdayOf(key)

	scheduled := []model.Task{}
	completed := []model.Task{}
	var late, early, onTime int

	for _, t := range tasks {
		if !f.matches(t) || !t.ScheduledOn(key, weekday) {
			continue
		}
		scheduled = append(scheduled, t)

		c, ok := t.CheckFor(key)
		if !ok {
			continue
		}
		completed = append(completed, t)
		switch {
		case c.Late:
			late++
		case c.Early:
			early++
		default:
			onTime++
		}
	}

	if f.CompletedOnly {
		scheduled = completed
	}

	effortScheduled := sumEffort(scheduled)
	effortCompleted := sumEffort(completed)

	return DayStats{
		DateKey:   key,
		Weekday:   weekday,
		Scheduled: scheduled,
		Completed: completed,
		Counts: DayCounts{
			Scheduled:  len(scheduled),
			Completed:  len(completed),
			Unfinished: len(scheduled) - len(completed),
			Late:       late,
			Early:      early,
			OnTime:     onTime,
		},
		Effort: DayEffort{
			Scheduled:  effortScheduled,
			Completed:  effortCompleted,
			Unfinished: max(0, effortScheduled-effortCompleted),
		},
	}
}

func sumEffort(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		n += t.EffortOf()
	}
	return n
}
