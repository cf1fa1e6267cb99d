package analytics

import (
	"sort"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

type TagStat struct {
	TagID          string  `json:"tagId"`
	Label          string  `json:"label"`
	Scheduled      int     `json:"scheduled"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completionRate"`
	LateRate       float64 `json:"lateRate"`
}

type tagAcc struct {
	tagID      string
	label      string
	scheduled  int
	completed  int
	late       int
	totalTimed int
}

// ComputeTagEffectiveness counts scheduled and completed occurrences per tag
// across all days. Tags keep first-encounter order before a stable sort by
// completed count, highest first.
func ComputeTagEffectiveness(days []DayStats) []TagStat {
	order := []string{}
	acc := map[string]*tagAcc{}

	for _, d := range days {
		for _, t := range d.Scheduled {
			for _, tag := range t.Tags {
				a, ok := acc[tag.ID]
				if !ok {
					acc[tag.ID] = &tagAcc{tagID: tag.ID, label: tag.Label, scheduled: 1}
					order = append(order, tag.ID)
					continue
				}
				a.scheduled++
			}
		}

		for _, t := range d.Completed {
			c, checked := t.CheckFor(d.DateKey)
			for _, tag := range t.Tags {
				a, ok := acc[tag.ID]
				if !ok {
					continue
				}
				a.completed++
				if checked {
					a.totalTimed++
					if c.Late {
						a.late++
					}
				}
			}
		}
	}

	out := make([]TagStat, 0, len(order))
	for _, id := range order {
		a := acc[id]
		out = append(out, TagStat{
			TagID:          a.tagID,
			Label:          a.label,
			Scheduled:      a.scheduled,
			Completed:      a.completed,
			CompletionRate: ratio(a.completed, a.scheduled),
			LateRate:       ratio(a.late, a.totalTimed),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Completed > out[j].Completed
	})
	return out
}

type WeekdayHabit struct {
	Day            datekey.WeekDay `json:"day"`
	Scheduled      int             `json:"scheduled"`
	Completed      int             `json:"completed"`
	CompletionRate float64         `json:"completionRate"`
}

// ComputeWeekdayHabitConsistency buckets every check entry of every task by
// weekday, ignoring any range. There is no record of missed occurrences, so
// each check also counts as a scheduled occurrence and every populated
// weekday reports a rate of exactly 1.
func ComputeWeekdayHabitConsistency(tasks []model.Task) []WeekdayHabit {
	idx := map[datekey.WeekDay]int{}
	out := make([]WeekdayHabit, len(datekey.Week))
	for i, d := range datekey.Week {
		out[i] = WeekdayHabit{Day: d}
		idx[d] = i
	}

	for _, t := range tasks {
		for _, c := range t.Checked {
			i, ok := idx[datekey.WeekdayOf(c.Date)]
			if !ok {
				continue
			}
			out[i].Completed++
			out[i].Scheduled++
		}
	}

	for i := range out {
		out[i].CompletionRate = ratio(out[i].Completed, out[i].Scheduled)
	}
	return out
}
