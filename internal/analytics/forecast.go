package analytics

import (
	"time"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

type BusiestDay struct {
	DateKey   string `json:"dateKey"`
	Scheduled int    `json:"scheduled"`
}

type HeaviestLine struct {
	Line      model.Line `json:"line"`
	Scheduled int        `json:"scheduled"`
}

type ForecastStats struct {
	Range          Range         `json:"range"`
	ScheduledTotal int           `json:"scheduledTotal"`
	BusiestDay     *BusiestDay   `json:"busiestDay,omitempty"`
	HeaviestLine   *HeaviestLine `json:"heaviestLine,omitempty"`
	ExpectedPerDay float64       `json:"expectedPerDay"`
}

// ComputeForecast looks at next week (the Sunday-start week holding base+7
// days) with no filters applied. Ties for busiest day and heaviest line go
// to the earliest candidate.
func ComputeForecast(tasks []model.Task, base time.Time) ForecastStats {
	start := datekey.StartOfWeekSunday(datekey.AddDays(base, 7))
	r := BuildRange(start, datekey.AddDays(start, 6))
	days := BuildDayStats(tasks, r, Filters{})

	out := ForecastStats{Range: r}

	var busiest *DayStats
	byLine := map[model.Line]int{}
	for i, d := range days {
		out.ScheduledTotal += d.Counts.Scheduled
		if busiest == nil || d.Counts.Scheduled > busiest.Counts.Scheduled {
			busiest = &days[i]
		}
		for _, t := range d.Scheduled {
			byLine[t.Line]++
		}
	}

	if busiest != nil && busiest.Counts.Scheduled > 0 {
		out.BusiestDay = &BusiestDay{DateKey: busiest.DateKey, Scheduled: busiest.Counts.Scheduled}
	}

	for _, l := range model.Lines {
		if byLine[l] == 0 {
			continue
		}
		if out.HeaviestLine == nil || byLine[l] > out.HeaviestLine.Scheduled {
			out.HeaviestLine = &HeaviestLine{Line: l, Scheduled: byLine[l]}
		}
	}

	out.ExpectedPerDay = float64(out.ScheduledTotal) / 7
	return out
}
