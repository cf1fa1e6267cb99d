package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	"taskodo/internal/datekey"
)

// Stats summarizes board activity, as opposed to the analytics engine which
// works from check history alone.
type Stats struct {
	Period           string            `json:"period"`
	EventCounts      map[EventType]int `json:"event_counts"`
	ActiveDays       int               `json:"active_days"`
	Checks           int               `json:"checks"`
	Unchecks         int               `json:"unchecks"`
	LateChecks       int               `json:"late_checks"`
	EarlyChecks      int               `json:"early_checks"`
	ChecksPerDay     float64           `json:"checks_per_day"`
	ChecksByLine     map[string]int    `json:"checks_by_line"`
	TasksCreated     int               `json:"tasks_created"`
	TasksRemoved     int               `json:"tasks_removed"`
	TemplatesApplied map[string]int    `json:"templates_applied"`
}

// CalculateStats computes activity stats from events. A day counts as
// active when at least one event was recorded on it, in local time.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:           datekey.ToLocalDateKey(since),
		EventCounts:      make(map[EventType]int),
		ChecksByLine:     make(map[string]int),
		TemplatesApplied: make(map[string]int),
	}

	days := map[string]bool{}
	for _, event := range events {
		stats.EventCounts[event.Type]++
		days[datekey.ToLocalDateKey(event.Timestamp)] = true

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskRemoved:
			stats.TasksRemoved++
		case EventTaskChecked:
			stats.Checks++
			if late, _ := metadata["late"].(bool); late {
				stats.LateChecks++
			}
			if early, _ := metadata["early"].(bool); early {
				stats.EarlyChecks++
			}
			// JSON numbers decode as float64.
			if line, ok := metadata["line"].(float64); ok {
				stats.ChecksByLine[fmt.Sprintf("%d", int(line))]++
			}
		case EventTaskUnchecked:
			stats.Unchecks++
		case EventTemplateApplied:
			if id, ok := metadata["template"].(string); ok {
				stats.TemplatesApplied[id]++
			}
		}
	}

	stats.ActiveDays = len(days)
	if stats.ActiveDays > 0 {
		stats.ChecksPerDay = float64(stats.Checks) / float64(stats.ActiveDays)
	}
	return stats, nil
}
