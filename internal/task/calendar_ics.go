package task

import (
	"fmt"
	"strings"
	"time"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

const icsDateLayout = "20060102"

var icsWeekday = map[datekey.WeekDay]string{
	datekey.Sunday:    "SU",
	datekey.Monday:    "MO",
	datekey.Tuesday:   "TU",
	datekey.Wednesday: "WE",
	datekey.Thursday:  "TH",
	datekey.Friday:    "FR",
	datekey.Saturday:  "SA",
}

// BuildTaskCalendarICS builds an all-day iCalendar event for a task.
// Weekly tasks start on their next occurrence from now and repeat with a
// BYDAY rule; ranged tasks span their start through end day.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	var (
		start, end time.Time
		rrule      string
	)

	switch r := t.Recurrence.(type) {
	case model.Weekly:
		if len(r.Days) == 0 {
			return "", fmt.Errorf("%w: weekly task has no days", ErrInvalid)
		}
		start = nextOccurrence(r, datekey.StartOfDay(now))
		end = datekey.AddDays(start, 1)
		rrule = weeklyRRULE(r)
	case model.Ranged:
		if !datekey.Valid(r.StartKey) || !datekey.Valid(r.EndKey) {
			return "", fmt.Errorf("%w: ranged task needs start and end dates", ErrInvalid)
		}
		start = datekey.FromKey(r.StartKey)
		end = datekey.AddDays(datekey.FromKey(r.EndKey), 1)
	default:
		return "", fmt.Errorf("%w: task has no schedule", ErrInvalid)
	}

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Taskodo Task"
	}
	desc := strings.TrimSpace(t.Desc)

	uid := fmt.Sprintf("task-%s@taskodo", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@taskodo", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Taskodo//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART;VALUE=DATE:" + start.Format(icsDateLayout),
		"DTEND;VALUE=DATE:" + end.Format(icsDateLayout),
	}
	if desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if len(t.Tags) > 0 {
		labels := make([]string, 0, len(t.Tags))
		for _, tag := range t.Tags {
			labels = append(labels, escapeICSText(tag.Label))
		}
		lines = append(lines, "CATEGORIES:"+strings.Join(labels, ","))
	}
	if rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n"), nil
}

func nextOccurrence(w model.Weekly, from time.Time) time.Time {
	for i := 0; i < 7; i++ {
		d := datekey.AddDays(from, i)
		if w.ScheduledOn("", datekey.Week[d.Weekday()]) {
			return d
		}
	}
	return from
}

// weeklyRRULE lists BYDAY in Sunday-first order whatever order Days has.
func weeklyRRULE(w model.Weekly) string {
	var days []string
	for _, d := range datekey.Week {
		if w.ScheduledOn("", d) {
			days = append(days, icsWeekday[d])
		}
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
