// Package analytics derives statistics from a task snapshot and a date range.
//
// Every function here is pure: it reads tasks, never mutates them, and
// returns the same output for the same input.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"taskodo/internal/datekey"
)

type Range struct {
	From    time.Time `json:"from"`
	To      time.Time `json:"to"`
	FromKey string    `json:"fromKey"`
	ToKey   string    `json:"toKey"`
	Keys    []string  `json:"keys"`
}

// BuildRange normalizes both ends to local midnight and lists every key
// between them.
func BuildRange(from, to time.Time) Range {
	f := datekey.StartOfDay(from)
	t := datekey.StartOfDay(to)
	return Range{
		From:    f,
		To:      t,
		FromKey: datekey.ToLocalDateKey(f),
		ToKey:   datekey.ToLocalDateKey(t),
		Keys:    datekey.EachDateKey(f, t),
	}
}

type RangeMode string

const (
	ModeDay   RangeMode = "day"
	ModeWeek  RangeMode = "week"
	ModeMonth RangeMode = "month"
)

func ParseRangeMode(s string) (RangeMode, error) {
	switch RangeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeWeek:
		return ModeWeek, nil
	case ModeDay:
		return ModeDay, nil
	case ModeMonth:
		return ModeMonth, nil
	default:
		return "", fmt.Errorf("unknown range mode %q (want day, week or month)", s)
	}
}

// ModeRange returns the day, Sunday-start week or calendar month holding cursor.
func ModeRange(mode RangeMode, cursor time.Time) Range {
	base := datekey.StartOfDay(cursor)
	switch mode {
	case ModeWeek:
		start := datekey.StartOfWeekSunday(base)
		return BuildRange(start, datekey.AddDays(start, 6))
	case ModeMonth:
		return BuildRange(datekey.StartOfMonth(base), datekey.EndOfMonth(base))
	default:
		return BuildRange(base, base)
	}
}

// PreviousRange returns the period right before r, used for comparisons.
func PreviousRange(mode RangeMode, r Range) Range {
	switch mode {
	case ModeDay:
		prev := datekey.AddDays(r.From, -1)
		return BuildRange(prev, prev)
	case ModeWeek:
		start := datekey.AddDays(r.From, -7)
		return BuildRange(start, datekey.AddDays(start, 6))
	case ModeMonth:
		prev := datekey.StartOfMonth(r.From).AddDate(0, -1, 0)
		return BuildRange(datekey.StartOfMonth(prev), datekey.EndOfMonth(prev))
	default:
		return r
	}
}
