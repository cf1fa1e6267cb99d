// Package datekey formats and walks local calendar days.
//
// A date key is "YYYY-MM-DD" built from local calendar fields. Keys are fixed
// width and zero padded, so comparing two keys as strings compares them
// chronologically.
package datekey

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

type WeekDay string

const (
	Sunday    WeekDay = "sunday"
	Monday    WeekDay = "monday"
	Tuesday   WeekDay = "tuesday"
	Wednesday WeekDay = "wednesday"
	Thursday  WeekDay = "thursday"
	Friday    WeekDay = "friday"
	Saturday  WeekDay = "saturday"
)

// Week is indexed by time.Weekday (Sunday = 0).
var Week = [7]WeekDay{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

func (d WeekDay) Valid() bool {
	for _, w := range Week {
		if w == d {
			return true
		}
	}
	return false
}

// ToLocalDateKey formats t using its local calendar fields.
func ToLocalDateKey(t time.Time) string {
	t = t.In(time.Local)
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func StartOfWeekSunday(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func StartOfMonth(t time.Time) time.Time {
	d := StartOfDay(t)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.Local)
}

// EndOfMonth returns local midnight of the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// EachDateKey lists every key from from to to inclusive. Both ends are
// normalized to local midnight. It returns an empty slice when from is after to.
func EachDateKey(from, to time.Time) []string {
	cursor := StartOfDay(from)
	end := StartOfDay(to)

	keys := []string{}
	for !cursor.After(end) {
		keys = append(keys, ToLocalDateKey(cursor))
		cursor = cursor.AddDate(0, 0, 1)
	}
	return keys
}

// FromKey parses a key as local midnight. Malformed keys yield the zero time.
func FromKey(key string) time.Time {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// WeekdayOf maps a key to its weekday name. Malformed keys yield "".
func WeekdayOf(key string) WeekDay {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return ""
	}
	return Week[t.Weekday()]
}

// Valid reports whether key is a well formed, zero padded date key.
func Valid(key string) bool {
	t, err := time.ParseInLocation(Layout, key, time.Local)
	if err != nil {
		return false
	}
	return ToLocalDateKey(t) == key
}
