package model

import (
	"encoding/json"
	"slices"

	"taskodo/internal/datekey"
)

type TaskID string

// Line is a priority lane. Valid values are 1, 2 and 3.
type Line int

const (
	Line1 Line = 1
	Line2 Line = 2
	Line3 Line = 3
)

var Lines = [3]Line{Line1, Line2, Line3}

func (l Line) Valid() bool { return l >= Line1 && l <= Line3 }

// Effort is a relative weight from 1 to 5. Zero means unset and counts as 1.
type Effort int

func (e Effort) Valid() bool { return e == 0 || (e >= 1 && e <= 5) }

// OrderLast is the order a freshly created task gets so it sorts after
// everything already in its line.
const OrderLast = 9999

type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CheckEntry records that a task was completed for Date. Late and Early are
// mutually exclusive; both false means on time.
type CheckEntry struct {
	Date  string `json:"date"`
	Late  bool   `json:"late"`
	Early bool   `json:"early"`
}

// Recurrence is either Weekly or Ranged.
type Recurrence interface {
	isRecurrence()
	ScheduledOn(dateKey string, weekday datekey.WeekDay) bool
}

// Weekly recurs on every occurrence of Days, indefinitely.
type Weekly struct {
	Days []datekey.WeekDay
}

// Ranged is active on every day from StartKey to EndKey inclusive. A ranged
// task missing either key is never scheduled.
type Ranged struct {
	StartKey string
	EndKey   string
}

func (Weekly) isRecurrence() {}
func (Ranged) isRecurrence() {}

func (w Weekly) ScheduledOn(_ string, weekday datekey.WeekDay) bool {
	return slices.Contains(w.Days, weekday)
}

func (r Ranged) ScheduledOn(dateKey string, _ datekey.WeekDay) bool {
	if r.StartKey == "" || r.EndKey == "" {
		return false
	}
	return dateKey >= r.StartKey && dateKey <= r.EndKey
}

type Task struct {
	ID         TaskID
	Title      string
	Desc       string
	Tags       []Tag
	Color      string
	Line       Line
	Effort     Effort
	Order      int
	Checked    []CheckEntry
	Recurrence Recurrence
}

// EffortOf returns the task effort, defaulting to 1.
func (t Task) EffortOf() int {
	if t.Effort == 0 {
		return 1
	}
	return int(t.Effort)
}

func (t Task) IsWeekly() bool {
	_, ok := t.Recurrence.(Weekly)
	return ok
}

// ScheduledOn reports whether the task occurs on dateKey. A task without a
// recurrence is never scheduled.
func (t Task) ScheduledOn(dateKey string, weekday datekey.WeekDay) bool {
	if t.Recurrence == nil {
		return false
	}
	return t.Recurrence.ScheduledOn(dateKey, weekday)
}

// CheckFor returns the completion record for dateKey, if any.
func (t Task) CheckFor(dateKey string) (CheckEntry, bool) {
	for _, c := range t.Checked {
		if c.Date == dateKey {
			return c, true
		}
	}
	return CheckEntry{}, false
}

func (t Task) HasTag(id string) bool {
	for _, tag := range t.Tags {
		if tag.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	out := t
	out.Tags = slices.Clone(t.Tags)
	out.Checked = slices.Clone(t.Checked)
	if w, ok := t.Recurrence.(Weekly); ok {
		out.Recurrence = Weekly{Days: slices.Clone(w.Days)}
	}
	return out
}

// taskJSON is the persisted shape. The weekly flag discriminates between
// the day list and the start/end keys.
type taskJSON struct {
	ID           TaskID       `json:"id"`
	Title        string       `json:"title"`
	Desc         string       `json:"desc"`
	Tags         []Tag        `json:"tags"`
	Color        string       `json:"color"`
	Line         Line         `json:"line"`
	Effort       Effort       `json:"effort,omitempty"`
	Order        int          `json:"order"`
	Checked      []CheckEntry `json:"checked"`
	Weekly       bool         `json:"weekly"`
	Days         []string     `json:"days"`
	StartDateKey string       `json:"startDateKey,omitempty"`
	EndDateKey   string       `json:"endDateKey,omitempty"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	out := taskJSON{
		ID:      t.ID,
		Title:   t.Title,
		Desc:    t.Desc,
		Tags:    t.Tags,
		Color:   t.Color,
		Line:    t.Line,
		Effort:  t.Effort,
		Order:   t.Order,
		Checked: t.Checked,
		Days:    []string{},
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	if out.Checked == nil {
		out.Checked = []CheckEntry{}
	}

	switch r := t.Recurrence.(type) {
	case Weekly:
		out.Weekly = true
		for _, d := range r.Days {
			out.Days = append(out.Days, string(d))
		}
	case Ranged:
		out.StartDateKey = r.StartKey
		out.EndDateKey = r.EndKey
	}
	return json.Marshal(out)
}

func (t *Task) UnmarshalJSON(b []byte) error {
	var in taskJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	*t = Task{
		ID:      in.ID,
		Title:   in.Title,
		Desc:    in.Desc,
		Tags:    in.Tags,
		Color:   in.Color,
		Line:    in.Line,
		Effort:  in.Effort,
		Order:   in.Order,
		Checked: in.Checked,
	}
	if t.Tags == nil {
		t.Tags = []Tag{}
	}
	if t.Checked == nil {
		t.Checked = []CheckEntry{}
	}

	if !in.Weekly {
		t.Recurrence = Ranged{StartKey: in.StartDateKey, EndKey: in.EndDateKey}
		return nil
	}

	days := make([]datekey.WeekDay, 0, len(in.Days))
	for _, d := range in.Days {
		days = append(days, datekey.WeekDay(d))
	}
	t.Recurrence = Weekly{Days: days}
	return nil
}
