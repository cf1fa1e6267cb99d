package task

import (
	"errors"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

var (
	ErrNotFound = errors.New("task not found")
	ErrInvalid  = errors.New("invalid task")
)

// Patch represents a partial update.
// nil pointer => "no change"
// Weekly, Days, StartDateKey and EndDateKey together rebuild the recurrence;
// any of them left nil keeps the current value for that part.
type Patch struct {
	Title   *string             `json:"title,omitempty"`
	Desc    *string             `json:"desc,omitempty"`
	Tags    *[]model.Tag        `json:"tags,omitempty"`
	Color   *string             `json:"color,omitempty"`
	Line    *model.Line         `json:"line,omitempty"`
	Effort  *model.Effort       `json:"effort,omitempty"`
	Order   *int                `json:"order,omitempty"`
	Checked *[]model.CheckEntry `json:"checked,omitempty"`

	Weekly       *bool              `json:"weekly,omitempty"`
	Days         *[]datekey.WeekDay `json:"days,omitempty"`
	StartDateKey *string            `json:"startDateKey,omitempty"`
	EndDateKey   *string            `json:"endDateKey,omitempty"`
}

func (p Patch) touchesRecurrence() bool {
	return p.Weekly != nil || p.Days != nil || p.StartDateKey != nil || p.EndDateKey != nil
}

// Repo is the task board. Every mutation is persisted before it returns.
type Repo interface {
	List() ([]model.Task, error)
	Get(id model.TaskID) (model.Task, error)

	// Create assigns a fresh id, an empty check history and OrderLast.
	Create(t model.Task) (model.Task, error)
	Upsert(t model.Task) (model.Task, error)
	Update(id model.TaskID, p Patch) (model.Task, error)
	Remove(id model.TaskID) error

	Move(id model.TaskID, line model.Line, order *int) (model.Task, error)
	ReorderWithinLine(line model.Line, ids []model.TaskID) error
	ToggleCheck(id model.TaskID, dateKey, todayKey string) (model.Task, error)

	SetAll(tasks []model.Task) error
	Clear() error

	ForWeekday(day datekey.WeekDay) ([]model.Task, error)
	ForDate(dateKey string) ([]model.Task, error)
}

// Persister is the serialization boundary of a Store. Load returns the
// saved tasks in board order; Save replaces them.
type Persister interface {
	Load() ([]model.Task, error)
	Save(tasks []model.Task) error
}

func normalizeTask(t *model.Task) {
	if t.Tags == nil {
		t.Tags = []model.Tag{}
	}
	if t.Checked == nil {
		t.Checked = []model.CheckEntry{}
	}
	if t.Recurrence == nil {
		t.Recurrence = model.Weekly{Days: []datekey.WeekDay{}}
	}
}

func applyPatch(t *model.Task, p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Desc != nil {
		t.Desc = *p.Desc
	}
	if p.Tags != nil {
		t.Tags = *p.Tags
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Line != nil {
		t.Line = *p.Line
	}
	if p.Effort != nil {
		t.Effort = *p.Effort
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	if p.Checked != nil {
		t.Checked = *p.Checked
	}

	if !p.touchesRecurrence() {
		return
	}

	weekly := t.IsWeekly()
	if p.Weekly != nil {
		weekly = *p.Weekly
	}

	if weekly {
		var days []datekey.WeekDay
		if w, ok := t.Recurrence.(model.Weekly); ok {
			days = w.Days
		}
		if p.Days != nil {
			days = *p.Days
		}
		t.Recurrence = model.Weekly{Days: days}
		return
	}

	var r model.Ranged
	if cur, ok := t.Recurrence.(model.Ranged); ok {
		r = cur
	}
	if p.StartDateKey != nil {
		r.StartKey = *p.StartDateKey
	}
	if p.EndDateKey != nil {
		r.EndKey = *p.EndDateKey
	}
	t.Recurrence = r
}
