package remind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

func boardForMonday() []model.Task {
	return []model.Task{
		{ID: "plan", Title: "Plan", Line: model.Line1, Order: 2,
			Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Monday}}},
		{ID: "mail", Title: "Mail", Line: model.Line1, Order: 1,
			Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Monday, datekey.Friday}}},
		{ID: "gym", Title: "Gym", Line: model.Line3, Order: 1,
			Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Monday}},
			Checked:    []model.CheckEntry{{Date: "2026-01-05"}}},
		{ID: "trip", Title: "Trip", Line: model.Line2, Order: 1,
			Recurrence: model.Ranged{StartKey: "2026-01-04", EndKey: "2026-01-06"}},
		{ID: "fri", Title: "Friday only", Line: model.Line2, Order: 0,
			Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Friday}}},
	}
}

func TestBuild(t *testing.T) {
	d := Build(boardForMonday(), "2026-01-05")

	assert.Equal(t, 4, d.Scheduled)
	assert.Equal(t, 1, d.Done)
	require.Len(t, d.Open, 3)
	assert.Equal(t, []model.TaskID{"mail", "plan", "trip"},
		[]model.TaskID{d.Open[0].ID, d.Open[1].ID, d.Open[2].ID})
}

func TestDigestMessage(t *testing.T) {
	d := Build(boardForMonday(), "2026-01-05")
	assert.Equal(t, "3 open tasks today (1/4 done)\nLine 1: Mail, Plan\nLine 2: Trip", d.Message())

	assert.Equal(t, "Nothing scheduled today.", Build(nil, "2026-01-05").Message())

	done := Build(boardForMonday()[2:3], "2026-01-05")
	assert.Equal(t, "All 1 tasks done today.", done.Message())

	one := Build(boardForMonday()[0:1], "2026-01-05")
	assert.Equal(t, "1 open task today (0/1 done)\nLine 1: Plan", one.Message())
}

type recordingNotifier struct {
	title, message string
	calls          int
	err            error
}

func (r *recordingNotifier) Notify(title, message string) error {
	r.calls++
	r.title, r.message = title, message
	return r.err
}

func TestNotify(t *testing.T) {
	n := &recordingNotifier{}

	sent, err := Notify(n, "Taskodo", Build(nil, "2026-01-05"))
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Zero(t, n.calls)

	d := Build(boardForMonday(), "2026-01-05")
	sent, err = Notify(n, "Taskodo", d)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "Taskodo", n.title)
	assert.Equal(t, d.Message(), n.message)

	n.err = errors.New("no dbus")
	sent, err = Notify(n, "Taskodo", d)
	assert.False(t, sent)
	assert.ErrorContains(t, err, "no dbus")
}
