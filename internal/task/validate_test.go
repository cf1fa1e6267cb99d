package task

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

func TestValidate(t *testing.T) {
	valid := weekly("Read", model.Line2, datekey.Monday)

	tests := []struct {
		name    string
		mutate  func(*model.Task)
		problem string
	}{
		{"ok", func(*model.Task) {}, ""},
		{"short title", func(t *model.Task) { t.Title = " a " }, "title must be at least 2 characters"},
		{"long desc", func(t *model.Task) { t.Desc = strings.Repeat("x", 251) }, "description is too long"},
		{"desc at limit", func(t *model.Task) { t.Desc = strings.Repeat("x", 250) }, ""},
		{"line", func(t *model.Task) { t.Line = 0 }, "line must be 1, 2 or 3"},
		{"effort", func(t *model.Task) { t.Effort = 6 }, "effort must be between 1 and 5"},
		{"color", func(t *model.Task) { t.Color = "" }, "color is required"},
		{"tag", func(t *model.Task) { t.Tags = []model.Tag{{ID: "x"}} }, "tags need an id and a label"},
		{"no days", func(t *model.Task) { t.Recurrence = model.Weekly{} }, "pick at least one day"},
		{"bad day", func(t *model.Task) {
			t.Recurrence = model.Weekly{Days: []datekey.WeekDay{"someday"}}
		}, `unknown weekday "someday"`},
		{"ranged ok", func(t *model.Task) { t.Recurrence = model.Ranged{StartKey: "2026-01-01", EndKey: "2026-01-01"} }, ""},
		{"ranged missing end", func(t *model.Task) { t.Recurrence = model.Ranged{StartKey: "2026-01-01"} }, "pick a date range"},
		{"ranged reversed", func(t *model.Task) {
			t.Recurrence = model.Ranged{StartKey: "2026-01-05", EndKey: "2026-01-01"}
		}, "range start 2026-01-05 is after its end 2026-01-01"},
		{"no recurrence", func(t *model.Task) { t.Recurrence = nil }, "recurrence is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := valid.Clone()
			tc.mutate(&task)
			err := Validate(task)
			if tc.problem == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tc.problem)
		})
	}
}

func TestValidate_ListsEveryProblem(t *testing.T) {
	err := Validate(model.Task{})

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Problems, 4)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid task: "))
}
