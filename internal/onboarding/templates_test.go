package onboarding

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
	"taskodo/internal/task"
	"taskodo/internal/telemetry"
)

func TestList_BuiltInTemplates(t *testing.T) {
	ts, err := List()
	require.NoError(t, err)
	require.NotEmpty(t, ts)
	assert.Equal(t, DefaultTemplateID, ts[0].ID)

	ids := map[string]bool{}
	for _, tpl := range ts {
		ids[tpl.ID] = true
		assert.NotEmpty(t, tpl.Tasks, tpl.ID)
	}
	assert.True(t, ids["weekend-reset"])
}

func TestTemplates_AllTasksValidate(t *testing.T) {
	ts, err := List()
	require.NoError(t, err)

	for _, tpl := range ts {
		for _, tk := range tpl.Materialize(nil) {
			assert.NoError(t, task.Validate(tk), "%s / %s", tpl.ID, tk.Title)
		}
	}
}

func TestMaterialize_OrderIsIndexAndChecksEmpty(t *testing.T) {
	tpl, err := Find("weekend-reset")
	require.NoError(t, err)

	n := 0
	tasks := tpl.Materialize(func() model.TaskID {
		n++
		return model.TaskID(string(rune('a' + n - 1)))
	})
	require.Len(t, tasks, len(tpl.Tasks))

	first := tasks[0]
	assert.Equal(t, model.TaskID("a"), first.ID)
	assert.Equal(t, "Sunday Planning", first.Title)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, []model.CheckEntry{}, first.Checked)
	assert.Equal(t, []model.Tag{{ID: "planning", Label: "Planning"}}, first.Tags)
	assert.Equal(t, model.Weekly{Days: []datekey.WeekDay{datekey.Sunday, datekey.Saturday}}, first.Recurrence)

	for i, tk := range tasks {
		assert.Equal(t, i, tk.Order)
	}
}

func TestFind_Unknown(t *testing.T) {
	_, err := Find("nope")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestParseTemplates_Rejects(t *testing.T) {
	_, err := parseTemplates([]byte("templates:\n  - title: no id\n"))
	assert.Error(t, err)

	_, err = parseTemplates([]byte("templates:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = parseTemplates([]byte("templates: [\n"))
	assert.Error(t, err)
}

func TestApplyTemplate_AppendsToExistingBoard(t *testing.T) {
	repo := task.NewMemoryRepo()
	existing, err := repo.Create(model.Task{
		Title: "Already here", Color: "zinc", Line: model.Line1,
		Recurrence: model.Weekly{Days: []datekey.WeekDay{datekey.Monday}},
	})
	require.NoError(t, err)

	created, err := ApplyTemplate(repo, "")
	require.NoError(t, err)

	tpl, _ := Find(DefaultTemplateID)
	require.Len(t, created, len(tpl.Tasks))
	for _, tk := range created {
		_, err := uuid.Parse(string(tk.ID))
		assert.NoError(t, err)
	}

	list, _ := repo.List()
	require.Len(t, list, 1+len(created))
	assert.Equal(t, existing.ID, list[0].ID)
	assert.Equal(t, created[0].ID, list[1].ID)
}

func TestApplyTemplate_UnknownLeavesBoard(t *testing.T) {
	repo := task.NewMemoryRepo()
	_, err := ApplyTemplate(repo, "nope")
	require.ErrorIs(t, err, ErrUnknownTemplate)

	list, _ := repo.List()
	assert.Empty(t, list)
}

func TestHandler_ListAndApply(t *testing.T) {
	repo := task.NewMemoryRepo()
	events := telemetry.NewMemoryRepository()
	h := NewHandler(repo)
	h.SetEvents(events)

	rec := httptest.NewRecorder()
	h.Templates(rec, httptest.NewRequest(http.MethodGet, "/api/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []templateSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.NotEmpty(t, summaries)
	assert.True(t, summaries[0].Default)
	assert.Positive(t, summaries[0].TaskCount)

	rec = httptest.NewRecorder()
	h.Apply(rec, httptest.NewRequest(http.MethodPost, "/api/templates/apply", bytes.NewReader([]byte(`{"id":"fitness"}`))))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Count   int          `json:"count"`
		Created []model.Task `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 3, out.Count)
	assert.Len(t, out.Created, 3)

	rec = httptest.NewRecorder()
	h.Apply(rec, httptest.NewRequest(http.MethodPost, "/api/templates/apply", bytes.NewReader([]byte(`{"id":"nope"}`))))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Apply(rec, httptest.NewRequest(http.MethodGet, "/api/templates/apply", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	applied, err := events.GetEvents(time.Time{}, []telemetry.EventType{telemetry.EventTemplateApplied})
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.JSONEq(t, `{"template":"fitness","count":3}`, applied[0].Metadata)
}
