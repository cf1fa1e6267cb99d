package task

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"taskodo/internal/clock"
	"taskodo/internal/datekey"
	"taskodo/internal/httpmw"
	"taskodo/internal/model"
	"taskodo/internal/telemetry"
)

const maxImportBytes = 8 << 20

type Handler struct {
	repo   Repo
	clock  clock.Clock
	events telemetry.Repository
	logger *log.Logger
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo, clock: clock.RealClock{}, logger: log.Default()}
}

func (h *Handler) SetLogger(l *log.Logger) {
	h.logger = l
}

func (h *Handler) SetClock(c clock.Clock) {
	h.clock = c
}

// SetEvents enables telemetry for board mutations.
func (h *Handler) SetEvents(events telemetry.Repository) {
	h.events = events
}

// record never fails the request; a telemetry error is only logged.
func (h *Handler) record(r *http.Request, et telemetry.EventType, md telemetry.EventMetadata) {
	if h.events == nil {
		return
	}
	if err := h.events.RecordEvent(et, md); err != nil {
		httpmw.LogEvent(h.logger, r, "warn", "telemetry_record_failed", map[string]any{
			"event": et,
			"error": err.Error(),
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// writeRepoErr maps store errors onto status codes.
func writeRepoErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeErr(w, 404, "not found")
	case errors.Is(err, ErrInvalid):
		writeErr(w, 400, err.Error())
	default:
		writeErr(w, 500, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ts, err := h.repo.List()
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		writeJSON(w, 200, ts)
		return

	case http.MethodPost:
		var in model.Task
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, err := h.repo.Create(in)
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		h.record(r, telemetry.EventTaskCreated, telemetry.EventMetadata{"id": t.ID, "line": t.Line})
		writeJSON(w, 201, t)
		return

	case http.MethodDelete:
		if err := h.repo.Clear(); err != nil {
			writeRepoErr(w, err)
			return
		}
		h.record(r, telemetry.EventBoardCleared, telemetry.EventMetadata{})
		writeJSON(w, 200, map[string]any{"ok": true})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/tasks/{id}[/check|/move|/calendar.ics]
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	if len(parts) == 1 {
		h.taskItem(w, r, id)
		return
	}
	if len(parts) != 2 {
		writeErr(w, 404, "not found")
		return
	}

	switch parts[1] {
	case "check":
		h.taskCheck(w, r, id)
	case "move":
		h.taskMove(w, r, id)
	case "calendar.ics":
		h.taskCalendar(w, r, id)
	default:
		writeErr(w, 404, "not found")
	}
}

func (h *Handler) taskItem(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	switch r.Method {
	case http.MethodGet:
		t, err := h.repo.Get(id)
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		writeJSON(w, 200, t)

	case http.MethodPut:
		var in model.Task
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		in.ID = id
		t, err := h.repo.Upsert(in)
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		h.record(r, telemetry.EventTaskUpdated, telemetry.EventMetadata{"id": t.ID})
		writeJSON(w, 200, t)

	case http.MethodPatch:
		var p Patch
		if err := decodeJSON(r, &p); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		t, err := h.repo.Update(id, p)
		if err != nil {
			writeRepoErr(w, err)
			return
		}
		h.record(r, telemetry.EventTaskUpdated, telemetry.EventMetadata{"id": t.ID})
		writeJSON(w, 200, t)

	case http.MethodDelete:
		if err := h.repo.Remove(id); err != nil {
			writeRepoErr(w, err)
			return
		}
		h.record(r, telemetry.EventTaskRemoved, telemetry.EventMetadata{"id": id})
		writeJSON(w, 200, map[string]any{"ok": true})

	default:
		writeErr(w, 405, "method not allowed")
	}
}

// POST /api/tasks/{id}/check {"date": "YYYY-MM-DD"}; date defaults to today.
func (h *Handler) taskCheck(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &in); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, 400, "bad json")
		return
	}

	today := clock.TodayKey(h.clock)
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = today
	}

	t, err := h.repo.ToggleCheck(id, date, today)
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	c, checked := t.CheckFor(date)
	if checked {
		h.record(r, telemetry.EventTaskChecked, telemetry.EventMetadata{
			"id": t.ID, "date": date, "line": t.Line, "late": c.Late, "early": c.Early,
		})
	} else {
		h.record(r, telemetry.EventTaskUnchecked, telemetry.EventMetadata{"id": t.ID, "date": date})
	}

	writeJSON(w, 200, map[string]any{
		"task":    t,
		"date":    date,
		"checked": checked,
	})
}

// PUT /api/tasks/{id}/move {"line": 2, "order": 3}
func (h *Handler) taskMove(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		Line  *model.Line `json:"line"`
		Order *int        `json:"order"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if in.Line == nil {
		writeErr(w, 400, `missing field "line"`)
		return
	}

	t, err := h.repo.Move(id, *in.Line, in.Order)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	h.record(r, telemetry.EventTaskMoved, telemetry.EventMetadata{"id": t.ID, "line": t.Line, "order": t.Order})
	writeJSON(w, 200, t)
}

func (h *Handler) taskCalendar(w http.ResponseWriter, r *http.Request, id model.TaskID) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	t, err := h.repo.Get(id)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	ics, err := BuildTaskCalendarICS(t, h.clock.Now())
	if err != nil {
		writeRepoErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="task-`+string(t.ID)+`.ics"`)
	w.WriteHeader(200)
	_, _ = io.WriteString(w, ics)
}

// PUT /api/tasks/reorder {"line": 1, "ids": ["a", "b"]}
func (h *Handler) TasksReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		Line model.Line `json:"line"`
		IDs  []string   `json:"ids"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if !in.Line.Valid() {
		writeErr(w, 400, "line must be 1, 2 or 3")
		return
	}

	ids := make([]model.TaskID, 0, len(in.IDs))
	for _, s := range in.IDs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		ids = append(ids, model.TaskID(s))
	}

	if err := h.repo.ReorderWithinLine(in.Line, ids); err != nil {
		writeRepoErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"ok":    true,
		"count": len(ids),
	})
}

// GET /api/tasks/day?weekday=monday or ?date=2026-01-05
func (h *Handler) TasksDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	q := r.URL.Query()
	var (
		ts  []model.Task
		err error
	)
	switch {
	case q.Get("weekday") != "":
		ts, err = h.repo.ForWeekday(datekey.WeekDay(strings.ToLower(strings.TrimSpace(q.Get("weekday")))))
	case q.Get("date") != "":
		ts, err = h.repo.ForDate(strings.TrimSpace(q.Get("date")))
	default:
		ts, err = h.repo.ForDate(clock.TodayKey(h.clock))
	}
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	writeJSON(w, 200, ts)
}

// GET /api/store/export
func (h *Handler) StoreExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	b, err := Export(h.repo)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasks-store.json"`)
	w.WriteHeader(200)
	_, _ = w.Write(b)
}

// PUT /api/store/import replaces the board with the posted snapshot.
func (h *Handler) StoreImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	b, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeErr(w, 400, "could not read body")
		return
	}
	n, err := Import(h.repo, b)
	if err != nil {
		writeRepoErr(w, err)
		return
	}
	h.record(r, telemetry.EventBoardImported, telemetry.EventMetadata{"count": n})
	writeJSON(w, 200, map[string]any{
		"ok":    true,
		"count": n,
	})
}
