package onboarding

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"taskodo/internal/httpmw"
	"taskodo/internal/task"
	"taskodo/internal/telemetry"
)

type Handler struct {
	repo   task.Repo
	events telemetry.Repository
	logger *log.Logger
}

func NewHandler(repo task.Repo) *Handler {
	return &Handler{repo: repo, logger: log.Default()}
}

func (h *Handler) SetLogger(l *log.Logger) {
	h.logger = l
}

func (h *Handler) SetEvents(events telemetry.Repository) {
	h.events = events
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

type templateSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Desc      string `json:"desc"`
	TaskCount int    `json:"taskCount"`
	Default   bool   `json:"default"`
}

// GET /api/templates
func (h *Handler) Templates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	ts, err := List()
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	out := make([]templateSummary, 0, len(ts))
	for _, t := range ts {
		out = append(out, templateSummary{
			ID:        t.ID,
			Title:     t.Title,
			Desc:      t.Desc,
			TaskCount: len(t.Tasks),
			Default:   t.ID == DefaultTemplateID,
		})
	}
	writeJSON(w, 200, out)
}

// POST /api/templates/apply {"id": "minimal"}
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, 400, "bad json")
		return
	}
	id := strings.TrimSpace(in.ID)

	created, err := ApplyTemplate(h.repo, id)
	switch {
	case errors.Is(err, ErrUnknownTemplate):
		writeErr(w, 404, err.Error())
		return
	case errors.Is(err, task.ErrInvalid):
		writeErr(w, 400, err.Error())
		return
	case err != nil:
		writeErr(w, 500, err.Error())
		return
	}

	if h.events != nil {
		if id == "" {
			id = DefaultTemplateID
		}
		err := h.events.RecordEvent(telemetry.EventTemplateApplied, telemetry.EventMetadata{
			"template": id,
			"count":    len(created),
		})
		if err != nil {
			httpmw.LogEvent(h.logger, r, "warn", "telemetry_record_failed", map[string]any{
				"event": telemetry.EventTemplateApplied,
				"error": err.Error(),
			})
		}
	}
	writeJSON(w, 201, map[string]any{
		"ok":      true,
		"count":   len(created),
		"created": created,
	})
}
