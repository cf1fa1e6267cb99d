package serverapp

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskodo/internal/analytics"
	"taskodo/internal/clock"
	"taskodo/internal/config"
	"taskodo/internal/datekey"
	"taskodo/internal/httpmw"
	"taskodo/internal/model"
	"taskodo/internal/task"
	"taskodo/internal/telemetry"
)

type analyticsHandler struct {
	repo   task.Repo
	clock  clock.Clock
	cfg    *config.Config
	events telemetry.Repository
	logger *log.Logger
}

// dashboardOptions reads mode, date, line, tag, completedOnly and target
// from the query string. Unset values fall back to the config.
func dashboardOptions(q url.Values, cfg *config.Config, now time.Time) (analytics.DashboardOptions, error) {
	opts := analytics.DashboardOptions{
		Now:        now,
		Cursor:     now,
		TargetRate: cfg.Analytics.TargetRate,
	}

	modeStr := q.Get("mode")
	if modeStr == "" {
		modeStr = cfg.Analytics.DefaultMode
	}
	mode, err := analytics.ParseRangeMode(modeStr)
	if err != nil {
		return opts, err
	}
	opts.Mode = mode

	if d := strings.TrimSpace(q.Get("date")); d != "" {
		if !datekey.Valid(d) {
			return opts, fmt.Errorf("date %q is not YYYY-MM-DD", d)
		}
		opts.Cursor = datekey.FromKey(d)
	}

	if l := strings.TrimSpace(q.Get("line")); l != "" && l != "all" {
		n, err := strconv.Atoi(l)
		if err != nil || !model.Line(n).Valid() {
			return opts, fmt.Errorf("line %q: want 1, 2, 3 or all", l)
		}
		opts.Filters.Line = model.Line(n)
	}

	if tag := strings.TrimSpace(q.Get("tag")); tag != "" && tag != "all" {
		opts.Filters.TagID = tag
	}

	if c := strings.TrimSpace(q.Get("completedOnly")); c != "" {
		b, err := strconv.ParseBool(c)
		if err != nil {
			return opts, fmt.Errorf("completedOnly %q is not a boolean", c)
		}
		opts.Filters.CompletedOnly = b
	}

	if t := strings.TrimSpace(q.Get("target")); t != "" {
		f, err := strconv.ParseFloat(t, 64)
		if err != nil || f <= 0 || f > 1 {
			return opts, fmt.Errorf("target %q: want a number in (0, 1]", t)
		}
		opts.TargetRate = f
	}

	return opts, nil
}

func (h *analyticsHandler) build(w http.ResponseWriter, r *http.Request) (analytics.Dashboard, bool) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return analytics.Dashboard{}, false
	}
	opts, err := dashboardOptions(r.URL.Query(), h.cfg, h.clock.Now())
	if err != nil {
		writeErr(w, 400, err.Error())
		return analytics.Dashboard{}, false
	}
	tasks, err := h.repo.List()
	if err != nil {
		writeErr(w, 500, err.Error())
		return analytics.Dashboard{}, false
	}
	return analytics.BuildDashboard(tasks, opts), true
}

func (h *analyticsHandler) recordExport(r *http.Request, format string, d analytics.Dashboard) {
	if h.events == nil {
		return
	}
	err := h.events.RecordEvent(telemetry.EventReportExported, telemetry.EventMetadata{
		"format": format,
		"mode":   d.Mode,
		"from":   d.Range.FromKey,
		"to":     d.Range.ToKey,
	})
	if err != nil {
		httpmw.LogEvent(h.logger, r, "warn", "telemetry_record_failed", map[string]any{
			"event": telemetry.EventReportExported,
			"error": err.Error(),
		})
	}
}

// GET /api/analytics
func (h *analyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, d)
}

// GET /api/analytics/summary.json
func (h *analyticsHandler) SummaryJSON(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	b, err := analytics.ExportSummaryJSON(d.Summary)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	h.recordExport(r, "json", d)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics-`+d.Range.FromKey+`_`+d.Range.ToKey+`.json"`)
	w.WriteHeader(200)
	_, _ = w.Write(b)
}

// GET /api/analytics/report.txt
func (h *analyticsHandler) ReportText(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	h.recordExport(r, "text", d)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(200)
	_, _ = w.Write([]byte(d.Report))
}

// GET /api/analytics/forecast
func (h *analyticsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, d.Forecast)
}

// GET /api/analytics/habits
func (h *analyticsHandler) Habits(w http.ResponseWriter, r *http.Request) {
	d, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, d.WeekdayHabits)
}

// GET /api/telemetry/stats?since=YYYY-MM-DD; defaults to the last 7 days.
func telemetryStats(events telemetry.Repository, c clock.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeErr(w, 405, "method not allowed")
			return
		}

		since := datekey.AddDays(datekey.StartOfDay(c.Now()), -6)
		if s := strings.TrimSpace(r.URL.Query().Get("since")); s != "" {
			if !datekey.Valid(s) {
				writeErr(w, 400, fmt.Sprintf("since %q is not YYYY-MM-DD", s))
				return
			}
			since = datekey.FromKey(s)
		}

		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, stats)
	}
}
