package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"taskodo/internal/analytics"
	"taskodo/internal/clock"
	"taskodo/internal/config"
	"taskodo/internal/httpmw"
	"taskodo/internal/onboarding"
	"taskodo/internal/task"
	"taskodo/internal/telemetry"
	staticfiles "taskodo/static"
	"taskodo/ui/page"

	"github.com/a-h/templ"
)

type Options struct {
	Config *config.Config
	// Repo overrides the store the config describes.
	Repo          task.Repo
	Clock         clock.Clock
	Events        telemetry.Repository
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Events == nil {
		opts.Events = telemetry.NewMemoryRepositoryWithClock(opts.Clock)
	}
	if opts.Repo == nil {
		st := opts.Config.Storage
		repo, _, err := task.Open(st.Driver, st.DataDir, st.SQLitePath)
		if err != nil {
			return nil, err
		}
		opts.Repo = repo
	}
	repo := opts.Repo

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle(staticfiles.URLPrefix, http.StripPrefix(staticfiles.URLPrefix, staticHandler))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskodo",
			"time":    opts.Clock.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := repo.List(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "task storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskodo",
			"storage": opts.Config.Storage.Driver,
			"time":    opts.Clock.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	taskHandler := task.NewHandler(repo)
	taskHandler.SetClock(opts.Clock)
	taskHandler.SetEvents(opts.Events)
	taskHandler.SetLogger(opts.Logger)
	mux.HandleFunc("/api/tasks", taskHandler.TasksRoot)
	mux.HandleFunc("/api/tasks/", taskHandler.TasksSub)
	mux.HandleFunc("/api/tasks/reorder", taskHandler.TasksReorder)
	mux.HandleFunc("/api/tasks/day", taskHandler.TasksDay)
	mux.HandleFunc("/api/store/export", taskHandler.StoreExport)
	mux.HandleFunc("/api/store/import", taskHandler.StoreImport)

	ah := &analyticsHandler{repo: repo, clock: opts.Clock, cfg: opts.Config, events: opts.Events, logger: opts.Logger}
	mux.HandleFunc("/api/analytics", ah.Dashboard)
	mux.HandleFunc("/api/analytics/summary.json", ah.SummaryJSON)
	mux.HandleFunc("/api/analytics/report.txt", ah.ReportText)
	mux.HandleFunc("/api/analytics/forecast", ah.Forecast)
	mux.HandleFunc("/api/analytics/habits", ah.Habits)

	onboardingHandler := onboarding.NewHandler(repo)
	onboardingHandler.SetEvents(opts.Events)
	onboardingHandler.SetLogger(opts.Logger)
	mux.HandleFunc("/api/templates", onboardingHandler.Templates)
	mux.HandleFunc("/api/templates/apply", onboardingHandler.Apply)

	mux.HandleFunc("/api/telemetry/stats", telemetryStats(opts.Events, opts.Clock))

	mux.HandleFunc("/report", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		dopts, err := dashboardOptions(r.URL.Query(), opts.Config, opts.Clock.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tasks, err := repo.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		templ.Handler(page.ReportPage(analytics.BuildDashboard(tasks, dopts))).ServeHTTP(w, r)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/report", http.StatusFound)
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithNoStore,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("TASKODO_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
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
