package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"taskodo/internal/analytics"
	"taskodo/internal/clock"
	"taskodo/internal/config"
	"taskodo/internal/datekey"
	"taskodo/internal/model"
	"taskodo/internal/remind"
	"taskodo/internal/task"
)

// Deps are the pieces tests swap out.
type Deps struct {
	Clock    clock.Clock
	Notifier remind.Notifier
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	deps Deps
	v    *viper.Viper

	cfg     *config.Config
	repo    task.Repo
	closeFn func() error
}

// NewRootCommand builds the taskodo command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Clock == nil {
		deps.Clock = clock.RealClock{}
	}
	a := &app{deps: deps, v: viper.New()}

	root := &cobra.Command{
		Use:   "taskodo",
		Short: "Weekly task board and completion analytics",
		Long: `taskodo reads the weekly task board and prints completion analytics:
summary, shareable report, insights, next-week forecast and weekday habits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", config.DefaultPath, "config file")
	pf.String("data-dir", "", "data directory (overrides storage.data_dir)")
	pf.String("storage", "", "storage driver: file, sqlite or memory")
	pf.Bool("json", false, "machine-readable JSON output")
	pf.Float64("target", 0, "target completion rate in (0, 1]")
	pf.String("mode", "", "range mode: day, week or month")
	pf.String("date", "", "cursor date YYYY-MM-DD (default today)")
	pf.String("line", "", "only tasks in line 1, 2 or 3")
	pf.String("tag", "", "only tasks carrying this tag id")
	pf.Bool("completed-only", false, "count only completed tasks as scheduled")

	a.v.SetEnvPrefix("TASKODO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	for key, flag := range map[string]string{
		"config":         "config",
		"data_dir":       "data-dir",
		"storage":        "storage",
		"json":           "json",
		"target_rate":    "target",
		"mode":           "mode",
		"date":           "date",
		"line":           "line",
		"tag":            "tag",
		"completed_only": "completed-only",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.summaryCmd(),
		a.reportCmd(),
		a.insightsCmd(),
		a.forecastCmd(),
		a.habitsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.tasksCmd(),
		a.templatesCmd(),
		a.remindCmd(),
	)
	return root
}

// Execute runs the CLI against os.Args.
func Execute(version string) error {
	root := NewRootCommand(Deps{})
	root.Version = version
	return root.Execute()
}

// open loads the config file, applies flag and env overrides, and opens
// the task store.
func (a *app) open() error {
	cfg, err := config.LoadOrDefault(a.v.GetString("config"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.v.IsSet("data_dir") && a.v.GetString("data_dir") != "" {
		cfg.Storage.DataDir = a.v.GetString("data_dir")
		cfg.Storage.SQLitePath = ""
		cfg.Storage.ApplyDefaults()
	}
	if a.v.IsSet("storage") && a.v.GetString("storage") != "" {
		cfg.Storage.Driver = strings.ToLower(a.v.GetString("storage"))
	}
	if a.v.IsSet("target_rate") {
		rate := a.v.GetFloat64("target_rate")
		if rate <= 0 || rate > 1 {
			return fmt.Errorf("target %v: want a number in (0, 1]", rate)
		}
		cfg.Analytics.TargetRate = rate
	}
	if a.v.IsSet("mode") && a.v.GetString("mode") != "" {
		cfg.Analytics.DefaultMode = strings.ToLower(a.v.GetString("mode"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo, closeFn, err := task.Open(cfg.Storage.Driver, cfg.Storage.DataDir, cfg.Storage.SQLitePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.cfg, a.repo, a.closeFn = cfg, repo, closeFn
	return nil
}

func (a *app) close() error {
	if a.closeFn == nil {
		return nil
	}
	err := a.closeFn()
	a.closeFn = nil
	return err
}

func (a *app) jsonOut() bool {
	return a.v.GetBool("json")
}

// dayKey is --date or today.
func (a *app) dayKey() (string, error) {
	d := strings.TrimSpace(a.v.GetString("date"))
	if d == "" {
		return clock.TodayKey(a.deps.Clock), nil
	}
	if !datekey.Valid(d) {
		return "", fmt.Errorf("date %q is not YYYY-MM-DD", d)
	}
	return d, nil
}

func (a *app) dashboard() (analytics.Dashboard, error) {
	mode, err := analytics.ParseRangeMode(a.cfg.Analytics.DefaultMode)
	if err != nil {
		return analytics.Dashboard{}, err
	}
	cursorKey, err := a.dayKey()
	if err != nil {
		return analytics.Dashboard{}, err
	}

	var f analytics.Filters
	if l := strings.TrimSpace(a.v.GetString("line")); l != "" && l != "all" {
		n, err := strconv.Atoi(l)
		if err != nil || !model.Line(n).Valid() {
			return analytics.Dashboard{}, fmt.Errorf("line %q: want 1, 2, 3 or all", l)
		}
		f.Line = model.Line(n)
	}
	if tag := strings.TrimSpace(a.v.GetString("tag")); tag != "" && tag != "all" {
		f.TagID = tag
	}
	f.CompletedOnly = a.v.GetBool("completed_only")

	tasks, err := a.repo.List()
	if err != nil {
		return analytics.Dashboard{}, err
	}
	return analytics.BuildDashboard(tasks, analytics.DashboardOptions{
		Mode:       mode,
		Cursor:     datekey.FromKey(cursorKey),
		Now:        a.deps.Clock.Now(),
		Filters:    f,
		TargetRate: a.cfg.Analytics.TargetRate,
	}), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
