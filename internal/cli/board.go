package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"taskodo/internal/clock"
	"taskodo/internal/model"
	"taskodo/internal/onboarding"
	"taskodo/internal/remind"
	"taskodo/internal/task"
	"taskodo/internal/termui"
)

func (a *app) exportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := task.Export(a.repo)
			if err != nil {
				return err
			}
			b = append(b, '\n')
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return os.WriteFile(outPath, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "snapshot file (default stdout)")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the board with a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				b   []byte
				err error
			)
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			n, err := task.Import(a.repo, b)
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"ok": true, "count": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks\n", n)
			return nil
		},
	}
}

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and check off board tasks",
	}

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Tasks scheduled on --date (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.dayKey()
			if err != nil {
				return err
			}
			var tasks []model.Task
			if all {
				tasks, err = a.repo.List()
			} else {
				tasks, err = a.repo.ForDate(key)
			}
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			termui.RenderTasks(cmd.OutOrStdout(), tasks, key)
			return nil
		},
	}
	list.Flags().BoolVar(&all, "all", false, "every task on the board")

	check := &cobra.Command{
		Use:   "check <id>",
		Short: "Toggle the check of a task on --date (default today)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.dayKey()
			if err != nil {
				return err
			}
			t, err := a.repo.ToggleCheck(model.TaskID(args[0]), key, clock.TodayKey(a.deps.Clock))
			if errors.Is(err, task.ErrNotFound) {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			_, done := t.CheckFor(key)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", termui.CheckIcon(done), t.Title, key)
			return nil
		},
	}

	cmd.AddCommand(list, check)
	return cmd
}

func (a *app) templatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Starter task packs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the built-in templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := onboarding.List()
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), ts)
			}
			for _, t := range ts {
				mark := " "
				if t.ID == onboarding.DefaultTemplateID {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-14s %2d tasks  %s\n", mark, t.ID, len(t.Tasks), termui.Dim(t.Desc))
			}
			return nil
		},
	}

	apply := &cobra.Command{
		Use:   "apply [id]",
		Short: "Append a template's tasks to the board",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			created, err := onboarding.ApplyTemplate(a.repo, id)
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d tasks\n", len(created))
			return nil
		},
	}

	cmd.AddCommand(list, apply)
	return cmd
}

func (a *app) remindCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Desktop notification listing today's open tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.dayKey()
			if err != nil {
				return err
			}
			tasks, err := a.repo.List()
			if err != nil {
				return err
			}
			d := remind.Build(tasks, key)

			if a.jsonOut() {
				if err := writeJSON(cmd.OutOrStdout(), d); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), d.Message())
			}
			if dryRun || !a.cfg.Reminders.Enabled {
				return nil
			}

			n := a.deps.Notifier
			if n == nil {
				n = remind.BeeepNotifier{AppName: a.cfg.Reminders.Title}
			}
			_, err = remind.Notify(n, a.cfg.Reminders.Title, d)
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest without notifying")
	return cmd
}
