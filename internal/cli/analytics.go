package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskodo/internal/analytics"
	"taskodo/internal/termui"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Completion, timing, streak and score for the current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.jsonOut() {
				return writeJSON(out, map[string]any{
					"range":   d.Range,
					"summary": d.Summary,
					"compare": d.Compare,
				})
			}
			termui.RenderSummary(out, d)
			return nil
		},
	}
}

func (a *app) reportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the shareable text report",
		Long: `report prints the plain-text report for the current period.
With --json it prints the summary export instead. --out writes to a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard()
			if err != nil {
				return err
			}

			var body []byte
			if a.jsonOut() {
				body, err = analytics.ExportSummaryJSON(d.Summary)
				if err != nil {
					return err
				}
				body = append(body, '\n')
			} else {
				body = []byte(d.Report + "\n")
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(outPath, body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write to this file instead of stdout")
	return cmd
}

func (a *app) insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Rule-based observations about the current period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard()
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), d.Insights)
			}
			termui.RenderInsights(cmd.OutOrStdout(), d.Insights)
			return nil
		},
	}
}

func (a *app) forecastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Workload for the week after this one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard()
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), d.Forecast)
			}
			termui.RenderForecast(cmd.OutOrStdout(), d.Forecast)
			return nil
		},
	}
}

func (a *app) habitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "habits",
		Short: "Completion consistency per weekday over the whole history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard()
			if err != nil {
				return err
			}
			if a.jsonOut() {
				return writeJSON(cmd.OutOrStdout(), d.WeekdayHabits)
			}
			termui.RenderHabits(cmd.OutOrStdout(), d.WeekdayHabits)
			return nil
		},
	}
}
