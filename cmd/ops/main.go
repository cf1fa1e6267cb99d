package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"taskodo/internal/ops"
	"taskodo/internal/termui"
)

func main() {
	root := &cobra.Command{
		Use:           "taskodo-ops",
		Short:         "Backup, restore and restore drills for the taskodo data directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(backupCmd(), restoreCmd(), drillCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", termui.Red("error:"), err)
		os.Exit(1)
	}
}

func backupCmd() *cobra.Command {
	var dataDir, out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Archive the data directory with a checksum manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if out == "" {
				out = filepath.Join("backups", "taskodo-"+now.UTC().Format("20060102T150405Z")+".tar.gz")
			}
			m, err := ops.BackupDataDir(dataDir, out, now)
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d files, %d tasks\n", out, len(m.Files), m.TaskCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&out, "out", "", "output archive path (.tar.gz)")
	return cmd
}

func restoreCmd() *cobra.Command {
	var archive, target string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore an archive after verifying its manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if archive == "" {
				return errors.New("--archive is required")
			}
			m, err := ops.RestoreDataDir(archive, target)
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d files (%d tasks, backed up %s) into %s\n",
				len(m.Files), m.TaskCount, m.CreatedAt.Format(time.RFC3339), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&archive, "archive", "", "input backup archive (.tar.gz)")
	cmd.Flags().StringVar(&target, "target-dir", "data-restored", "restore target directory")
	return cmd
}

func drillCmd() *cobra.Command {
	var dataDir, workDir string
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Back up, restore and compare digests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := ops.Drill(dataDir, workDir, time.Now())
			if err != nil {
				return fmt.Errorf("drill: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, termui.Green("drill ok"))
			fmt.Fprintln(out, "backup:  ", res.Archive)
			fmt.Fprintln(out, "restored:", res.RestoreDir)
			fmt.Fprintln(out, "digest:  ", res.Digest)
			fmt.Fprintln(out, "tasks:   ", res.TaskCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "path to data directory")
	cmd.Flags().StringVar(&workDir, "work-dir", os.TempDir(), "temporary workspace for drill artifacts")
	return cmd
}
