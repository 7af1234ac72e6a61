package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lyricreel/internal/history"
	"lyricreel/internal/services"
	"lyricreel/internal/textutil"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lyricreel runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "history", "open", cfg.HistoryPath(), err)
			}
			defer store.Close()

			if runID != "" {
				return showRun(cmd, store, runID)
			}
			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return services.Wrap(services.ErrExternalTool, "history", "query", "", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show")
	cmd.Flags().StringVar(&runID, "run", "", "Show scene results for one run id")
	return cmd
}

func showRun(cmd *cobra.Command, store *history.Store, id string) error {
	run, err := store.Get(cmd.Context(), id)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "history", "query", "", err)
	}
	if run == nil {
		return services.Wrap(services.ErrNotFound, "history", "show", "run "+id+" not found", nil)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderRuns([]history.Run{*run}))
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", run.ErrorMessage)
	}
	scenes, err := store.Scenes(cmd.Context(), id)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "history", "query scenes", "", err)
	}
	if len(scenes) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(scenes))
	for _, scene := range scenes {
		rows = append(rows, []string{
			strconv.Itoa(scene.Sequence),
			scene.Filename,
			scene.Status,
			textutil.Truncate(scene.Error, 60),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Scene", "File", "Status", "Error"}, rows, []columnAlignment{alignRight}))
	return nil
}

func renderRuns(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if d := run.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		scenes := fmt.Sprintf("%d/%d", run.Counts.Succeeded, run.Counts.Total)
		if run.Counts.Failed > 0 {
			scenes += fmt.Sprintf(" (%d failed)", run.Counts.Failed)
		}
		rows = append(rows, []string{
			run.ID,
			run.Kind,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			scenes,
			textutil.Truncate(run.Input, 40),
		})
	}
	return renderTable(
		[]string{"Run", "Kind", "Status", "Started", "Duration", "Scenes", "Input"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}
