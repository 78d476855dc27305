package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"subforge/internal/report"
)

func newHistoryCommand(cctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := report.Open(cfg.Paths.ReportDB)
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				return printRunJobs(cmd, store, runID)
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the jobs of one run instead")
	return cmd
}

func printRuns(cmd *cobra.Command, store *report.Store, limit int) error {
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			finished,
			run.InputDir,
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Succeeded),
			strconv.Itoa(run.Failed),
		})
	}
	headers := []string{"Run", "Started", "Finished", "Input", "Total", "OK", "Failed"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}
	printRows(out, headers, rows, aligns)
	return nil
}

func printRunJobs(cmd *cobra.Command, store *report.Store, runID string) error {
	jobs, err := store.JobsForRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintf(out, "No jobs recorded for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			filepath.Base(job.SourcePath),
			job.Language,
			job.Status,
			job.Duration.Round(time.Second).String(),
			job.Error,
		})
	}
	headers := []string{"Source", "Lang", "Status", "Duration", "Detail"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
	printRows(out, headers, rows, aligns)
	return nil
}

// printRows renders a table on a TTY and tab-separated plain rows
// otherwise, so history stays greppable in pipelines.
func printRows(out io.Writer, headers []string, rows [][]string, aligns []columnAlignment) {
	if file, ok := out.(*os.File); ok && isatty.IsTerminal(file.Fd()) {
		fmt.Fprintln(out, renderTable(headers, rows, aligns))
		return
	}
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}
