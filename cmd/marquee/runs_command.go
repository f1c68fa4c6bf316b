package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show recent enrichment runs, or the per-record outcomes of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.Paths.DataDir)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				return printOutcomes(cmd, store, args[0])
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	return cmd
}

func printRuns(cmd *cobra.Command, store *runlog.Store, limit int) error {
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := ""
		if !run.FinishedAt.IsZero() {
			finished = run.FinishedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04"),
			finished,
			run.InputPath,
			strconv.Itoa(run.Total),
			strconv.Itoa(run.Enriched),
			strconv.Itoa(run.Review),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Run", "Started", "Finished", "Input", "Total", "Enriched", "Review", "Skipped", "Failed"},
		rows,
		[]columnAlignment{
			alignLeft, alignLeft, alignLeft, alignLeft,
			alignRight, alignRight, alignRight, alignRight, alignRight,
		},
	))
	return nil
}

func printOutcomes(cmd *cobra.Command, store *runlog.Store, runID string) error {
	outcomes, err := store.Outcomes(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No outcomes recorded for run %s.\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		verified := ""
		if outcome.Verified {
			verified = "yes"
		}
		note := outcome.Error
		if note == "" && outcome.Decision != "" {
			note = "decision: " + outcome.Decision
		}
		rows = append(rows, []string{
			outcome.Title,
			outcome.Status,
			verified,
			fmt.Sprintf("%.2f", outcome.TitleScore),
			fmt.Sprintf("%.2f", outcome.DirectorScore),
			note,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Title", "Status", "Verified", "Title score", "Director score", "Notes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
	return nil
}
