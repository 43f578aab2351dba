package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

type recomputeOptions struct {
	*rootOptions
	workers int
	dryRun  bool
}

func newRecomputeCommand(root *rootOptions) *cobra.Command {
	opts := &recomputeOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild aggregates from full match history",
	}
	cmd.PersistentFlags().IntVar(&opts.workers, "workers", 0, "Concurrent recomputes (0 = RECOMPUTE_MAX_WORKERS)")
	cmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "Fold without saving")

	cmd.AddCommand(&cobra.Command{
		Use:   "player <id>...",
		Short: "Recompute the given players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, usecase.RecomputeInput{PlayerIDs: args})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "team <id>...",
		Short: "Recompute the given teams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, usecase.RecomputeInput{TeamIDs: args})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Recompute every player and team in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, usecase.RecomputeInput{All: true})
		},
	})

	return cmd
}

func (o *recomputeOptions) run(cmd *cobra.Command, input usecase.RecomputeInput) error {
	a, err := o.loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	input.MaxWorkers = o.workers
	input.DryRun = o.dryRun
	result, err := a.Recompute.Run(cmd.Context(), input)
	if err != nil {
		return err
	}

	if o.jsonOut {
		if err := o.printJSON(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(o.out, renderRecompute(result))
	}
	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d recomputes failed", result.FailedCount, result.TaskCount)
	}
	return nil
}

func renderRecompute(result usecase.RecomputeResult) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("run %s", result.RunID))
	tbl.AppendHeader(table.Row{"Entity", "ID", "Status", "Matches", "Review", "Rejected", "ms", "Message"})
	for _, task := range result.Tasks {
		tbl.AppendRow(table.Row{task.Entity, task.ID, task.Status, task.Matches, task.ReviewFlags, task.Rejected, task.DurationMs, task.Message})
	}

	footer := fmt.Sprintf("%d ok, %d failed, %d skipped, %d workers", result.SuccessCount, result.FailedCount, result.SkippedCount, result.WorkerCount)
	if result.DryRun {
		footer += " (dry run)"
	}
	tbl.AppendFooter(table.Row{footer})
	return tbl.Render()
}
