package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
)

func newClassifyCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "classify <status>...",
		Short:   "Classify scorecard dismissal strings",
		Example: `  statsctl classify "c Sharma b Kumar" "run out (Patel/Singh)" "not out"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			results := make([]dismissal.HowOut, 0, len(args))
			for _, status := range args {
				results = append(results, dismissal.Classify(status))
			}
			if root.jsonOut {
				return root.printJSON(results)
			}
			fmt.Fprintln(root.out, renderDismissals(args, results))
			return nil
		},
	}
}

func renderDismissals(statuses []string, results []dismissal.HowOut) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Status", "Kind", "Out", "Fielder", "Bowler"})
	for i, h := range results {
		fielder := h.Fielder
		if h.Kind == dismissal.KindRunOut && fielder != "" {
			fielder = strings.Join(dismissal.Fielders(fielder), ", ")
		}
		tbl.AppendRow(table.Row{statuses[i], h.Kind, h.Out, fielder, h.Bowler})
	}
	return tbl.Render()
}
