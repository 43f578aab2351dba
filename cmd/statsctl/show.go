package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

func newShowCommand(root *rootOptions) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a player career or team record",
	}
	cmd.PersistentFlags().BoolVar(&preview, "preview", false, "Fold history now instead of reading the stored aggregate")

	cmd.AddCommand(&cobra.Command{
		Use:   "player <id>",
		Short: "Show a player's career",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var view usecase.CareerView
			if preview {
				view, err = a.PlayerStats.Preview(cmd.Context(), args[0])
			} else {
				view, err = a.PlayerStats.GetCareer(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if root.jsonOut {
				return root.printJSON(view)
			}
			fmt.Fprintln(root.out, renderCareer(view))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "team <id>",
		Short: "Show a team's record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var view usecase.RecordView
			if preview {
				view, err = a.TeamStats.Preview(cmd.Context(), args[0])
			} else {
				view, err = a.TeamStats.GetRecord(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			if root.jsonOut {
				return root.printJSON(view)
			}
			fmt.Fprintln(root.out, renderRecord(view.Record))
			return nil
		},
	})

	return cmd
}

func renderCareer(view usecase.CareerView) string {
	c := view.Career
	r := view.Rates

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(fmt.Sprintf("%s  (%d matches, overs=%s)", c.PlayerID, c.Matches, c.OversMode))
	tbl.AppendHeader(table.Row{"Section", "Stat", "Value"})

	bat := c.Batting
	tbl.AppendRows([]table.Row{
		{"batting", "innings", bat.Innings},
		{"batting", "runs", bat.Runs},
		{"batting", "highest", highestScore(bat)},
		{"batting", "not outs", bat.NotOuts},
		{"batting", "average", r.BattingAverage},
		{"batting", "strike rate", r.StrikeRate},
		{"batting", "50s / 100s", fmt.Sprintf("%d / %d", bat.Fifties, bat.Centuries)},
		{"batting", "4s / 6s", fmt.Sprintf("%d / %d", bat.Fours, bat.Sixes)},
		{"batting", "ducks", bat.Ducks},
	})
	tbl.AppendSeparator()

	bowl := c.Bowling
	tbl.AppendRows([]table.Row{
		{"bowling", "overs", formatOvers(c)},
		{"bowling", "wickets", bowl.Wickets},
		{"bowling", "best", bestFigures(bowl.Best)},
		{"bowling", "average", r.BowlingAverage},
		{"bowling", "economy", r.Economy},
		{"bowling", "strike rate", r.BowlingStrikeRate},
		{"bowling", "5w / hat-tricks", fmt.Sprintf("%d / %d", bowl.FiveWicketHauls, bowl.HatTricks)},
	})
	tbl.AppendSeparator()

	f := c.Fielding
	tbl.AppendRows([]table.Row{
		{"fielding", "catches", f.Catches},
		{"fielding", "run outs", f.RunOuts},
		{"fielding", "stumpings", f.Stumpings},
	})

	var notes []string
	if !view.Stored {
		notes = append(notes, "not stored")
	}
	if n := len(c.Review); n > 0 {
		notes = append(notes, fmt.Sprintf("%d fielding credits need review", n))
	}
	if n := len(c.Rejected); n > 0 {
		notes = append(notes, fmt.Sprintf("%d contributions rejected", n))
	}
	if len(notes) > 0 {
		tbl.AppendFooter(table.Row{strings.Join(notes, "; ")})
	}
	return tbl.Render()
}

func highestScore(b playerstats.Batting) string {
	if b.Best == nil {
		return "-"
	}
	if b.Best.NotOut {
		return fmt.Sprintf("%d*", b.Best.Runs)
	}
	return fmt.Sprintf("%d", b.Best.Runs)
}

// formatOvers prints exact ball counts in overs notation; legacy decimal
// careers print the stored sum as is.
func formatOvers(c playerstats.Career) string {
	if c.OversMode == playerstats.OversModeLegacyDecimal {
		return fmt.Sprintf("%.1f", c.Bowling.Overs)
	}
	return matchhistory.OversFromBalls(c.Bowling.Balls).String()
}

func bestFigures(f *playerstats.Figures) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", f.Wickets, f.Runs)
}

func renderRecord(rec teamstats.Record) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(rec.TeamID)
	tbl.AppendHeader(table.Row{"P", "W", "L", "NR", "Win %", "Streak", "Form"})

	form := make([]string, 0, len(rec.RecentForm))
	for _, o := range rec.RecentForm {
		form = append(form, string(o))
	}
	streak := "-"
	if rec.CurrentStreak.Kind != teamstats.StreakNone && rec.CurrentStreak.Count > 0 {
		streak = fmt.Sprintf("%s %d", rec.CurrentStreak.Kind, rec.CurrentStreak.Count)
	}
	tbl.AppendRow(table.Row{rec.Matches, rec.Wins, rec.Losses, rec.NoResults, fmt.Sprintf("%.2f", rec.WinPercentage), streak, strings.Join(form, " ")})
	if rec.Skipped > 0 {
		tbl.AppendFooter(table.Row{fmt.Sprintf("%d matches skipped", rec.Skipped)})
	}
	return tbl.Render()
}
