package playerstats

import (
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
)

const (
	HatTrickWickets       = 3
	FiveWicketHaulWickets = 5
)

// IsBetterFigures reports whether a beats b: more wickets, or equal wickets for fewer runs.
func IsBetterFigures(a, b Figures) bool {
	return a.Wickets > b.Wickets || (a.Wickets == b.Wickets && a.Runs < b.Runs)
}

func (a *accumulator) addBowling(entry matchhistory.Entry, spell matchhistory.BowlingSpell) {
	b := &a.c.Bowling

	b.Innings++
	b.Maidens += spell.Maidens
	b.Runs += spell.Runs
	b.Wickets += spell.Wickets

	a.exact = a.exact.Add(spell.Exact)
	if a.opts.OversMode == OversModeLegacyDecimal {
		b.Overs = matchhistory.AddDecimalOvers(b.Overs, spell.Overs)
	}

	figures := Figures{Wickets: spell.Wickets, Runs: spell.Runs, MatchID: entry.MatchID}
	if b.Best == nil || IsBetterFigures(figures, *b.Best) {
		b.Best = &figures
	}

	if spell.Wickets >= HatTrickWickets {
		b.HatTricks++
		a.addMilestone(entry, MilestoneHatTrick, spell.Wickets)
	}
	if spell.Wickets >= FiveWicketHaulWickets {
		b.FiveWicketHauls++
		a.addMilestone(entry, MilestoneFiveWicketHaul, spell.Wickets)
	}
}
