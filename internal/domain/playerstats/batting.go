package playerstats

import (
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
)

const (
	FiftyRuns   = 50
	CenturyRuns = 100
)

// addBatting folds one innings. Milestones count regardless of dismissal, so an
// unbeaten hundred is still a century.
func (a *accumulator) addBatting(entry matchhistory.Entry, innings matchhistory.BattingInnings) {
	b := &a.c.Batting
	notOut := innings.HowOut.IsNotOut()

	b.Innings++
	b.Runs += innings.Runs
	b.Balls += innings.Balls
	b.Fours += innings.Fours
	b.Sixes += innings.Sixes

	candidate := BattingBest{
		Runs:    innings.Runs,
		Balls:   innings.Balls,
		Fours:   innings.Fours,
		Sixes:   innings.Sixes,
		NotOut:  notOut,
		MatchID: entry.MatchID,
	}
	if b.Best == nil || IsBetterInnings(candidate, *b.Best) {
		b.HighestScore = innings.Runs
		b.Best = &candidate
	}

	if notOut {
		b.NotOuts++
	} else if innings.Runs == 0 {
		b.Ducks++
	}

	switch {
	case innings.Runs >= CenturyRuns:
		b.Centuries++
		a.addMilestone(entry, MilestoneCentury, innings.Runs)
	case innings.Runs >= FiftyRuns:
		b.Fifties++
		a.addMilestone(entry, MilestoneFifty, innings.Runs)
	}

	a.c.RecentScores = appendCapped(a.c.RecentScores, RecentScore{
		MatchID:   entry.MatchID,
		MatchDate: entry.MatchDate,
		Runs:      innings.Runs,
		Balls:     innings.Balls,
		NotOut:    notOut,
	}, a.opts.RecentInnings)
}

// IsBetterInnings ranks career-best candidates: more runs, then fewer balls,
// then unbeaten, then more fours, more sixes, and finally the lower match ID.
// The ordering is total, so the best does not depend on fold order.
func IsBetterInnings(a, b BattingBest) bool {
	switch {
	case a.Runs != b.Runs:
		return a.Runs > b.Runs
	case a.Balls != b.Balls:
		return a.Balls < b.Balls
	case a.NotOut != b.NotOut:
		return a.NotOut
	case a.Fours != b.Fours:
		return a.Fours > b.Fours
	case a.Sixes != b.Sixes:
		return a.Sixes > b.Sixes
	default:
		return a.MatchID < b.MatchID
	}
}

func (a *accumulator) addMilestone(entry matchhistory.Entry, kind MilestoneKind, value int) {
	a.c.Milestones = append(a.c.Milestones, Milestone{
		Kind:      kind,
		MatchID:   entry.MatchID,
		MatchDate: entry.MatchDate,
		Value:     value,
	})
}
