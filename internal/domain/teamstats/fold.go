package teamstats

import (
	"math"
	"sort"
	"strings"
)

const (
	DefaultRecentMatches = 10
	DefaultRecentForm    = 5
)

type Options struct {
	RecentMatches int
	RecentForm    int
	// Aliases are extra labels (name, short name) a winner may be declared by.
	Aliases []string
}

func DefaultOptions() Options {
	return Options{
		RecentMatches: DefaultRecentMatches,
		RecentForm:    DefaultRecentForm,
	}
}

func (o Options) normalize() Options {
	if o.RecentMatches <= 0 {
		o.RecentMatches = DefaultRecentMatches
	}
	if o.RecentForm <= 0 {
		o.RecentForm = DefaultRecentForm
	}
	return o
}

// Fold replays the team's results in chronological order. Streaks depend on
// that order, so ties on date keep their input order.
func Fold(teamID string, results []MatchResult, opts Options) Record {
	opts = opts.normalize()
	identity := newIdentity(teamID, opts.Aliases)

	ordered := make([]MatchResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MatchDate.Before(ordered[j].MatchDate)
	})

	record := Record{
		TeamID:        teamID,
		CurrentStreak: Streak{Kind: StreakNone},
		RecentMatches: []RecentMatch{},
		RecentForm:    []Outcome{},
	}

	for _, m := range ordered {
		if !m.IsCompleted() {
			record.Skipped++
			continue
		}

		outcome := identity.outcome(m.WinnerID)
		record.Matches++
		switch outcome {
		case OutcomeWin:
			record.Wins++
			record.CurrentStreak = extend(record.CurrentStreak, StreakWin)
			record.LongestWinStreak = max(record.LongestWinStreak, record.CurrentStreak.Count)
		case OutcomeLoss:
			record.Losses++
			record.CurrentStreak = extend(record.CurrentStreak, StreakLoss)
			record.LongestLossStreak = max(record.LongestLossStreak, record.CurrentStreak.Count)
		default:
			record.NoResults++
			record.CurrentStreak = Streak{Kind: StreakNone}
		}

		record.RecentMatches = appendCapped(record.RecentMatches, RecentMatch{
			MatchID:   m.MatchID,
			MatchDate: m.MatchDate,
			Opponent:  identity.opponent(m),
			Venue:     m.Venue,
			Outcome:   outcome,
			Result:    m.Result,
		}, opts.RecentMatches)
		record.RecentForm = appendCapped(record.RecentForm, outcome, opts.RecentForm)
	}

	record.WinPercentage = winPercentage(record.Wins, record.Matches)
	return record
}

func extend(current Streak, kind StreakKind) Streak {
	if current.Kind == kind {
		return Streak{Kind: kind, Count: current.Count + 1}
	}
	return Streak{Kind: kind, Count: 1}
}

// appendCapped keeps the newest limit items in chronological order.
func appendCapped[T any](items []T, item T, limit int) []T {
	items = append(items, item)
	if len(items) > limit {
		items = append(items[:0:0], items[len(items)-limit:]...)
	}
	return items
}

func winPercentage(wins, matches int) float64 {
	if matches == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(matches)*100*100) / 100
}

type identity struct {
	labels []string
}

func newIdentity(teamID string, aliases []string) identity {
	labels := make([]string, 0, len(aliases)+1)
	for _, label := range append([]string{teamID}, aliases...) {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return identity{labels: labels}
}

func (i identity) is(label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	for _, own := range i.labels {
		if strings.EqualFold(own, label) {
			return true
		}
	}
	return false
}

func (i identity) outcome(winnerID string) Outcome {
	if strings.TrimSpace(winnerID) == "" {
		return OutcomeNoResult
	}
	if i.is(winnerID) {
		return OutcomeWin
	}
	return OutcomeLoss
}

func (i identity) opponent(m MatchResult) string {
	switch {
	case i.is(m.Team1):
		return m.Team2
	case i.is(m.Team2):
		return m.Team1
	default:
		return ""
	}
}
