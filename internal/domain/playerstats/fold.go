package playerstats

import (
	"sort"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
)

const DefaultRecentInnings = 10

type Options struct {
	OversMode        OversMode
	AmbiguousFielder AmbiguousFielderPolicy
	RecentInnings    int
}

func DefaultOptions() Options {
	return Options{
		OversMode:        OversModeBalls,
		AmbiguousFielder: AmbiguousFirstMatch,
		RecentInnings:    DefaultRecentInnings,
	}
}

func (o Options) normalize() Options {
	if o.OversMode != OversModeLegacyDecimal {
		o.OversMode = OversModeBalls
	}
	if o.AmbiguousFielder != AmbiguousSkip {
		o.AmbiguousFielder = AmbiguousFirstMatch
	}
	if o.RecentInnings <= 0 {
		o.RecentInnings = DefaultRecentInnings
	}
	return o
}

// Input is everything a career fold reads.
type Input struct {
	PlayerID string
	History  []matchhistory.Entry
	// Roster is the player's side, used to attribute fielding credits parsed
	// from opposition dismissals. An empty roster disables the inference.
	Roster player.Roster
}

// Fold rebuilds a career from scratch. It never mutates the input and the same
// input always yields a deep-equal Career.
func Fold(in Input, opts Options) Career {
	opts = opts.normalize()

	ordered := make([]matchhistory.Entry, len(in.History))
	copy(ordered, in.History)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MatchDate.Before(ordered[j].MatchDate)
	})

	acc := newAccumulator(in.PlayerID, in.Roster, opts)
	for _, entry := range ordered {
		acc.addEntry(entry)
	}

	return acc.career()
}

type accumulator struct {
	opts   Options
	roster player.Roster
	c      Career
	exact  matchhistory.Overs
}

func newAccumulator(playerID string, roster player.Roster, opts Options) *accumulator {
	return &accumulator{
		opts:   opts,
		roster: roster,
		c: Career{
			PlayerID:     playerID,
			OversMode:    opts.OversMode,
			RecentScores: []RecentScore{},
			Milestones:   []Milestone{},
		},
	}
}

func (a *accumulator) addEntry(entry matchhistory.Entry) {
	classified := matchhistory.Classify(entry)

	a.c.Matches++
	a.c.Rejected = append(a.c.Rejected, classified.Rejected...)

	for _, innings := range classified.Batting {
		a.addBatting(entry, innings)
	}
	for _, spell := range classified.Bowling {
		a.addBowling(entry, spell)
	}
	for _, f := range classified.Fielding {
		a.addFielding(f.Action, f.Count)
	}
	if a.roster.Len() > 0 {
		for _, d := range classified.Opposition {
			a.inferFielding(entry, d)
		}
	}
}

func (a *accumulator) career() Career {
	c := a.c
	if c.OversMode == OversModeBalls {
		c.Bowling.Overs = a.exact.Notation()
	}
	c.Bowling.Balls = a.exact.Balls()
	return c
}

// appendCapped keeps the newest limit items in chronological order.
func appendCapped[T any](items []T, item T, limit int) []T {
	items = append(items, item)
	if len(items) > limit {
		items = append(items[:0:0], items[len(items)-limit:]...)
	}
	return items
}
