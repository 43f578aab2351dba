package matchhistory

import (
	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
)

type BattingInnings struct {
	Batting
	HowOut dismissal.HowOut
}

type BowlingSpell struct {
	Bowling
	Exact Overs
}

type OppositionDismissal struct {
	Batter string
	HowOut dismissal.HowOut
}

// Rejection records a contribution dropped at the boundary.
type Rejection struct {
	MatchID string `json:"matchId"`
	Index   int    `json:"index"`
	Type    string `json:"type"`
	Reason  string `json:"reason"`
}

// Classified is an entry partitioned by contribution type with dismissals parsed.
type Classified struct {
	Batting    []BattingInnings
	Bowling    []BowlingSpell
	Fielding   []Fielding
	Opposition []OppositionDismissal
	Rejected   []Rejection
}

// Classify partitions the entry's contributions. Invalid contributions are
// rejected one by one and never stop the rest from being classified.
func Classify(entry Entry) Classified {
	out := Classified{}

	for i, c := range entry.Contributions {
		if err := c.Validate(); err != nil {
			out.Rejected = append(out.Rejected, Rejection{
				MatchID: entry.MatchID,
				Index:   i,
				Type:    string(c.Type),
				Reason:  err.Error(),
			})
			continue
		}

		switch c.Type {
		case TypeBatting:
			out.Batting = append(out.Batting, BattingInnings{
				Batting: *c.Batting,
				HowOut:  dismissal.Classify(c.Batting.Dismissal),
			})
		case TypeBowling:
			exact, _ := ParseOvers(c.Bowling.Overs)
			out.Bowling = append(out.Bowling, BowlingSpell{Bowling: *c.Bowling, Exact: exact})
		case TypeFielding:
			f := *c.Fielding
			if f.Count == 0 {
				f.Count = 1
			}
			out.Fielding = append(out.Fielding, f)
		}
	}

	if !entry.HasExplicitFielding() {
		for _, d := range entry.Dismissals {
			out.Opposition = append(out.Opposition, OppositionDismissal{
				Batter: d.Batter,
				HowOut: dismissal.Classify(d.Status),
			})
		}
	}

	return out
}
