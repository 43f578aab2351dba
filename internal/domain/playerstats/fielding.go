package playerstats

import (
	"slices"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
)

func (a *accumulator) addFielding(action dismissal.FieldingAction, count int) {
	f := &a.c.Fielding
	switch action {
	case dismissal.FieldingCatch:
		f.Catches += count
	case dismissal.FieldingRunOut:
		f.RunOuts += count
	case dismissal.FieldingStumping:
		f.Stumpings += count
	}
}

// inferFielding credits the player for an opposition dismissal whose fielder
// name resolves to them. Names nobody matches and names several players match
// are flagged for review instead of being guessed silently.
func (a *accumulator) inferFielding(entry matchhistory.Entry, d matchhistory.OppositionDismissal) {
	action, ok := d.HowOut.FieldingCredit()
	if !ok {
		return
	}

	names := []string{d.HowOut.Fielder}
	if d.HowOut.Kind == dismissal.KindRunOut {
		names = dismissal.Fielders(d.HowOut.Fielder)
	}

	for _, name := range names {
		ref := a.roster.Resolve(name)
		if ref.IsResolved() {
			if ref.PlayerID == a.c.PlayerID {
				a.addFielding(action, 1)
			}
			continue
		}

		switch ref.Kind {
		case player.ReferenceAmbiguous:
			if !slices.Contains(ref.CandidateIDs, a.c.PlayerID) {
				continue
			}
			flag := ReviewFlag{MatchID: entry.MatchID, Action: action, Batter: d.Batter, Reference: ref}
			if a.opts.AmbiguousFielder == AmbiguousFirstMatch {
				flag.Credited = true
				flag.CreditedPlayerID = ref.CandidateIDs[0]
				if ref.CandidateIDs[0] == a.c.PlayerID {
					a.addFielding(action, 1)
				}
			}
			a.c.Review = append(a.c.Review, flag)
		default:
			a.c.Review = append(a.c.Review, ReviewFlag{
				MatchID:   entry.MatchID,
				Action:    action,
				Batter:    d.Batter,
				Reference: ref,
			})
		}
	}
}
