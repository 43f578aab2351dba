package player

import (
	"strings"
)

// ReferenceKind tells how a scorecard name was attributed to a roster player.
type ReferenceKind string

const (
	ReferenceResolved   ReferenceKind = "resolved"
	ReferenceUnresolved ReferenceKind = "unresolved"
	ReferenceAmbiguous  ReferenceKind = "ambiguous"
)

// Reference is the outcome of matching a free-text name against a roster.
// PlayerID is set only when resolved; CandidateIDs only when ambiguous.
type Reference struct {
	Kind         ReferenceKind `json:"kind"`
	RawName      string        `json:"rawName"`
	PlayerID     string        `json:"playerId,omitempty"`
	CandidateIDs []string      `json:"candidateIds,omitempty"`
}

func (r Reference) IsResolved() bool {
	return r.Kind == ReferenceResolved
}

// Roster is an ordered list of players that scorecard names are matched against.
type Roster struct {
	players []Player
}

func NewRoster(players []Player) Roster {
	items := make([]Player, len(players))
	copy(items, players)
	return Roster{players: items}
}

func (r Roster) Len() int {
	return len(r.players)
}

// Resolve matches name against the roster. An exact name or short name match
// wins outright. Otherwise a player is a candidate, in roster order, when their
// name or short name contains the raw text ("Koh" in "Virat Kohli"), or when
// every raw word starts one of their name words ("V Kohli").
func (r Roster) Resolve(name string) Reference {
	raw := strings.TrimSpace(name)
	ref := Reference{Kind: ReferenceUnresolved, RawName: raw}
	if raw == "" {
		return ref
	}

	var exact []string
	var partial []string
	words := strings.Fields(strings.ToLower(raw))
	for _, p := range r.players {
		if strings.EqualFold(p.Name, raw) || (p.ShortName != "" && strings.EqualFold(p.ShortName, raw)) {
			exact = append(exact, p.ID)
			continue
		}
		if containsName(p, strings.ToLower(raw)) || matchesWordPrefixes(p, words) {
			partial = append(partial, p.ID)
		}
	}

	candidates := exact
	if len(candidates) == 0 {
		candidates = partial
	}

	switch len(candidates) {
	case 0:
		return ref
	case 1:
		ref.Kind = ReferenceResolved
		ref.PlayerID = candidates[0]
		return ref
	default:
		ref.Kind = ReferenceAmbiguous
		ref.CandidateIDs = candidates
		return ref
	}
}

func containsName(p Player, lowerRaw string) bool {
	if strings.Contains(strings.ToLower(p.Name), lowerRaw) {
		return true
	}
	return p.ShortName != "" && strings.Contains(strings.ToLower(p.ShortName), lowerRaw)
}

func matchesWordPrefixes(p Player, words []string) bool {
	if len(words) == 0 {
		return false
	}

	known := strings.Fields(strings.ToLower(p.Name + " " + p.ShortName))
	for _, w := range words {
		found := false
		for _, k := range known {
			if strings.HasPrefix(k, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
