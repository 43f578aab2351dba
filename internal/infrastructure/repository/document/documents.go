package document

import (
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
)

const (
	CollectionPlayers = "players"
	CollectionTeams   = "teams"
)

const (
	fieldMatchHistory   = "matchHistory"
	fieldStats          = "stats"
	fieldStatsUpdatedAt = "statsUpdatedAt"
)

type playerDocument struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	ShortName      string               `json:"shortName,omitempty"`
	TeamID         string               `json:"teamId,omitempty"`
	MatchHistory   []matchhistory.Entry `json:"matchHistory,omitempty"`
	Stats          *playerstats.Career  `json:"stats,omitempty"`
	StatsUpdatedAt *time.Time           `json:"statsUpdatedAt,omitempty"`
}

func (d playerDocument) toPlayer() player.Player {
	return player.Player{
		ID:        d.ID,
		Name:      d.Name,
		ShortName: d.ShortName,
		TeamID:    d.TeamID,
	}
}

type teamDocument struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	ShortName      string                  `json:"shortName,omitempty"`
	MatchHistory   []teamstats.MatchResult `json:"matchHistory,omitempty"`
	Stats          *teamstats.Record       `json:"stats,omitempty"`
	StatsUpdatedAt *time.Time              `json:"statsUpdatedAt,omitempty"`
}

func (d teamDocument) toTeam() team.Team {
	return team.Team{
		ID:        d.ID,
		Name:      d.Name,
		ShortName: d.ShortName,
	}
}

// upsertByMatchID replaces the item sharing a match ID, or appends it.
func upsertByMatchID[T any](items []T, item T, matchID func(T) string) []T {
	out := make([]T, 0, len(items)+1)
	replaced := false
	for _, existing := range items {
		if matchID(existing) == matchID(item) {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}
