package team

import (
	"context"

	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	ListMatchResults(ctx context.Context, teamID string) ([]teamstats.MatchResult, error)
	AppendMatch(ctx context.Context, teamID string, result teamstats.MatchResult) error
}
