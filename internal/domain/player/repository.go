package player

import (
	"context"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	List(ctx context.Context) ([]Player, error)
	ListByTeam(ctx context.Context, teamID string) ([]Player, error)
	ListMatchHistory(ctx context.Context, playerID string) ([]matchhistory.Entry, error)
	AppendMatch(ctx context.Context, playerID string, entry matchhistory.Entry) error
}
