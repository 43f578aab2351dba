package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
)

type PlayerRepository struct {
	store docstore.Store
}

func NewPlayerRepository(store docstore.Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) get(ctx context.Context, playerID string) (playerDocument, bool, error) {
	doc, err := r.store.Get(ctx, CollectionPlayers, playerID)
	if errors.Is(err, docstore.ErrNotFound) {
		return playerDocument{}, false, nil
	}
	if err != nil {
		return playerDocument{}, false, fmt.Errorf("get player document: %w", err)
	}

	out, err := docstore.Decode[playerDocument](doc)
	if err != nil {
		return playerDocument{}, false, err
	}
	if out.ID == "" {
		out.ID = doc.ID
	}
	return out, true, nil
}

func (r *PlayerRepository) list(ctx context.Context) ([]playerDocument, error) {
	docs, err := r.store.List(ctx, CollectionPlayers)
	if err != nil {
		return nil, fmt.Errorf("list player documents: %w", err)
	}

	out := make([]playerDocument, 0, len(docs))
	for _, doc := range docs {
		item, err := docstore.Decode[playerDocument](doc)
		if err != nil {
			return nil, err
		}
		if item.ID == "" {
			item.ID = doc.ID
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	doc, ok, err := r.get(ctx, playerID)
	if err != nil || !ok {
		return player.Player{}, ok, err
	}
	return doc.toPlayer(), true, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	docs, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toPlayer())
	}
	return out, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	docs, err := r.list(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0)
	for _, doc := range docs {
		if doc.TeamID != teamID {
			continue
		}
		out = append(out, doc.toPlayer())
	}
	return out, nil
}

func (r *PlayerRepository) ListMatchHistory(ctx context.Context, playerID string) ([]matchhistory.Entry, error) {
	doc, ok, err := r.get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("player %s: %w", playerID, docstore.ErrNotFound)
	}
	return doc.MatchHistory, nil
}

// AppendMatch replaces an entry with the same match ID rather than duplicating it.
// The read and write happen in one Mutate, so concurrent appends do not drop entries.
func (r *PlayerRepository) AppendMatch(ctx context.Context, playerID string, entry matchhistory.Entry) error {
	err := r.store.Mutate(ctx, CollectionPlayers, playerID, func(current docstore.Document) (map[string]any, error) {
		doc, err := docstore.Decode[playerDocument](current)
		if err != nil {
			return nil, err
		}
		history := upsertByMatchID(doc.MatchHistory, entry, func(e matchhistory.Entry) string { return e.MatchID })
		return map[string]any{fieldMatchHistory: history}, nil
	})
	if err != nil {
		return fmt.Errorf("append player %s match: %w", playerID, err)
	}
	return nil
}

type PlayerStatsRepository struct {
	players *PlayerRepository
}

func NewPlayerStatsRepository(store docstore.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{players: NewPlayerRepository(store)}
}

func (r *PlayerStatsRepository) GetCareer(ctx context.Context, playerID string) (playerstats.Career, time.Time, bool, error) {
	doc, ok, err := r.players.get(ctx, playerID)
	if err != nil || !ok || doc.Stats == nil {
		return playerstats.Career{}, time.Time{}, false, err
	}

	var computedAt time.Time
	if doc.StatsUpdatedAt != nil {
		computedAt = *doc.StatsUpdatedAt
	}
	return *doc.Stats, computedAt, true, nil
}

func (r *PlayerStatsRepository) SaveCareer(ctx context.Context, career playerstats.Career, computedAt time.Time) error {
	err := r.players.store.Update(ctx, CollectionPlayers, career.PlayerID, map[string]any{
		fieldStats:          career,
		fieldStatsUpdatedAt: computedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("save player career: %w", err)
	}
	return nil
}
