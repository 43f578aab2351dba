package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	"github.com/riskibarqy/cricket-stats/internal/platform/docstore"
)

type TeamRepository struct {
	store docstore.Store
}

func NewTeamRepository(store docstore.Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) get(ctx context.Context, teamID string) (teamDocument, bool, error) {
	doc, err := r.store.Get(ctx, CollectionTeams, teamID)
	if errors.Is(err, docstore.ErrNotFound) {
		return teamDocument{}, false, nil
	}
	if err != nil {
		return teamDocument{}, false, fmt.Errorf("get team document: %w", err)
	}

	out, err := docstore.Decode[teamDocument](doc)
	if err != nil {
		return teamDocument{}, false, err
	}
	if out.ID == "" {
		out.ID = doc.ID
	}
	return out, true, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	doc, ok, err := r.get(ctx, teamID)
	if err != nil || !ok {
		return team.Team{}, ok, err
	}
	return doc.toTeam(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	docs, err := r.store.List(ctx, CollectionTeams)
	if err != nil {
		return nil, fmt.Errorf("list team documents: %w", err)
	}

	out := make([]team.Team, 0, len(docs))
	for _, doc := range docs {
		item, err := docstore.Decode[teamDocument](doc)
		if err != nil {
			return nil, err
		}
		if item.ID == "" {
			item.ID = doc.ID
		}
		out = append(out, item.toTeam())
	}
	return out, nil
}

func (r *TeamRepository) ListMatchResults(ctx context.Context, teamID string) ([]teamstats.MatchResult, error) {
	doc, ok, err := r.get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("team %s: %w", teamID, docstore.ErrNotFound)
	}
	return doc.MatchHistory, nil
}

func (r *TeamRepository) AppendMatch(ctx context.Context, teamID string, result teamstats.MatchResult) error {
	err := r.store.Mutate(ctx, CollectionTeams, teamID, func(current docstore.Document) (map[string]any, error) {
		doc, err := docstore.Decode[teamDocument](current)
		if err != nil {
			return nil, err
		}
		history := upsertByMatchID(doc.MatchHistory, result, func(m teamstats.MatchResult) string { return m.MatchID })
		return map[string]any{fieldMatchHistory: history}, nil
	})
	if err != nil {
		return fmt.Errorf("append team %s match: %w", teamID, err)
	}
	return nil
}

type TeamStatsRepository struct {
	teams *TeamRepository
}

func NewTeamStatsRepository(store docstore.Store) *TeamStatsRepository {
	return &TeamStatsRepository{teams: NewTeamRepository(store)}
}

func (r *TeamStatsRepository) GetRecord(ctx context.Context, teamID string) (teamstats.Record, time.Time, bool, error) {
	doc, ok, err := r.teams.get(ctx, teamID)
	if err != nil || !ok || doc.Stats == nil {
		return teamstats.Record{}, time.Time{}, false, err
	}

	var computedAt time.Time
	if doc.StatsUpdatedAt != nil {
		computedAt = *doc.StatsUpdatedAt
	}
	return *doc.Stats, computedAt, true, nil
}

func (r *TeamStatsRepository) SaveRecord(ctx context.Context, record teamstats.Record, computedAt time.Time) error {
	err := r.teams.store.Update(ctx, CollectionTeams, record.TeamID, map[string]any{
		fieldStats:          record,
		fieldStatsUpdatedAt: computedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("save team record: %w", err)
	}
	return nil
}
