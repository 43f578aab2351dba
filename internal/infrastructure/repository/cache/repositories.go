package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	basecache "github.com/riskibarqy/cricket-stats/internal/platform/cache"
)

type found[T any] struct {
	value  T
	exists bool
}

type stamped[T any] struct {
	value      T
	computedAt time.Time
	exists     bool
}

// PlayerRepository caches player lookups and team rosters. Match history is
// always read through so recomputes see the latest entries.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	v, err := basecache.Load(ctx, r.cache, "player:id:"+playerID, func(ctx context.Context) (found[player.Player], error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		return found[player.Player]{value: item, exists: exists}, err
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	return r.next.List(ctx)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]player.Player, error) {
	items, err := basecache.Load(ctx, r.cache, "player:team:"+teamID, func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByTeam(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListMatchHistory(ctx context.Context, playerID string) ([]matchhistory.Entry, error) {
	return r.next.ListMatchHistory(ctx, playerID)
}

func (r *PlayerRepository) AppendMatch(ctx context.Context, playerID string, entry matchhistory.Entry) error {
	return r.next.AppendMatch(ctx, playerID, entry)
}

type PlayerStatsRepository struct {
	next  playerstats.Repository
	cache *basecache.Store
}

func NewPlayerStatsRepository(next playerstats.Repository, cache *basecache.Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{next: next, cache: cache}
}

func careerKey(playerID string) string {
	return "player:career:" + playerID
}

func (r *PlayerStatsRepository) GetCareer(ctx context.Context, playerID string) (playerstats.Career, time.Time, bool, error) {
	v, err := basecache.Load(ctx, r.cache, careerKey(playerID), func(ctx context.Context) (stamped[playerstats.Career], error) {
		career, at, exists, err := r.next.GetCareer(ctx, playerID)
		return stamped[playerstats.Career]{value: career, computedAt: at, exists: exists}, err
	})
	if err != nil {
		return playerstats.Career{}, time.Time{}, false, err
	}
	return v.value, v.computedAt, v.exists, nil
}

func (r *PlayerStatsRepository) SaveCareer(ctx context.Context, career playerstats.Career, computedAt time.Time) error {
	if err := r.next.SaveCareer(ctx, career, computedAt); err != nil {
		return err
	}
	r.cache.Delete(ctx, careerKey(career.PlayerID))
	return nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	v, err := basecache.Load(ctx, r.cache, "team:id:"+teamID, func(ctx context.Context) (found[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		return found[team.Team]{value: item, exists: exists}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, "team:list", r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListMatchResults(ctx context.Context, teamID string) ([]teamstats.MatchResult, error) {
	return r.next.ListMatchResults(ctx, teamID)
}

func (r *TeamRepository) AppendMatch(ctx context.Context, teamID string, result teamstats.MatchResult) error {
	return r.next.AppendMatch(ctx, teamID, result)
}

type TeamStatsRepository struct {
	next  teamstats.Repository
	cache *basecache.Store
}

func NewTeamStatsRepository(next teamstats.Repository, cache *basecache.Store) *TeamStatsRepository {
	return &TeamStatsRepository{next: next, cache: cache}
}

func recordKey(teamID string) string {
	return "team:record:" + teamID
}

func (r *TeamStatsRepository) GetRecord(ctx context.Context, teamID string) (teamstats.Record, time.Time, bool, error) {
	v, err := basecache.Load(ctx, r.cache, recordKey(teamID), func(ctx context.Context) (stamped[teamstats.Record], error) {
		record, at, exists, err := r.next.GetRecord(ctx, teamID)
		return stamped[teamstats.Record]{value: record, computedAt: at, exists: exists}, err
	})
	if err != nil {
		return teamstats.Record{}, time.Time{}, false, err
	}
	return v.value, v.computedAt, v.exists, nil
}

func (r *TeamStatsRepository) SaveRecord(ctx context.Context, record teamstats.Record, computedAt time.Time) error {
	if err := r.next.SaveRecord(ctx, record, computedAt); err != nil {
		return err
	}
	r.cache.Delete(ctx, recordKey(record.TeamID))
	return nil
}
