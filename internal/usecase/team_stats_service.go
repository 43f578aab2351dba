package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

type RecordView struct {
	Record     teamstats.Record `json:"record"`
	ComputedAt time.Time        `json:"computedAt"`
	Stored     bool             `json:"stored"`
}

type TeamAppendResult struct {
	Queued bool        `json:"queued"`
	Record *RecordView `json:"record,omitempty"`
}

type TeamStatsService struct {
	teams    team.Repository
	stats    teamstats.Repository
	queue    JobQueue
	recorder Recorder
	opts     teamstats.Options
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamStatsService(
	teams team.Repository,
	stats teamstats.Repository,
	queue JobQueue,
	recorder Recorder,
	opts teamstats.Options,
	logger *logging.Logger,
) *TeamStatsService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamStatsService{
		teams:    teams,
		stats:    stats,
		queue:    queue,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *TeamStatsService) GetRecord(ctx context.Context, teamID string) (RecordView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.GetRecord", attribute.String("team.id", teamID))
	defer span.End()

	t, err := s.getTeam(ctx, teamID)
	if err != nil {
		return RecordView{}, err
	}

	record, computedAt, exists, err := s.stats.GetRecord(ctx, t.ID)
	if err != nil {
		return RecordView{}, fmt.Errorf("get team record: %w", err)
	}
	if exists {
		return RecordView{Record: record, ComputedAt: computedAt, Stored: true}, nil
	}

	record, err = s.fold(ctx, t)
	if err != nil {
		return RecordView{}, err
	}
	return RecordView{Record: record, ComputedAt: s.now().UTC()}, nil
}

func (s *TeamStatsService) Preview(ctx context.Context, teamID string) (RecordView, error) {
	t, err := s.getTeam(ctx, teamID)
	if err != nil {
		return RecordView{}, err
	}
	record, err := s.fold(ctx, t)
	if err != nil {
		return RecordView{}, err
	}
	return RecordView{Record: record, ComputedAt: s.now().UTC()}, nil
}

func (s *TeamStatsService) Recompute(ctx context.Context, teamID string) (view RecordView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.Recompute", attribute.String("team.id", teamID))
	defer span.End()

	start := s.now()
	defer func() { s.recorder.ObserveRecompute(EntityTeam, err, s.now().Sub(start)) }()

	t, err := s.getTeam(ctx, teamID)
	if err != nil {
		return RecordView{}, err
	}
	record, err := s.fold(ctx, t)
	if err != nil {
		return RecordView{}, err
	}

	computedAt := s.now().UTC()
	if err := s.stats.SaveRecord(ctx, record, computedAt); err != nil {
		return RecordView{}, fmt.Errorf("save team record: %w", err)
	}

	s.logger.InfoContext(ctx, "team record recomputed",
		"team_id", t.ID,
		"matches", record.Matches,
		"wins", record.Wins,
		"losses", record.Losses,
		"skipped", record.Skipped,
		"streak", record.CurrentStreak.Kind,
	)
	return RecordView{Record: record, ComputedAt: computedAt, Stored: true}, nil
}

// AppendMatch records a result the team played in, then queues a recompute.
func (s *TeamStatsService) AppendMatch(ctx context.Context, teamID string, result teamstats.MatchResult) (TeamAppendResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamStatsService.AppendMatch",
		attribute.String("team.id", teamID),
		attribute.String("match.id", result.MatchID),
	)
	defer span.End()

	if err := result.Validate(); err != nil {
		return TeamAppendResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if result.MatchDate.IsZero() {
		return TeamAppendResult{}, fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}

	t, err := s.getTeam(ctx, teamID)
	if err != nil {
		return TeamAppendResult{}, err
	}
	if (result.Team1 != "" || result.Team2 != "") && !t.Matches(result.Team1) && !t.Matches(result.Team2) {
		return TeamAppendResult{}, fmt.Errorf("%w: team %s did not play match %s", ErrInvalidInput, t.ID, result.MatchID)
	}

	if err := s.teams.AppendMatch(ctx, t.ID, result); err != nil {
		return TeamAppendResult{}, fmt.Errorf("append team match: %w", err)
	}

	if s.queue != nil {
		job := RecomputeJob{Entity: EntityTeam, ID: t.ID}
		err := s.queue.Enqueue(ctx, RecomputeJobPath, job, 0, recomputeDedupKey(EntityTeam, t.ID, result.MatchID, result))
		if err == nil {
			return TeamAppendResult{Queued: true}, nil
		}
		s.logger.WarnContext(ctx, "enqueue team recompute failed, recomputing inline", "team_id", t.ID, "error", err)
	}

	view, err := s.Recompute(ctx, t.ID)
	if err != nil {
		return TeamAppendResult{}, err
	}
	return TeamAppendResult{Record: &view}, nil
}

func (s *TeamStatsService) getTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	t, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	return t, nil
}

// fold lets winners be declared by the team's name or short name as well as its id.
func (s *TeamStatsService) fold(ctx context.Context, t team.Team) (teamstats.Record, error) {
	results, err := s.teams.ListMatchResults(ctx, t.ID)
	if err != nil {
		return teamstats.Record{}, fmt.Errorf("list match results: %w", err)
	}

	opts := s.opts
	opts.Aliases = append(append([]string(nil), s.opts.Aliases...), t.Name)
	if t.ShortName != "" {
		opts.Aliases = append(opts.Aliases, t.ShortName)
	}
	return teamstats.Fold(t.ID, results, opts), nil
}
