package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/domain/matchhistory"
	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

// CareerView is a career plus the rates derived from it at read time.
type CareerView struct {
	Career     playerstats.Career `json:"career"`
	Rates      playerstats.Rates  `json:"rates"`
	ComputedAt time.Time          `json:"computedAt"`
	// Stored is false when the career was folded on the fly for this read.
	Stored bool `json:"stored"`
}

type AppendResult struct {
	Queued bool `json:"queued"`
	// Career is set when the recompute ran inline.
	Career *CareerView `json:"career,omitempty"`
}

type PlayerStatsService struct {
	players  player.Repository
	stats    playerstats.Repository
	queue    JobQueue
	recorder Recorder
	opts     playerstats.Options
	logger   *logging.Logger
	now      func() time.Time
}

// NewPlayerStatsService wires the player use cases. A nil queue makes
// AppendMatch recompute inline.
func NewPlayerStatsService(
	players player.Repository,
	stats playerstats.Repository,
	queue JobQueue,
	recorder Recorder,
	opts playerstats.Options,
	logger *logging.Logger,
) *PlayerStatsService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerStatsService{
		players:  players,
		stats:    stats,
		queue:    queue,
		recorder: recorder,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *PlayerStatsService) GetCareer(ctx context.Context, playerID string) (CareerView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.GetCareer", attribute.String("player.id", playerID))
	defer span.End()

	p, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return CareerView{}, err
	}

	career, computedAt, exists, err := s.stats.GetCareer(ctx, p.ID)
	if err != nil {
		return CareerView{}, fmt.Errorf("get career: %w", err)
	}
	if exists {
		return CareerView{Career: career, Rates: playerstats.ComputeRates(career), ComputedAt: computedAt, Stored: true}, nil
	}

	career, err = s.fold(ctx, p)
	if err != nil {
		return CareerView{}, err
	}
	return CareerView{Career: career, Rates: playerstats.ComputeRates(career), ComputedAt: s.now().UTC()}, nil
}

// Preview folds the player's history without persisting the result.
func (s *PlayerStatsService) Preview(ctx context.Context, playerID string) (CareerView, error) {
	p, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return CareerView{}, err
	}
	career, err := s.fold(ctx, p)
	if err != nil {
		return CareerView{}, err
	}
	return CareerView{Career: career, Rates: playerstats.ComputeRates(career), ComputedAt: s.now().UTC()}, nil
}

// Recompute rebuilds the stored career from the full match history.
func (s *PlayerStatsService) Recompute(ctx context.Context, playerID string) (view CareerView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.Recompute", attribute.String("player.id", playerID))
	defer span.End()

	start := s.now()
	defer func() { s.recorder.ObserveRecompute(EntityPlayer, err, s.now().Sub(start)) }()

	p, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return CareerView{}, err
	}
	career, err := s.fold(ctx, p)
	if err != nil {
		return CareerView{}, err
	}

	s.report(ctx, career)

	computedAt := s.now().UTC()
	if err := s.stats.SaveCareer(ctx, career, computedAt); err != nil {
		return CareerView{}, fmt.Errorf("save career: %w", err)
	}

	s.logger.InfoContext(ctx, "player career recomputed",
		"player_id", p.ID,
		"matches", career.Matches,
		"runs", career.Batting.Runs,
		"wickets", career.Bowling.Wickets,
		"review_flags", len(career.Review),
		"rejected", len(career.Rejected),
	)
	return CareerView{Career: career, Rates: playerstats.ComputeRates(career), ComputedAt: computedAt, Stored: true}, nil
}

// AppendMatch records a new match for the player, then queues a recompute.
// When no queue is configured, or enqueueing fails, the recompute runs inline.
func (s *PlayerStatsService) AppendMatch(ctx context.Context, playerID string, entry matchhistory.Entry) (AppendResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.AppendMatch",
		attribute.String("player.id", playerID),
		attribute.String("match.id", entry.MatchID),
	)
	defer span.End()

	if err := validateEntry(entry); err != nil {
		return AppendResult{}, err
	}
	p, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return AppendResult{}, err
	}
	if err := s.players.AppendMatch(ctx, p.ID, entry); err != nil {
		return AppendResult{}, fmt.Errorf("append match: %w", err)
	}

	if s.queue != nil {
		job := RecomputeJob{Entity: EntityPlayer, ID: p.ID}
		err := s.queue.Enqueue(ctx, RecomputeJobPath, job, 0, recomputeDedupKey(EntityPlayer, p.ID, entry.MatchID, entry))
		if err == nil {
			return AppendResult{Queued: true}, nil
		}
		s.logger.WarnContext(ctx, "enqueue player recompute failed, recomputing inline", "player_id", p.ID, "error", err)
	}

	view, err := s.Recompute(ctx, p.ID)
	if err != nil {
		return AppendResult{}, err
	}
	return AppendResult{Career: &view}, nil
}

func (s *PlayerStatsService) getPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return p, nil
}

func (s *PlayerStatsService) fold(ctx context.Context, p player.Player) (playerstats.Career, error) {
	history, err := s.players.ListMatchHistory(ctx, p.ID)
	if err != nil {
		return playerstats.Career{}, fmt.Errorf("list match history: %w", err)
	}

	var roster player.Roster
	if p.TeamID != "" {
		teammates, err := s.players.ListByTeam(ctx, p.TeamID)
		if err != nil {
			return playerstats.Career{}, fmt.Errorf("list roster: %w", err)
		}
		roster = player.NewRoster(teammates)
	}

	return playerstats.Fold(playerstats.Input{PlayerID: p.ID, History: history, Roster: roster}, s.opts), nil
}

func (s *PlayerStatsService) report(ctx context.Context, career playerstats.Career) {
	s.recorder.AddReviewFlags(len(career.Review))
	s.recorder.AddRejections(len(career.Rejected))

	for _, flag := range career.Review {
		s.logger.WarnContext(ctx, "fielding attribution needs review",
			"player_id", career.PlayerID,
			"match_id", flag.MatchID,
			"action", flag.Action,
			"raw_name", flag.Reference.RawName,
			"reference", flag.Reference.Kind,
			"candidates", flag.Reference.CandidateIDs,
			"credited_player_id", flag.CreditedPlayerID,
		)
	}
	for _, r := range career.Rejected {
		s.logger.WarnContext(ctx, "contribution rejected",
			"player_id", career.PlayerID,
			"match_id", r.MatchID,
			"index", r.Index,
			"type", r.Type,
			"reason", r.Reason,
		)
	}
}

func validateEntry(entry matchhistory.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if entry.MatchDate.IsZero() {
		return fmt.Errorf("%w: match date is required", ErrInvalidInput)
	}
	for i, c := range entry.Contributions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: contribution %d: %v", ErrInvalidInput, i, err)
		}
	}
	return nil
}
