package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/domain/player"
	"github.com/riskibarqy/cricket-stats/internal/domain/team"
	idgen "github.com/riskibarqy/cricket-stats/internal/platform/id"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
)

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"
	recomputeStatusSkipped = "skipped"

	defaultRecomputeWorkers = 4
)

type RecomputeInput struct {
	PlayerIDs []string
	TeamIDs   []string
	// All recomputes every stored player and team, ignoring the id lists.
	All        bool
	MaxWorkers int
	// DryRun folds without saving.
	DryRun bool
}

type RecomputeResult struct {
	RunID        string                `json:"run_id"`
	DryRun       bool                  `json:"dry_run"`
	TaskCount    int                   `json:"task_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	SkippedCount int                   `json:"skipped_count"`
	WorkerCount  int                   `json:"worker_count"`
	Tasks        []RecomputeTaskResult `json:"tasks"`
}

type RecomputeTaskResult struct {
	Entity      string `json:"entity"`
	ID          string `json:"id"`
	Status      string `json:"status"`
	DurationMs  int64  `json:"duration_ms"`
	Matches     int    `json:"matches"`
	ReviewFlags int    `json:"review_flags,omitempty"`
	Rejected    int    `json:"rejected,omitempty"`
	Message     string `json:"message,omitempty"`
}

type PlayerRecomputer interface {
	Recompute(ctx context.Context, playerID string) (CareerView, error)
	Preview(ctx context.Context, playerID string) (CareerView, error)
}

type TeamRecomputer interface {
	Recompute(ctx context.Context, teamID string) (RecordView, error)
	Preview(ctx context.Context, teamID string) (RecordView, error)
}

// RecomputeService rebuilds many aggregates at once. Entities are independent,
// so they run concurrently with no ordering between them.
type RecomputeService struct {
	players    PlayerRecomputer
	teams      TeamRecomputer
	playerRepo player.Repository
	teamRepo   team.Repository
	ids        idgen.Generator
	maxWorkers int
	logger     *logging.Logger
}

func NewRecomputeService(
	players PlayerRecomputer,
	teams TeamRecomputer,
	playerRepo player.Repository,
	teamRepo team.Repository,
	ids idgen.Generator,
	maxWorkers int,
	logger *logging.Logger,
) *RecomputeService {
	if ids == nil {
		ids = idgen.NewUUIDGenerator()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultRecomputeWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RecomputeService{
		players:    players,
		teams:      teams,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		ids:        ids,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (s *RecomputeService) Run(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecomputeService.Run",
		attribute.Bool("recompute.all", input.All),
		attribute.Bool("recompute.dry_run", input.DryRun),
	)
	defer span.End()

	playerIDs, teamIDs, err := s.resolveTargets(ctx, input)
	if err != nil {
		return RecomputeResult{}, err
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("generate run id: %w", err)
	}

	taskCount := len(playerIDs) + len(teamIDs)
	result := RecomputeResult{
		RunID:       runID,
		DryRun:      input.DryRun,
		TaskCount:   taskCount,
		WorkerCount: normalizeRecomputeWorkerCount(input.MaxWorkers, s.maxWorkers, taskCount),
		Tasks:       make([]RecomputeTaskResult, 0, taskCount),
	}
	if taskCount == 0 {
		return result, nil
	}

	logger := s.logger.With("run_id", runID)
	logger.InfoContext(ctx, "recompute run started",
		"players", len(playerIDs),
		"teams", len(teamIDs),
		"workers", result.WorkerCount,
		"dry_run", input.DryRun,
	)

	playerRows, err := s.runPlayers(ctx, playerIDs, result.WorkerCount, input.DryRun)
	if err != nil {
		return RecomputeResult{}, err
	}
	teamRows := s.runTeams(ctx, teamIDs, result.WorkerCount, input.DryRun)

	result.Tasks = append(result.Tasks, playerRows...)
	result.Tasks = append(result.Tasks, teamRows...)
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].Entity != result.Tasks[j].Entity {
			return result.Tasks[i].Entity < result.Tasks[j].Entity
		}
		return result.Tasks[i].ID < result.Tasks[j].ID
	})

	for _, row := range result.Tasks {
		switch row.Status {
		case recomputeStatusSuccess:
			result.SuccessCount++
		case recomputeStatusSkipped:
			result.SkippedCount++
		default:
			result.FailedCount++
			logger.WarnContext(ctx, "recompute task failed", "entity", row.Entity, "id", row.ID, "error", row.Message)
		}
	}

	logger.InfoContext(ctx, "recompute run finished",
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
	)
	return result, nil
}

func (s *RecomputeService) resolveTargets(ctx context.Context, input RecomputeInput) ([]string, []string, error) {
	if !input.All {
		playerIDs := normalizeIDs(input.PlayerIDs)
		teamIDs := normalizeIDs(input.TeamIDs)
		if len(playerIDs) == 0 && len(teamIDs) == 0 {
			return nil, nil, fmt.Errorf("%w: at least one player or team id is required", ErrInvalidInput)
		}
		return playerIDs, teamIDs, nil
	}

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list players: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list teams: %w", err)
	}

	playerIDs := make([]string, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}
	teamIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	return playerIDs, teamIDs, nil
}

// runPlayers fans out over an ants pool. Once ctx is done no further tasks
// are submitted and the rest are reported as skipped.
func (s *RecomputeService) runPlayers(ctx context.Context, ids []string, workers int, dryRun bool) ([]RecomputeTaskResult, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	workerPool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	rows := make([]RecomputeTaskResult, len(ids))
	var wg sync.WaitGroup
	for i, playerID := range ids {
		if ctx.Err() != nil {
			rows[i] = skippedRow(EntityPlayer, playerID, ctx.Err())
			continue
		}

		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()
			rows[i] = s.recomputePlayer(ctx, playerID, dryRun)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	return rows, nil
}

func (s *RecomputeService) runTeams(ctx context.Context, ids []string, workers int, dryRun bool) []RecomputeTaskResult {
	if len(ids) == 0 {
		return nil
	}

	p := pool.NewWithResults[RecomputeTaskResult]().WithMaxGoroutines(workers)
	for _, teamID := range ids {
		if ctx.Err() != nil {
			cause := ctx.Err()
			p.Go(func() RecomputeTaskResult { return skippedRow(EntityTeam, teamID, cause) })
			continue
		}
		p.Go(func() RecomputeTaskResult {
			return s.recomputeTeam(ctx, teamID, dryRun)
		})
	}
	return p.Wait()
}

func (s *RecomputeService) recomputePlayer(ctx context.Context, playerID string, dryRun bool) RecomputeTaskResult {
	row := RecomputeTaskResult{Entity: EntityPlayer, ID: playerID}
	if ctx.Err() != nil {
		return skippedRow(EntityPlayer, playerID, ctx.Err())
	}

	start := time.Now()
	run := s.players.Recompute
	if dryRun {
		run = s.players.Preview
	}
	view, err := run(ctx, playerID)
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		row.Status = recomputeStatusFailed
		row.Message = err.Error()
		return row
	}

	row.Status = recomputeStatusSuccess
	row.Matches = view.Career.Matches
	row.ReviewFlags = len(view.Career.Review)
	row.Rejected = len(view.Career.Rejected)
	return row
}

func (s *RecomputeService) recomputeTeam(ctx context.Context, teamID string, dryRun bool) RecomputeTaskResult {
	row := RecomputeTaskResult{Entity: EntityTeam, ID: teamID}
	if ctx.Err() != nil {
		return skippedRow(EntityTeam, teamID, ctx.Err())
	}

	start := time.Now()
	run := s.teams.Recompute
	if dryRun {
		run = s.teams.Preview
	}
	view, err := run(ctx, teamID)
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		row.Status = recomputeStatusFailed
		row.Message = err.Error()
		return row
	}

	row.Status = recomputeStatusSuccess
	row.Matches = view.Record.Matches
	return row
}

func skippedRow(entity, id string, cause error) RecomputeTaskResult {
	return RecomputeTaskResult{
		Entity:  entity,
		ID:      id,
		Status:  recomputeStatusSkipped,
		Message: fmt.Sprintf("not started: %v", cause),
	}
}

func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func normalizeRecomputeWorkerCount(requested, limit, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	value := requested
	if value <= 0 {
		value = limit
	}
	if value > limit {
		value = limit
	}
	if value > taskCount {
		value = taskCount
	}
	if value < 1 {
		value = 1
	}
	return value
}
