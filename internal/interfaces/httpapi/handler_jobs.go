package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

// RunRecomputeStatsJob is the delivery target for queued recomputes. It also
// accepts {"all": true} for a full sweep.
func (h *Handler) RunRecomputeStatsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeStatsJob")
	defer span.End()

	if h.recompute == nil {
		writeError(ctx, w, fmt.Errorf("%w: recompute service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req recomputeJobRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(
		attribute.String("job.entity", req.Entity),
		attribute.String("job.id", req.ID),
		attribute.Bool("job.all", req.All),
	)

	result, err := h.recompute.Run(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "recompute stats job failed", "entity", req.Entity, "id", req.ID, "all", req.All, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "recompute stats job finished",
		"run_id", result.RunID,
		"task_count", result.TaskCount,
		"failed_count", result.FailedCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (req recomputeJobRequest) toInput() (usecase.RecomputeInput, error) {
	input := usecase.RecomputeInput{
		All:        req.All,
		DryRun:     req.DryRun,
		MaxWorkers: req.MaxWorkers,
	}
	if req.All {
		return input, nil
	}

	id := strings.TrimSpace(req.ID)
	switch req.Entity {
	case usecase.EntityPlayer:
		input.PlayerIDs = []string{id}
	case usecase.EntityTeam:
		input.TeamIDs = []string{id}
	default:
		return input, fmt.Errorf("%w: entity and id are required unless all is set", usecase.ErrInvalidInput)
	}
	return input, nil
}
