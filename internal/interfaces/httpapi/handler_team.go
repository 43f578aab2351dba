package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))

	preview, err := parseBoolQuery(r, "preview")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var view usecase.RecordView
	if preview {
		view, err = h.teamStats.Preview(ctx, teamID)
	} else {
		view, err = h.teamStats.GetRecord(ctx, teamID)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) RecomputeTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeTeamStats")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))

	view, err := h.teamStats.Recompute(ctx, teamID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) AppendTeamMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AppendTeamMatch")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	span.SetAttributes(attribute.String("team.id", teamID))

	var req appendTeamMatchRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teamStats.AppendMatch(ctx, teamID, req.toResult())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := appendMatchResponse{Queued: result.Queued}
	status := http.StatusAccepted
	if !result.Queued {
		status = http.StatusOK
		resp.Stats = result.Record
	}
	writeSuccess(ctx, w, status, resp)
}
