package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	span.SetAttributes(attribute.String("player.id", playerID))

	preview, err := parseBoolQuery(r, "preview")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var view usecase.CareerView
	if preview {
		view, err = h.playerStats.Preview(ctx, playerID)
	} else {
		view, err = h.playerStats.GetCareer(ctx, playerID)
	}
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) RecomputePlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputePlayerStats")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	span.SetAttributes(attribute.String("player.id", playerID))

	view, err := h.playerStats.Recompute(ctx, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, view)
}

func (h *Handler) AppendPlayerMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AppendPlayerMatch")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	span.SetAttributes(attribute.String("player.id", playerID))

	var req appendPlayerMatchRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.playerStats.AppendMatch(ctx, playerID, req.toEntry())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := appendMatchResponse{Queued: result.Queued}
	status := http.StatusAccepted
	if !result.Queued {
		status = http.StatusOK
		resp.Stats = result.Career
	}
	writeSuccess(ctx, w, status, resp)
}

func parseBoolQuery(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", usecase.ErrInvalidInput, key)
	}
	return v, nil
}
