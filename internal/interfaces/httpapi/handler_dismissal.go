package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cricket-stats/internal/domain/dismissal"
)

// ClassifyDismissals parses scorecard status strings without touching storage.
func (h *Handler) ClassifyDismissals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClassifyDismissals")
	defer span.End()

	var req classifyDismissalsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]classifiedDismissalDTO, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		howOut := dismissal.Classify(status)
		item := classifiedDismissalDTO{Status: status, HowOut: howOut}
		if howOut.Kind == dismissal.KindRunOut && howOut.Fielder != "" {
			item.Fielders = dismissal.Fielders(howOut.Fielder)
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": items})
}
