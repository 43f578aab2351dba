package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

type routeRegistrar struct {
	mux      *http.ServeMux
	observer HTTPObserver
}

func (r routeRegistrar) handle(pattern string, h http.Handler) {
	route := pattern
	if _, path, ok := strings.Cut(pattern, " "); ok {
		route = path
	}
	r.mux.Handle(pattern, instrumentRoute(r.observer, route, h))
}

func (r routeRegistrar) handleFunc(pattern string, h http.HandlerFunc) {
	r.handle(pattern, h)
}

func registerSystemRoutes(r routeRegistrar, handler *Handler, cfg RouterConfig) {
	r.mux.HandleFunc("GET /healthz", handler.Healthz)
	if cfg.Metrics != nil {
		r.mux.Handle("GET /metrics", cfg.Metrics)
	}
	if !cfg.SwaggerEnabled {
		return
	}

	r.mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	r.mux.HandleFunc("GET /docs", handler.SwaggerUI)
	r.mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerStatsRoutes(r routeRegistrar, handler *Handler) {
	r.handleFunc("GET /v1/players/{playerID}/stats", handler.GetPlayerStats)
	r.handleFunc("POST /v1/players/{playerID}/stats/recompute", handler.RecomputePlayerStats)
	r.handleFunc("POST /v1/players/{playerID}/matches", handler.AppendPlayerMatch)

	r.handleFunc("GET /v1/teams/{teamID}/stats", handler.GetTeamStats)
	r.handleFunc("POST /v1/teams/{teamID}/stats/recompute", handler.RecomputeTeamStats)
	r.handleFunc("POST /v1/teams/{teamID}/matches", handler.AppendTeamMatch)

	r.handleFunc("POST /v1/dismissals/classify", handler.ClassifyDismissals)
}

func registerInternalJobRoutes(r routeRegistrar, handler *Handler, internalJobToken string) {
	r.handle("POST "+usecase.RecomputeJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeStatsJob)))
}
