package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cricket-stats/internal/domain/playerstats"
	"github.com/riskibarqy/cricket-stats/internal/domain/teamstats"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/document"
	"github.com/riskibarqy/cricket-stats/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/cricket-stats/internal/platform/id"
	"github.com/riskibarqy/cricket-stats/internal/platform/logging"
	"github.com/riskibarqy/cricket-stats/internal/usecase"
)

const testJobToken = "job-secret"

type observedRequest struct {
	route  string
	method string
	status int
}

type recordingObserver struct {
	requests []observedRequest
}

func (o *recordingObserver) ObserveHTTP(route, method string, status int, _ time.Duration) {
	o.requests = append(o.requests, observedRequest{route: route, method: method, status: status})
}

func newTestRouter(t *testing.T, observer HTTPObserver) http.Handler {
	t.Helper()

	store := memory.NewDocumentStore()
	if _, err := memory.Seed(context.Background(), store, memory.DefaultSeed()); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	logger := logging.NewNop()
	players := document.NewPlayerRepository(store)
	teams := document.NewTeamRepository(store)
	playerStats := usecase.NewPlayerStatsService(players, document.NewPlayerStatsRepository(store), nil, nil, playerstats.DefaultOptions(), logger)
	teamStats := usecase.NewTeamStatsService(teams, document.NewTeamStatsRepository(store), nil, nil, teamstats.DefaultOptions(), logger)
	recompute := usecase.NewRecomputeService(playerStats, teamStats, players, teams, idgen.Static("run-1"), 2, logger)

	handler := NewHandler(playerStats, teamStats, recompute, logger)
	return NewRouter(handler, observer, logger, RouterConfig{InternalJobToken: testJobToken})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	return data
}

func numberAt(t *testing.T, obj map[string]any, keys ...string) float64 {
	t.Helper()
	var cur any = obj
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("path %v: %v is not an object", keys, cur)
		}
		cur = m[k]
	}
	n, ok := cur.(float64)
	if !ok {
		t.Fatalf("path %v: %v is not a number", keys, cur)
	}
	return n
}

func TestGetPlayerStats_FoldsHistoryWhenNothingStored(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/p-rohit/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := dataOf(t, body)
	if stored, _ := data["stored"].(bool); stored {
		t.Fatalf("expected an unstored view before any recompute")
	}
	if got := numberAt(t, data, "career", "batting", "runs"); got != 169 {
		t.Fatalf("expected 169 runs, got %v", got)
	}
	if got := numberAt(t, data, "career", "fielding", "catches"); got != 1 {
		t.Fatalf("expected one inferred catch, got %v", got)
	}
	if got := numberAt(t, data, "rates", "battingAverage"); got != 169 {
		t.Fatalf("expected average 169 with one dismissal, got %v", got)
	}
}

func TestGetPlayerStats_UnknownPlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/p-nobody/stats", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("expected error envelope, got %v", body)
	}
}

func TestGetPlayerStats_RejectsBadPreviewFlag(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, _ := doRequest(t, router, http.MethodGet, "/v1/players/p-rohit/stats?preview=maybe", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecomputePlayerStats_PersistsCareer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/players/p-bumrah/stats/recompute", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, body := doRequest(t, router, http.MethodGet, "/v1/players/p-bumrah/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := dataOf(t, body)
	if stored, _ := data["stored"].(bool); !stored {
		t.Fatalf("expected stored career after recompute")
	}
	if got := numberAt(t, data, "career", "bowling", "wickets"); got != 4 {
		t.Fatalf("expected 4 wickets, got %v", got)
	}
	if got := numberAt(t, data, "career", "bowling", "balls"); got != 46 {
		t.Fatalf("expected 46 balls for 4 + 3.4 overs, got %v", got)
	}
}

func TestAppendPlayerMatch_RecomputesInlineWithoutQueue(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	payload := `{
		"matchId": "m-003",
		"matchDate": "2024-04-15",
		"team1": "MI",
		"team2": "RCB",
		"contributions": [
			{"type": "batting", "batting": {"runs": 50, "balls": 30, "dismissal": "b Siraj"}}
		]
	}`
	rec, body := doRequest(t, router, http.MethodPost, "/v1/players/p-rohit/matches", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := dataOf(t, body)
	if queued, _ := data["queued"].(bool); queued {
		t.Fatalf("expected inline recompute")
	}
	if got := numberAt(t, data, "stats", "career", "batting", "runs"); got != 219 {
		t.Fatalf("expected 219 runs after append, got %v", got)
	}
	if got := numberAt(t, data, "stats", "career", "batting", "fifties"); got != 2 {
		t.Fatalf("expected 2 fifties, got %v", got)
	}
}

func TestAppendPlayerMatch_ValidatesPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty body", payload: ""},
		{name: "unknown field", payload: `{"matchId":"m-9","matchDate":"2024-01-01","extra":1}`},
		{name: "missing match id", payload: `{"matchDate":"2024-01-01"}`},
		{name: "bad date", payload: `{"matchId":"m-9","matchDate":"01/02/2024"}`},
		{name: "missing date", payload: `{"matchId":"m-9"}`},
		{name: "unknown contribution", payload: `{"matchId":"m-9","matchDate":"2024-01-01","contributions":[{"type":"keeping"}]}`},
		{name: "too many wickets", payload: `{"matchId":"m-9","matchDate":"2024-01-01","contributions":[{"type":"bowling","bowling":{"overs":4,"wickets":11}}]}`},
		{name: "missing payload", payload: `{"matchId":"m-9","matchDate":"2024-01-01","contributions":[{"type":"batting"}]}`},
		{name: "bad fielding action", payload: `{"matchId":"m-9","matchDate":"2024-01-01","contributions":[{"type":"fielding","fielding":{"action":"drop"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, nil)
			rec, _ := doRequest(t, router, http.MethodPost, "/v1/players/p-rohit/matches", tt.payload, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestTeamStats_RecordAndAppend(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, body := doRequest(t, router, http.MethodGet, "/v1/teams/team-mi/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data := dataOf(t, body)
	if got := numberAt(t, data, "record", "wins"); got != 1 {
		t.Fatalf("expected 1 win, got %v", got)
	}
	if got := numberAt(t, data, "record", "losses"); got != 1 {
		t.Fatalf("expected 1 loss, got %v", got)
	}

	payload := `{"matchId":"m-003","matchDate":"2024-04-15T14:00:00Z","team1":"MI","team2":"RCB","status":"completed","winnerId":"team-mi"}`
	rec, body = doRequest(t, router, http.MethodPost, "/v1/teams/team-mi/matches", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data = dataOf(t, body)
	if got := numberAt(t, data, "stats", "record", "wins"); got != 2 {
		t.Fatalf("expected 2 wins after append, got %v", got)
	}
}

func TestAppendTeamMatch_RejectsForeignFixture(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	payload := `{"matchId":"m-004","matchDate":"2024-04-20","team1":"RCB","team2":"KKR","status":"completed","winnerId":"team-rcb"}`
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/teams/team-mi/matches", payload, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestClassifyDismissals(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	payload := `{"statuses":["c Sharma b Kumar","run out (Patel/Singh)","not out"]}`
	rec, body := doRequest(t, router, http.MethodPost, "/v1/dismissals/classify", payload, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	items, ok := dataOf(t, body)["items"].([]any)
	if !ok || len(items) != 3 {
		t.Fatalf("expected 3 items, got %v", body)
	}
	wantKinds := []string{"caught", "run_out", "not_out"}
	for i, want := range wantKinds {
		item := items[i].(map[string]any)
		howOut := item["howOut"].(map[string]any)
		if got := howOut["type"]; got != want {
			t.Fatalf("item %d: expected %s, got %v", i, want, got)
		}
	}
	fielders, _ := items[1].(map[string]any)["fielders"].([]any)
	if len(fielders) != 2 {
		t.Fatalf("expected both run-out fielders, got %v", items[1])
	}
}

func TestRecomputeStatsJob_RequiresToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	rec, _ := doRequest(t, router, http.MethodPost, usecase.RecomputeJobPath, `{"all":true}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec, _ = doRequest(t, router, http.MethodPost, usecase.RecomputeJobPath, `{"all":true}`, map[string]string{"X-Internal-Job-Token": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong token, got %d", rec.Code)
	}
}

func TestRecomputeStatsJob_Runs(t *testing.T) {
	t.Parallel()

	headers := map[string]string{"X-Internal-Job-Token": testJobToken}
	tests := []struct {
		name      string
		payload   string
		status    int
		taskCount float64
	}{
		{name: "single player", payload: `{"entity":"player","id":"p-dhoni"}`, status: http.StatusOK, taskCount: 1},
		{name: "single team", payload: `{"entity":"team","id":"team-csk"}`, status: http.StatusOK, taskCount: 1},
		{name: "all dry run", payload: `{"all":true,"dryRun":true,"maxWorkers":2}`, status: http.StatusOK, taskCount: 6},
		{name: "missing id", payload: `{"entity":"player"}`, status: http.StatusBadRequest},
		{name: "nothing selected", payload: `{}`, status: http.StatusBadRequest},
		{name: "bad entity", payload: `{"entity":"venue","id":"v-1"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, nil)
			rec, body := doRequest(t, router, http.MethodPost, usecase.RecomputeJobPath, tt.payload, headers)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			data := dataOf(t, body)
			if got := numberAt(t, data, "task_count"); got != tt.taskCount {
				t.Fatalf("expected %v tasks, got %v", tt.taskCount, got)
			}
			if got := numberAt(t, data, "failed_count"); got != 0 {
				t.Fatalf("expected no failures, got %v", got)
			}
			if data["run_id"] != "run-1" {
				t.Fatalf("expected run id from generator, got %v", data["run_id"])
			}
		})
	}
}

func TestRouter_ObservesRoutePattern(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	router := newTestRouter(t, observer)
	doRequest(t, router, http.MethodGet, "/v1/players/p-rohit/stats", "", nil)
	doRequest(t, router, http.MethodGet, "/v1/players/p-nobody/stats", "", nil)

	if len(observer.requests) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observer.requests))
	}
	for _, got := range observer.requests {
		if got.route != "/v1/players/{playerID}/stats" || got.method != http.MethodGet {
			t.Fatalf("unexpected observation %+v", got)
		}
	}
	if observer.requests[1].status != http.StatusNotFound {
		t.Fatalf("expected 404 recorded, got %d", observer.requests[1].status)
	}
}

func TestRouter_SwaggerDisabledByDefault(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with swagger disabled, got %d", rec.Code)
	}
	if !strings.Contains(string(openAPISpec), "/v1/dismissals/classify") {
		t.Fatalf("embedded openapi document is missing routes")
	}
}
