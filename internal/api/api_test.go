package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoshot/ecoshot/internal/api"
	"github.com/ecoshot/ecoshot/internal/api/response"
	"github.com/ecoshot/ecoshot/internal/dependencies/clock"
	"github.com/ecoshot/ecoshot/internal/dependencies/mocks"
	"github.com/ecoshot/ecoshot/internal/dependencies/random"
	"github.com/ecoshot/ecoshot/internal/events"
	"github.com/ecoshot/ecoshot/internal/services/match"
	"github.com/ecoshot/ecoshot/internal/services/scoring"
)

// staleStorage reports the persistence mirror as unavailable
type staleStorage struct{}

func (staleStorage) Available() bool { return false }

// testServer wires the router against an in-memory registry
type testServer struct {
	handler  http.Handler
	registry *match.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use real random/clock
	registry := match.NewRegistry(
		match.DefaultConfig(),
		scoring.New(),
		mocks.NewMockMirror(),
		events.NopPublisher{},
		clock.New(),
		random.New(),
		logger,
	)

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: registry,
	})

	return &testServer{handler: router, registry: registry}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestHealthCheckDegradedStorage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ts := newTestServer(t)
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: ts.registry,
		Storage:  staleStorage{},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// Gameplay survives storage outages, so degraded is still a 200
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"degraded"`)
}

func TestCreateMatch(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]any{"admin_name": "Alice", "name": "park cleanup", "win_score": 150}
	rr := ts.request(http.MethodPost, "/api/v1/matches", body)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp response.CreatedMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Equal(t, "waiting", resp.Match.State)
	assert.Equal(t, "park cleanup", resp.Match.Name)
	assert.Equal(t, 150, resp.Match.WinScore)
	assert.Len(t, resp.Match.ID, 6)
	assert.Equal(t, "Alice", resp.You.Name)
	assert.Equal(t, "admin", resp.You.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestCreateMatchWithoutAdminName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/matches", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "NAME_REQUIRED")
}

func TestJoinMatch(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+created.Match.ID+"/join", map[string]string{"name": "Bob"})
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.JoinedMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Bob", resp.You.Name)
	assert.Equal(t, "player", resp.You.Role)
	assert.NotEmpty(t, resp.Token)
	assert.Len(t, resp.Match.Players, 2)

	// Responses never leak other players' tokens
	assert.NotContains(t, rr.Body.String(), created.Token)
}

func TestRejoinReturnsSameToken(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")

	first := joinMatch(t, ts, created.Match.ID, "Bob")
	second := joinMatch(t, ts, created.Match.ID, "Bob")

	assert.Equal(t, first.You.ID, second.You.ID)
	assert.Equal(t, first.Token, second.Token)

	// Rejoin added nobody
	assert.Len(t, second.Match.Players, 2)
}

func TestJoinUnknownMatch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/matches/NOPE42/join", map[string]string{"name": "Bob"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "MATCH_NOT_FOUND")
}

func TestGetAndListMatches(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/matches/"+created.Match.ID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var m response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, created.Match.ID, m.ID)

	rr = ts.request(http.MethodGet, "/api/v1/matches", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var list response.MatchList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Matches, 1)
	assert.Equal(t, created.Match.ID, list.Matches[0].ID)
}

func TestMatchResponsesNeverCarryTokens(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")
	joined := joinMatch(t, ts, created.Match.ID, "Bob")

	for _, path := range []string{
		"/api/v1/matches/" + created.Match.ID,
		"/api/v1/matches",
		"/api/v1/matches/" + created.Match.ID + "/roster",
		"/api/v1/matches/" + created.Match.ID + "/leaderboard",
	} {
		rr := ts.request(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.NotContains(t, rr.Body.String(), created.Token, path)
		assert.NotContains(t, rr.Body.String(), joined.Token, path)
	}
}

func TestLifecycleFlow(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")
	joinMatch(t, ts, created.Match.ID, "Bob")

	adminBody := map[string]string{"player_id": created.You.ID}
	base := "/api/v1/matches/" + created.Match.ID

	rr := ts.request(http.MethodPost, base+"/start", adminBody)
	assert.Equal(t, http.StatusOK, rr.Code)

	var m response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, "active", m.State)
	assert.NotNil(t, m.StartedAt)

	rr = ts.request(http.MethodPost, base+"/pause", adminBody)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, base+"/resume", adminBody)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, base+"/end", adminBody)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	assert.Equal(t, "ended", m.State)
	assert.NotEmpty(t, m.WinnerID)

	rr = ts.request(http.MethodPost, base+"/restart", adminBody)
	assert.Equal(t, http.StatusOK, rr.Code)
	var restarted response.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &restarted))
	assert.Equal(t, "waiting", restarted.State)
	assert.Empty(t, restarted.WinnerID)
}

func TestLifecycleRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")
	joined := joinMatch(t, ts, created.Match.ID, "Bob")

	body := map[string]string{"player_id": joined.You.ID}
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+created.Match.ID+"/start", body)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOT_ADMIN")
}

func TestStartRequiresTwoPlayers(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")

	body := map[string]string{"player_id": created.You.ID}
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+created.Match.ID+"/start", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "INSUFFICIENT_PLAYERS")
}

func TestJoinAfterStartWithNewNameRejected(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")
	joinMatch(t, ts, created.Match.ID, "Bob")

	body := map[string]string{"player_id": created.You.ID}
	rr := ts.request(http.MethodPost, "/api/v1/matches/"+created.Match.ID+"/start", body)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/matches/"+created.Match.ID+"/join", map[string]string{"name": "Carol"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "MATCH_NOT_WAITING")

	// A roster name still rejoins fine after start
	rejoined := joinMatch(t, ts, created.Match.ID, "Bob")
	assert.Equal(t, "Bob", rejoined.You.Name)
}

func TestLeaderboardAndRoster(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, "Alice")
	joinMatch(t, ts, created.Match.ID, "Bob")

	rr := ts.request(http.MethodGet, "/api/v1/matches/"+created.Match.ID+"/leaderboard", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var lb response.Leaderboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lb))
	require.Len(t, lb.Rows, 2)
	assert.Equal(t, 1, lb.Rows[0].Rank)

	rr = ts.request(http.MethodGet, "/api/v1/matches/"+created.Match.ID+"/roster", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var roster response.Roster
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &roster))
	assert.Len(t, roster.Players, 2)
}

// Helper functions

func createMatch(t *testing.T, ts *testServer, adminName string) response.CreatedMatch {
	t.Helper()

	body := map[string]string{"admin_name": adminName}
	rr := ts.request(http.MethodPost, "/api/v1/matches", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp response.CreatedMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func joinMatch(t *testing.T, ts *testServer, matchID, name string) response.JoinedMatch {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/matches/"+matchID+"/join", map[string]string{"name": name})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.JoinedMatch
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
