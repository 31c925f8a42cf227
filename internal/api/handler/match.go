package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecoshot/ecoshot/internal/api/request"
	"github.com/ecoshot/ecoshot/internal/api/response"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/services/match"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	registry match.RegistryInterface
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(registry match.RegistryInterface) *MatchHandler {
	return &MatchHandler{registry: registry}
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, err := h.registry.CreateMatch(req.Name, req.AdminName, req.WinScore)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedMatchFromModel(m))
}

// Join handles POST /api/v1/matches/{match_id}/join. A name already on
// the roster is an idempotent rejoin and returns the original player
// record, token included.
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["match_id"])

	var req request.JoinMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	m, player, err := h.registry.Join(matchID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.JoinedMatchFromModel(m, player))
}

// Get handles GET /api/v1/matches/{match_id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["match_id"])

	m, err := h.registry.GetMatch(matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}

// List handles GET /api/v1/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.MatchListFromModel(h.registry.ListMatches()))
}

// Leaderboard handles GET /api/v1/matches/{match_id}/leaderboard
func (h *MatchHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["match_id"])

	rows, err := h.registry.Leaderboard(matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Rows: rows})
}

// Roster handles GET /api/v1/matches/{match_id}/roster
func (h *MatchHandler) Roster(w http.ResponseWriter, r *http.Request) {
	matchID := model.MatchID(mux.Vars(r)["match_id"])

	players, err := h.registry.Roster(matchID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterFromModel(players))
}

// Start handles POST /api/v1/matches/{match_id}/start
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.registry.Start)
}

// Pause handles POST /api/v1/matches/{match_id}/pause
func (h *MatchHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.registry.Pause)
}

// Resume handles POST /api/v1/matches/{match_id}/resume
func (h *MatchHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.registry.Resume)
}

// End handles POST /api/v1/matches/{match_id}/end
func (h *MatchHandler) End(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.registry.End)
}

// Restart handles POST /api/v1/matches/{match_id}/restart
func (h *MatchHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.registry.Restart)
}

// lifecycle runs one admin verb from its request body
func (h *MatchHandler) lifecycle(w http.ResponseWriter, r *http.Request, verb func(model.MatchID, model.PlayerID) (*model.Match, error)) {
	matchID := model.MatchID(mux.Vars(r)["match_id"])

	var req request.LifecycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.PlayerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	m, err := verb(matchID, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m))
}
