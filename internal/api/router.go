package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ecoshot/ecoshot/internal/api/handler"
	apimiddleware "github.com/ecoshot/ecoshot/internal/api/middleware"
	"github.com/ecoshot/ecoshot/internal/middleware"
	"github.com/ecoshot/ecoshot/internal/services/match"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Registry  match.RegistryInterface
	Storage   handler.StorageHealth
	WSHandler http.Handler // nil disables the realtime endpoint
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	matchHandler := handler.NewMatchHandler(cfg.Registry)
	healthHandler := handler.NewHealthHandler(cfg.Storage)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Match routes. No authentication: possession of a player_id is the
	// credential, handed out at create/join time.
	api.HandleFunc("/matches", matchHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/matches", matchHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/matches/{match_id}", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/matches/{match_id}/join", matchHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/matches/{match_id}/leaderboard", matchHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/matches/{match_id}/roster", matchHandler.Roster).Methods(http.MethodGet)

	// Lifecycle verbs; the registry enforces the admin check
	api.HandleFunc("/matches/{match_id}/start", matchHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/matches/{match_id}/pause", matchHandler.Pause).Methods(http.MethodPost)
	api.HandleFunc("/matches/{match_id}/resume", matchHandler.Resume).Methods(http.MethodPost)
	api.HandleFunc("/matches/{match_id}/end", matchHandler.End).Methods(http.MethodPost)
	api.HandleFunc("/matches/{match_id}/restart", matchHandler.Restart).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	// Realtime endpoint; upgrades bypass the API middleware chain
	if cfg.WSHandler != nil {
		r.Handle("/ws", cfg.WSHandler).Methods(http.MethodGet)
	}

	return r
}
