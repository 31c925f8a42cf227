package handler

import (
	"net/http"

	"github.com/ecoshot/ecoshot/internal/api/response"
)

// StorageHealth reports whether the persistence mirror is reachable
type StorageHealth interface {
	Available() bool
}

// HealthHandler reports service health. In-memory state keeps gameplay
// working through storage outages, so a degraded mirror is still a 200.
type HealthHandler struct {
	storage StorageHealth
}

// NewHealthHandler creates a health handler
func NewHealthHandler(storage StorageHealth) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	body := response.Health{Status: "ok", Storage: "ok"}
	if h.storage != nil && !h.storage.Available() {
		body.Status = "degraded"
		body.Storage = "unavailable"
	}
	response.JSON(w, http.StatusOK, body)
}
