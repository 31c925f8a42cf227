package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecoshot/ecoshot/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeNameRequired        = "NAME_REQUIRED"
	CodeNameTooLong         = "NAME_TOO_LONG"
	CodeInvalidWinScore     = "INVALID_WIN_SCORE"
	CodeNotAdmin            = "NOT_ADMIN"
	CodeMatchNotFound       = "MATCH_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeMatchNotWaiting     = "MATCH_NOT_WAITING"
	CodeMatchNotActive      = "MATCH_NOT_ACTIVE"
	CodeMatchNotPaused      = "MATCH_NOT_PAUSED"
	CodeMatchNotEnded       = "MATCH_NOT_ENDED"
	CodeAlreadyStarted      = "MATCH_ALREADY_STARTED"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation errors
	case errors.Is(err, model.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "Name is required"}}
	case errors.Is(err, model.ErrNameTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeNameTooLong, "Name is too long"}}
	case errors.Is(err, model.ErrInvalidWinScore):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidWinScore, "Win score must be positive"}}
	case errors.Is(err, model.ErrInvalidToken), errors.Is(err, model.ErrInvalidImage):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

	// Authorization errors
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeNotAdmin, "Only the match admin can perform this action"}}

	// State errors
	case errors.Is(err, model.ErrMatchNotWaiting):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotWaiting, "Match is no longer accepting players"}}
	case errors.Is(err, model.ErrMatchNotActive):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotActive, "Match is not active"}}
	case errors.Is(err, model.ErrMatchNotPaused):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotPaused, "Match is not paused"}}
	case errors.Is(err, model.ErrMatchNotEnded):
		return &httpError{http.StatusConflict, APIError{CodeMatchNotEnded, "Match has not ended"}}
	case errors.Is(err, model.ErrMatchAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyStarted, "Match has already started"}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientPlayers, "At least two players are required"}}

	// Not-found errors
	case errors.Is(err, model.ErrMatchNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchNotFound, "Match not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
