package handler

import (
	"net/http"

	"github.com/ecoshot/ecoshot/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest      = apierr.CodeInvalidRequest
	CodeNameRequired        = apierr.CodeNameRequired
	CodeNameTooLong         = apierr.CodeNameTooLong
	CodeInvalidWinScore     = apierr.CodeInvalidWinScore
	CodeNotAdmin            = apierr.CodeNotAdmin
	CodeMatchNotFound       = apierr.CodeMatchNotFound
	CodePlayerNotFound      = apierr.CodePlayerNotFound
	CodeMatchNotWaiting     = apierr.CodeMatchNotWaiting
	CodeMatchNotActive      = apierr.CodeMatchNotActive
	CodeMatchNotPaused      = apierr.CodeMatchNotPaused
	CodeMatchNotEnded       = apierr.CodeMatchNotEnded
	CodeAlreadyStarted      = apierr.CodeAlreadyStarted
	CodeInsufficientPlayers = apierr.CodeInsufficientPlayers
	CodeInternalError       = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
