package model

import "errors"

// Common errors used across the application, grouped by how the API
// layer reports them
var (
	// Validation errors (bad input)
	ErrNameRequired    = errors.New("name is required")
	ErrNameTooLong     = errors.New("name is too long")
	ErrInvalidWinScore = errors.New("win score must be positive")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidImage    = errors.New("invalid image payload")

	// Authorization errors (valid input, caller lacks the right)
	ErrNotAdmin = errors.New("player is not the match admin")

	// State errors (operation illegal in the current lifecycle state)
	ErrMatchNotWaiting     = errors.New("match is not waiting for players")
	ErrMatchNotActive      = errors.New("match is not active")
	ErrMatchNotPaused      = errors.New("match is not paused")
	ErrMatchNotEnded       = errors.New("match has not ended")
	ErrMatchAlreadyStarted = errors.New("match has already started")
	ErrInsufficientPlayers = errors.New("at least two players are required")

	// Not-found errors
	ErrMatchNotFound  = errors.New("match not found")
	ErrPlayerNotFound = errors.New("player not found")

	// External service errors. These never surface through gameplay
	// verbs; the shot pipeline absorbs them and the persister logs them.
	ErrDecodeFailed    = errors.New("token decode failed")
	ErrClassifyFailed  = errors.New("scene classification failed")
	ErrStorageDegraded = errors.New("storage backend unavailable")
)
