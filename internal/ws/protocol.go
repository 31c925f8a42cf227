package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ecoshot/ecoshot/internal/model"
)

// Inbound frame types. Anything outside this set is answered with an
// error frame; it never terminates the connection.
const (
	FrameConnect = "connect"
	FrameShot    = "shot"
	FrameAdmin   = "admin"
	FramePing    = "ping"
	FramePong    = "pong"
)

// Admin actions carried by admin frames
const (
	ActionStart   = "start"
	ActionPause   = "pause"
	ActionResume  = "resume"
	ActionEnd     = "end"
	ActionRestart = "restart"
)

// Frame is the JSON envelope for every message in both directions
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ConnectData binds a socket to a (match, player) pair
type ConnectData struct {
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

// ShotData carries one shot attempt's photo as base64
type ShotData struct {
	Image string `json:"image"`
}

// AdminData carries a lifecycle verb issued over the socket
type AdminData struct {
	Action string `json:"action"`
}

type outboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// EncodeEvent marshals a domain event into its wire frame
func EncodeEvent(event model.Event) ([]byte, error) {
	data, err := json.Marshal(outboundFrame{Type: string(event.Type), Data: event.Payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.Type, err)
	}
	return data, nil
}

// encodeError builds a private error frame
func encodeError(code, message string) []byte {
	data, _ := json.Marshal(outboundFrame{
		Type: string(model.EventError),
		Data: model.ErrorPayload{Code: code, Message: message},
	})
	return data
}

// Error codes carried in error frames
const (
	codeInvalidFrame = "INVALID_FRAME"
	codeUnknownType  = "UNKNOWN_TYPE"
	codeNotBound     = "NOT_BOUND"
	codeInternal     = "INTERNAL_ERROR"
)

// codeFor maps domain errors to wire error codes
func codeFor(err error) string {
	switch {
	case errors.Is(err, model.ErrMatchNotFound):
		return "MATCH_NOT_FOUND"
	case errors.Is(err, model.ErrPlayerNotFound):
		return "PLAYER_NOT_FOUND"
	case errors.Is(err, model.ErrNotAdmin):
		return "NOT_ADMIN"
	case errors.Is(err, model.ErrMatchNotActive),
		errors.Is(err, model.ErrMatchNotPaused),
		errors.Is(err, model.ErrMatchNotEnded),
		errors.Is(err, model.ErrMatchNotWaiting),
		errors.Is(err, model.ErrMatchAlreadyStarted),
		errors.Is(err, model.ErrInsufficientPlayers):
		return "INVALID_STATE"
	case errors.Is(err, model.ErrInvalidImage),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrNameRequired),
		errors.Is(err, model.ErrNameTooLong):
		return "INVALID_REQUEST"
	default:
		return codeInternal
	}
}
