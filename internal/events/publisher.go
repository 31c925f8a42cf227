package events

import "github.com/ecoshot/ecoshot/internal/model"

// Publisher fans events out to the clients of a match. The WebSocket hub
// manager implements it; gameplay services depend on this interface so
// they never import the transport layer.
type Publisher interface {
	// Broadcast delivers an event to every client bound to the match
	Broadcast(matchID model.MatchID, event model.Event)

	// SendTo delivers an event only to the clients of one player
	SendTo(matchID model.MatchID, playerID model.PlayerID, event model.Event)
}

// NopPublisher discards all events. Used when no realtime layer is wired.
type NopPublisher struct{}

// Ensure NopPublisher implements Publisher
var _ Publisher = (*NopPublisher)(nil)

// Broadcast discards the event
func (NopPublisher) Broadcast(model.MatchID, model.Event) {}

// SendTo discards the event
func (NopPublisher) SendTo(model.MatchID, model.PlayerID, model.Event) {}
