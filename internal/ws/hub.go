package ws

import (
	"log/slog"
	"sync"

	"github.com/ecoshot/ecoshot/internal/events"
	"github.com/ecoshot/ecoshot/internal/model"
)

// Hub holds the live connections of one match and fans frames out to
// them. All operations are synchronous under the hub mutex; sends never
// block because connections buffer and drop instead.
type Hub struct {
	matchID model.MatchID
	logger  *slog.Logger

	mu       sync.RWMutex
	conns    map[string]*Conn
	byPlayer map[model.PlayerID]*Conn
}

func newHub(matchID model.MatchID, logger *slog.Logger) *Hub {
	return &Hub{
		matchID:  matchID,
		logger:   logger.With(slog.String("match_id", string(matchID))),
		conns:    make(map[string]*Conn),
		byPlayer: make(map[model.PlayerID]*Conn),
	}
}

// Bind registers a connection for a player. A player holds at most one
// socket; the newest wins and any previous socket is returned for the
// caller to close.
func (h *Hub) Bind(conn *Conn, playerID model.PlayerID) *Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	displaced := h.byPlayer[playerID]
	if displaced == conn {
		return nil
	}
	if displaced != nil {
		delete(h.conns, displaced.id)
	}
	h.conns[conn.id] = conn
	h.byPlayer[playerID] = conn
	return displaced
}

// Remove drops a connection. It reports whether the connection still
// owned its player's binding; a socket displaced by a rebind does not.
func (h *Hub) Remove(conn *Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn.id]; !ok {
		return false
	}
	delete(h.conns, conn.id)

	_, playerID, bound := conn.Bound()
	if bound && h.byPlayer[playerID] == conn {
		delete(h.byPlayer, playerID)
		return true
	}
	return false
}

// Broadcast sends a frame to every connection in the hub
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.conns {
		conn.TrySend(data)
	}
}

// SendToPlayer sends a frame to one player's connection, if any
func (h *Hub) SendToPlayer(playerID model.PlayerID, data []byte) {
	h.mu.RLock()
	conn := h.byPlayer[playerID]
	h.mu.RUnlock()
	if conn != nil {
		conn.TrySend(data)
	}
}

// ConnCount returns the number of live connections
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close shuts every connection in the hub
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.conns {
		conn.Close()
	}
	h.conns = make(map[string]*Conn)
	h.byPlayer = make(map[model.PlayerID]*Conn)
}

// HubManager owns one hub per match and is the fan-out sink for
// gameplay services
type HubManager struct {
	logger *slog.Logger

	mu   sync.RWMutex
	hubs map[model.MatchID]*Hub
}

// Ensure HubManager implements the event publisher
var _ events.Publisher = (*HubManager)(nil)

// NewHubManager creates an empty hub manager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		logger: logger.With(slog.String("component", "ws")),
		hubs:   make(map[model.MatchID]*Hub),
	}
}

// GetOrCreateHub returns the hub for a match, creating it on first use
func (m *HubManager) GetOrCreateHub(matchID model.MatchID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	hub, ok := m.hubs[matchID]
	if !ok {
		hub = newHub(matchID, m.logger)
		m.hubs[matchID] = hub
	}
	return hub
}

// GetHub returns the hub for a match, or nil when no client ever bound
func (m *HubManager) GetHub(matchID model.MatchID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[matchID]
}

// RemoveHub closes and forgets a match's hub. Called when the match is
// swept.
func (m *HubManager) RemoveHub(matchID model.MatchID) {
	m.mu.Lock()
	hub := m.hubs[matchID]
	delete(m.hubs, matchID)
	m.mu.Unlock()
	if hub != nil {
		hub.Close()
	}
}

// Broadcast encodes an event and fans it out to every client of the match
func (m *HubManager) Broadcast(matchID model.MatchID, event model.Event) {
	hub := m.GetHub(matchID)
	if hub == nil {
		return
	}
	data, err := EncodeEvent(event)
	if err != nil {
		m.logger.Error("dropping unencodable event",
			slog.String("match_id", string(matchID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(data)
}

// SendTo encodes an event and delivers it to one player's client
func (m *HubManager) SendTo(matchID model.MatchID, playerID model.PlayerID, event model.Event) {
	hub := m.GetHub(matchID)
	if hub == nil {
		return
	}
	data, err := EncodeEvent(event)
	if err != nil {
		m.logger.Error("dropping unencodable event",
			slog.String("match_id", string(matchID)),
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	hub.SendToPlayer(playerID, data)
}
