package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ecoshot/ecoshot/internal/model"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Shot frames carry base64 photos
	maxFrameSize = 8 << 20

	// Outbound buffer per connection
	sendBufferSize = 64
)

// Conn is one WebSocket connection. It starts unbound; a connect frame
// binds it to a (match, player) pair and registers it with that match's
// hub.
type Conn struct {
	id string
	ws *websocket.Conn

	send      chan []byte
	closeOnce sync.Once

	mu       sync.RWMutex
	matchID  model.MatchID
	playerID model.PlayerID

	connectedAt time.Time
	logger      *slog.Logger
}

func newConn(id string, ws *websocket.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		id:          id,
		ws:          ws,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
		logger:      logger.With(slog.String("conn_id", id)),
	}
}

// Bound returns the connection's match and player, or false while the
// socket has not yet sent a connect frame
func (c *Conn) Bound() (model.MatchID, model.PlayerID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchID, c.playerID, c.matchID != ""
}

func (c *Conn) bind(matchID model.MatchID, playerID model.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchID = matchID
	c.playerID = playerID
}

// TrySend queues a frame without blocking. A full buffer means the
// consumer is too slow; the frame is dropped and the connection closed
// rather than stalling the hub.
func (c *Conn) TrySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn("send buffer full, closing slow consumer")
		c.Close()
		return false
	}
}

// Close shuts the outbound channel exactly once, which ends writePump
// and closes the socket
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// readPump reads frames and hands them to the handler until the peer
// goes away. It owns the read side of the socket.
func (c *Conn) readPump(h *Handler) {
	defer func() {
		h.dropConn(c)
		_ = c.ws.Close()
	}()

	c.ws.SetReadLimit(maxFrameSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", slog.Any("error", err))
			}
			return
		}
		h.handleFrame(c, raw)
	}
}

// writePump drains the send channel to the socket and keeps the
// connection alive with pings. It owns the write side of the socket.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
