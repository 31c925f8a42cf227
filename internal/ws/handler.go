package ws

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ecoshot/ecoshot/internal/dependencies/clock"
	"github.com/ecoshot/ecoshot/internal/model"
	"github.com/ecoshot/ecoshot/internal/services/match"
)

// ShotResolver resolves one shot attempt to its terminal outcome
type ShotResolver interface {
	Resolve(ctx context.Context, matchID model.MatchID, shooterID model.PlayerID, image []byte) (*model.ShotResultPayload, error)
}

// Handler upgrades HTTP requests to WebSocket connections and dispatches
// their frames. A socket is useless until its connect frame binds it to
// a (match, player) pair; bad frames get an error frame back, never a
// disconnect.
type Handler struct {
	upgrader websocket.Upgrader
	registry match.RegistryInterface
	resolver ShotResolver
	hubs     *HubManager
	clock    clock.Clock
	logger   *slog.Logger
}

// NewHandler creates a WebSocket handler
func NewHandler(
	registry match.RegistryInterface,
	resolver ShotResolver,
	hubs *HubManager,
	clk clock.Clock,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		registry: registry,
		resolver: resolver,
		hubs:     hubs,
		clock:    clk,
		logger:   logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the request and starts the connection's pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.Any("error", err))
		return
	}

	conn := newConn(uuid.New().String(), socket, h.logger)
	go conn.writePump()
	go conn.readPump(h)
}

// handleFrame dispatches one inbound frame. Called from the connection's
// read pump.
func (h *Handler) handleFrame(conn *Conn, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		conn.TrySend(encodeError(codeInvalidFrame, "malformed frame"))
		return
	}

	switch frame.Type {
	case FrameConnect:
		h.handleConnect(conn, frame.Data)
	case FrameShot:
		h.handleShot(conn, frame.Data)
	case FrameAdmin:
		h.handleAdmin(conn, frame.Data)
	case FramePing:
		data, _ := json.Marshal(outboundFrame{Type: FramePong})
		conn.TrySend(data)
	default:
		conn.TrySend(encodeError(codeUnknownType, "unknown frame type: "+frame.Type))
	}
}

// handleConnect binds the socket to a (match, player) pair, sends the
// full match snapshot privately, and marks the player connected. A
// second socket for the same player displaces the first.
func (h *Handler) handleConnect(conn *Conn, data json.RawMessage) {
	var payload ConnectData
	if err := json.Unmarshal(data, &payload); err != nil || payload.MatchID == "" || payload.PlayerID == "" {
		conn.TrySend(encodeError(codeInvalidFrame, "connect requires match_id and player_id"))
		return
	}
	matchID := model.MatchID(payload.MatchID)
	playerID := model.PlayerID(payload.PlayerID)

	m, err := h.registry.GetMatch(matchID)
	if err != nil {
		conn.TrySend(encodeError(codeFor(err), "match not found"))
		return
	}
	player := m.GetPlayer(playerID)
	if player == nil {
		conn.TrySend(encodeError(codeFor(model.ErrPlayerNotFound), "player not in match"))
		return
	}

	conn.bind(matchID, playerID)
	if displaced := h.hubs.GetOrCreateHub(matchID).Bind(conn, playerID); displaced != nil {
		displaced.Close()
	}

	snapshot, err := EncodeEvent(model.Event{
		Type:      model.EventMatchSnapshot,
		Timestamp: h.clock.Now(),
		MatchID:   matchID,
		PlayerID:  playerID,
		Payload:   h.snapshotPayload(m, player),
	})
	if err != nil {
		conn.TrySend(encodeError(codeInternal, "snapshot failed"))
		return
	}
	conn.TrySend(snapshot)

	if err := h.registry.SetStatus(matchID, playerID, model.StatusConnected); err != nil {
		h.logger.Warn("connect status update failed",
			slog.String("match_id", string(matchID)),
			slog.Any("error", err))
	}

	h.logger.Info("client bound",
		slog.String("match_id", string(matchID)),
		slog.String("player_id", string(playerID)))
}

func (h *Handler) snapshotPayload(m *model.Match, player *model.Player) model.MatchSnapshotPayload {
	players := make([]model.PlayerSummary, len(m.Players))
	for i, p := range m.Players {
		players[i] = model.SummarizePlayer(p)
	}
	return model.MatchSnapshotPayload{
		MatchID:   m.ID,
		Name:      m.Name,
		State:     m.State,
		AdminID:   m.AdminID,
		WinScore:  m.WinScore,
		WinnerID:  m.WinnerID,
		Players:   players,
		You:       model.SummarizePlayer(player),
		Inventory: model.ItemPayloadsFrom(player.Inventory),
	}
}

// handleShot decodes the photo and runs the shot pipeline. The result
// reaches the shooter through the pipeline's match-wide shot_result
// broadcast; only guard failures produce an error frame here.
func (h *Handler) handleShot(conn *Conn, data json.RawMessage) {
	matchID, playerID, bound := conn.Bound()
	if !bound {
		conn.TrySend(encodeError(codeNotBound, "send a connect frame first"))
		return
	}

	var payload ShotData
	if err := json.Unmarshal(data, &payload); err != nil {
		conn.TrySend(encodeError(codeInvalidFrame, "malformed shot frame"))
		return
	}
	image, err := base64.StdEncoding.DecodeString(payload.Image)
	if err != nil {
		conn.TrySend(encodeError(codeInvalidFrame, "image is not valid base64"))
		return
	}

	if _, err := h.resolver.Resolve(context.Background(), matchID, playerID, image); err != nil {
		conn.TrySend(encodeError(codeFor(err), err.Error()))
	}
}

// handleAdmin runs a lifecycle verb on the bound match. The registry
// enforces that only the admin may transition.
func (h *Handler) handleAdmin(conn *Conn, data json.RawMessage) {
	matchID, playerID, bound := conn.Bound()
	if !bound {
		conn.TrySend(encodeError(codeNotBound, "send a connect frame first"))
		return
	}

	var payload AdminData
	if err := json.Unmarshal(data, &payload); err != nil {
		conn.TrySend(encodeError(codeInvalidFrame, "malformed admin frame"))
		return
	}

	var err error
	switch payload.Action {
	case ActionStart:
		_, err = h.registry.Start(matchID, playerID)
	case ActionPause:
		_, err = h.registry.Pause(matchID, playerID)
	case ActionResume:
		_, err = h.registry.Resume(matchID, playerID)
	case ActionEnd:
		_, err = h.registry.End(matchID, playerID)
	case ActionRestart:
		_, err = h.registry.Restart(matchID, playerID)
	default:
		conn.TrySend(encodeError(codeInvalidFrame, "unknown admin action: "+payload.Action))
		return
	}
	if err != nil {
		conn.TrySend(encodeError(codeFor(err), err.Error()))
	}
}

// dropConn runs when a connection's read pump exits. The player is only
// marked disconnected when this socket still owned the binding; a rebind
// from a newer socket keeps the player connected.
func (h *Handler) dropConn(conn *Conn) {
	conn.Close()

	matchID, playerID, bound := conn.Bound()
	if !bound {
		return
	}
	hub := h.hubs.GetHub(matchID)
	if hub == nil {
		return
	}
	if owned := hub.Remove(conn); !owned {
		return
	}

	if err := h.registry.SetStatus(matchID, playerID, model.StatusDisconnected); err != nil {
		h.logger.Debug("disconnect status update failed",
			slog.String("match_id", string(matchID)),
			slog.Any("error", err))
	}
}
