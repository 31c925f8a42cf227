package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var playerID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch [match-id]",
		Short: "Stream live match events over WebSocket",
		Long: `Connect to the match's WebSocket endpoint and stream events in real-time.

Events include:
  - match_snapshot: Full state on connect
  - player_joined / player_connected / player_disconnected
  - match_started / match_paused / match_resumed / match_ended / match_restarted
  - shot_result: Every player's shot outcomes
  - items_collected / item_redeemed / leaderboard_update
  - player_won / player_lost

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, callerID, err := identityArgs(args, playerID)
			if err != nil {
				return err
			}
			return streamEvents(matchID, callerID, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Player ID to bind as (default: saved identity)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// wireFrame mirrors the server's frame envelope
type wireFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// dialMatch opens a socket and binds it to the match
func dialMatch(matchID, playerID string) (*websocket.Conn, error) {
	wsURL, err := websocketURL(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	connect, _ := json.Marshal(map[string]string{"match_id": matchID, "player_id": playerID})
	if err := conn.WriteJSON(wireFrame{Type: "connect", Data: connect}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to send connect frame: %w", err)
	}
	return conn, nil
}

func streamEvents(matchID, playerID string, jsonOutput bool) error {
	conn, err := dialMatch(matchID, playerID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to match %s\n", matchID)
	}

	for {
		var frame wireFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			if !jsonOutput {
				fmt.Println("Disconnected")
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printFrame(frame, jsonOutput)
	}
}

func printFrame(frame wireFrame, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(frame)
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	display := string(frame.Data)
	if len(display) > 120 {
		display = display[:120] + "..."
	}
	display = strings.ReplaceAll(display, "\n", " ")
	fmt.Printf("[%s] %s: %s\n", timestamp, frame.Type, display)
}

// websocketURL converts the HTTP server URL into the /ws endpoint
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	return u.String(), nil
}
