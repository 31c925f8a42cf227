package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newShootCmd() *cobra.Command {
	var playerID string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "shoot <image-file> [match-id]",
		Short: "Submit a shot photo and wait for its result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, callerID, err := identityArgs(args[1:], playerID)
			if err != nil {
				return err
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			conn, err := dialMatch(matchID, callerID)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			shot, _ := json.Marshal(map[string]string{
				"image": base64.StdEncoding.EncodeToString(image),
			})
			if err := conn.WriteJSON(wireFrame{Type: "shot", Data: shot}); err != nil {
				return fmt.Errorf("failed to send shot: %w", err)
			}

			// shot_result is broadcast for every player's attempt; read
			// until ours arrives or the server sends an error frame
			deadline := time.Now().Add(timeout)
			if err := conn.SetReadDeadline(deadline); err != nil {
				return err
			}
			for {
				var frame wireFrame
				if err := conn.ReadJSON(&frame); err != nil {
					return fmt.Errorf("no shot result received: %w", err)
				}
				switch frame.Type {
				case "shot_result":
					var tag struct {
						PlayerID string `json:"player_id"`
					}
					if json.Unmarshal(frame.Data, &tag) != nil || tag.PlayerID != callerID {
						continue
					}
					printShotResult(frame.Data)
					return nil
				case "error":
					var apiErr APIError
					_ = json.Unmarshal(frame.Data, &apiErr)
					return fmt.Errorf("%s", apiErr.String())
				}
			}
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Shooting player ID (default: saved identity)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "How long to wait for the result")

	return cmd
}

// ShotResult is the broadcast resolution of one shot attempt
type ShotResult struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Outcome  string `json:"outcome"`
	Points   int    `json:"points"`
	Target  *struct {
		Name string `json:"name"`
	} `json:"target,omitempty"`
	Collected []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
	} `json:"collected,omitempty"`
	Redeemed []struct {
		Item struct {
			Name string `json:"name"`
		} `json:"item"`
		Container string `json:"container"`
		Points    int    `json:"points"`
	} `json:"redeemed,omitempty"`
	FallbackPoints int    `json:"fallback_points,omitempty"`
	Description    string `json:"description,omitempty"`
}

func printShotResult(data json.RawMessage) {
	out := NewOutput(cfg.Output)
	if cfg.Output == "json" {
		var raw any
		_ = json.Unmarshal(data, &raw)
		out.Print(raw)
		return
	}

	var result ShotResult
	if err := json.Unmarshal(data, &result); err != nil {
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Outcome: %s\n", result.Outcome)
	if result.Target != nil {
		fmt.Printf("Hit: %s\n", result.Target.Name)
	}
	for _, r := range result.Redeemed {
		fmt.Printf("Redeemed: %s into %s (+%d pts)\n", r.Item.Name, r.Container, r.Points)
	}
	for _, c := range result.Collected {
		fmt.Printf("Collected: %s (%s)\n", c.Name, c.Category)
	}
	if result.FallbackPoints > 0 {
		fmt.Printf("Fallback: +%d pts\n", result.FallbackPoints)
	}
	if result.Points > 0 {
		fmt.Printf("Points awarded: %d\n", result.Points)
	}
	if result.Description != "" {
		fmt.Printf("Scene: %s\n", result.Description)
	}
}
