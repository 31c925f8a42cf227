package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// identityArgs resolves the match and player for an admin verb: explicit
// args win, otherwise the saved identity from the last create/join
func identityArgs(args []string, playerFlag string) (matchID, playerID string, err error) {
	if len(args) > 0 {
		matchID = args[0]
	}
	playerID = playerFlag

	if matchID != "" && playerID != "" {
		return matchID, playerID, nil
	}

	id, err := cfg.LoadIdentity()
	if err != nil {
		return "", "", err
	}
	if id == nil {
		return "", "", fmt.Errorf("no saved identity; pass <match-id> and --player, or create/join a match first")
	}
	if matchID == "" {
		matchID = id.MatchID
	}
	if playerID == "" {
		playerID = id.PlayerID
	}
	return matchID, playerID, nil
}

func newLifecycleCmd(verb, short string) *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   verb + " [match-id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, callerID, err := identityArgs(args, playerID)
			if err != nil {
				return err
			}

			var result Match
			path := fmt.Sprintf("/api/v1/matches/%s/%s", matchID, verb)
			if err := client.Post(path, map[string]string{"player_id": callerID}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Acting player ID (default: saved identity)")

	return cmd
}

func newStartCmd() *cobra.Command {
	return newLifecycleCmd("start", "Start the match (admin only)")
}

func newPauseCmd() *cobra.Command {
	return newLifecycleCmd("pause", "Pause the match (admin only)")
}

func newResumeCmd() *cobra.Command {
	return newLifecycleCmd("resume", "Resume a paused match (admin only)")
}

func newEndCmd() *cobra.Command {
	return newLifecycleCmd("end", "End the match (admin only)")
}

func newRestartCmd() *cobra.Command {
	return newLifecycleCmd("restart", "Return an ended match to waiting (admin only)")
}
