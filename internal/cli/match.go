package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match management commands",
	}

	cmd.AddCommand(newMatchCreateCmd())
	cmd.AddCommand(newMatchJoinCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchLeaderboardCmd())
	cmd.AddCommand(newMatchRosterCmd())

	return cmd
}

func newMatchCreateCmd() *cobra.Command {
	var name string
	var winScore int

	cmd := &cobra.Command{
		Use:   "create <admin-name>",
		Short: "Create a new match and join it as admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"admin_name": args[0]}
			if name != "" {
				req["name"] = name
			}
			if winScore > 0 {
				req["win_score"] = winScore
			}

			var result CreatedMatch
			if err := client.Post("/api/v1/matches", req, &result); err != nil {
				return err
			}

			// The badge token only appears here; keep it
			if err := cfg.SaveIdentity(Identity{
				MatchID:  result.Match.ID,
				PlayerID: result.You.ID,
				Name:     result.You.Name,
				Token:    result.Token,
			}); err != nil {
				return fmt.Errorf("failed to save identity: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the match")
	cmd.Flags().IntVar(&winScore, "win-score", 0, "Points threshold (default: server default)")

	return cmd
}

func newMatchJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <match-id> <name>",
		Short: "Join a match (or rejoin with a known name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchID, name := args[0], args[1]

			var result JoinedMatch
			if err := client.Post(fmt.Sprintf("/api/v1/matches/%s/join", matchID), map[string]string{"name": name}, &result); err != nil {
				return err
			}

			if err := cfg.SaveIdentity(Identity{
				MatchID:  result.Match.ID,
				PlayerID: result.You.ID,
				Name:     result.You.Name,
				Token:    result.Token,
			}); err != nil {
				return fmt.Errorf("failed to save identity: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <match-id>",
		Short: "Get match details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match
			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MatchList
			if err := client.Get("/api/v1/matches", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard <match-id>",
		Short: "Show the match leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard
			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s/leaderboard", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster <match-id>",
		Short: "Show the match roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Roster
			if err := client.Get(fmt.Sprintf("/api/v1/matches/%s/roster", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
