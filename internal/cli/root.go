package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "ecoshot",
		Short: "CLI tool for the ecoshot match API",
		Long: `ecoshot is a CLI tool for interacting with the ecoshot match server.

It supports match management, lifecycle control, shot submission, and
real-time WebSocket event streaming. Creating or joining a match saves
your player identity and badge token locally so later commands can act
as you without extra flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: ECOSHOT_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.IdentityFile, "identity-file", cfg.IdentityFile, "Identity file path (env: ECOSHOT_IDENTITY_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newMatchCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPauseCmd())
	rootCmd.AddCommand(newResumeCmd())
	rootCmd.AddCommand(newEndCmd())
	rootCmd.AddCommand(newRestartCmd())
	rootCmd.AddCommand(newShootCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
