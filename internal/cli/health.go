package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long: `Check server health.

Exits non-zero when the server reports a degraded storage mirror, so
scripts can alert on it even though gameplay keeps working.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := client.Get("/api/v1/health", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)

			if result.Status != "ok" {
				return fmt.Errorf("server is %s (storage: %s)", result.Status, result.Storage)
			}
			return nil
		},
	}
}
