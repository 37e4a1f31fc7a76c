package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tripweave-ai/tripweave/internal/cli"
	"github.com/tripweave-ai/tripweave/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripweave",
		Short: "Tripweave CLI - Trip planning with traveler context",
		Long: `Tripweave CLI plans trips and manages traveler history.

Environment variables:
  TRIPWEAVE_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.PlanCmd())
	rootCmd.AddCommand(client.ContextCmd())
	rootCmd.AddCommand(client.BookingCmd())
	rootCmd.AddCommand(client.PlansCmd())
	rootCmd.AddCommand(client.DocCmd())
	rootCmd.AddCommand(client.FeedbackCmd())
	rootCmd.AddCommand(client.ProfileCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
