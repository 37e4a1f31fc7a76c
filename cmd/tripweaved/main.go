package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tripweave-ai/tripweave/internal/cli"
	"github.com/tripweave-ai/tripweave/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tripweaved",
		Short: "Tripweave daemon and CLI",
		Long:  "Tripweave daemon for running the API server and managing retrieval indexes",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IndexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
