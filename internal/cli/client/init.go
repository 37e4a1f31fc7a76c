package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InitCmd creates the init command, which writes the global config file.
func InitCmd() *cobra.Command {
	var (
		apiURL         string
		defaultSubject string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Configure the CLI",
		Long:  "Writes the global config file with the API URL and an optional default traveler subject.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(apiURL, defaultSubject)
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", defaultAPIURL, "API base URL")
	cmd.Flags().StringVar(&defaultSubject, "subject", "", "Default traveler subject ID")

	return cmd
}

func runInit(apiURL, defaultSubject string) error {
	cfg := &GlobalConfig{
		APIURL:         apiURL,
		DefaultSubject: defaultSubject,
	}

	if err := SaveGlobalConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	fmt.Printf("Config written to %s\n", path)
	fmt.Printf("API URL: %s\n", cfg.APIURL)
	if cfg.DefaultSubject != "" {
		fmt.Printf("Default subject: %s\n", cfg.DefaultSubject)
	}
	return nil
}
