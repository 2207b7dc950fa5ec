package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"threadscout/internal/config"
)

func newConfigCommand(cfg func() *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (keys redacted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			redacted := *cfg()
			redacted.Search.Bing.APIKey = redact(redacted.Search.Bing.APIKey)
			redacted.Search.Google.APIKey = redact(redacted.Search.Google.APIKey)
			redacted.LLM.Gemini.APIKey = redact(redacted.LLM.Gemini.APIKey)
			redacted.LLM.OpenAI.APIKey = redact(redacted.LLM.OpenAI.APIKey)
			redacted.Platforms.GitHubToken = redact(redacted.Platforms.GitHubToken)
			redacted.Platforms.StackAppsKey = redact(redacted.Platforms.StackAppsKey)

			data, err := json.MarshalIndent(&redacted, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg().Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.ConfigPath())
			return nil
		},
	})

	return configCmd
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	return "********"
}
