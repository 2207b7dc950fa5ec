package main

import (
	"github.com/spf13/cobra"

	"threadscout/internal/config"
	"threadscout/internal/logging"
)

var version = "0.3.0"

func newRootCommand() *cobra.Command {
	var verbose bool
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:           "threadscout",
		Short:         "Discover public discussion threads across community platforms",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.Init(); err != nil {
				return err
			}
			if verbose {
				logging.SetLevelDebug()
			}
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newDiscoverCommand(func() *config.Config { return cfg }))
	rootCmd.AddCommand(newPlatformsCommand())
	rootCmd.AddCommand(newCacheCommand(func() *config.Config { return cfg }))
	rootCmd.AddCommand(newConfigCommand(func() *config.Config { return cfg }))

	return rootCmd
}
