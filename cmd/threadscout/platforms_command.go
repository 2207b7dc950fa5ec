package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threadscout/internal/platform"
)

func newPlatformsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List supported platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range platform.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
