package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threadscout/internal/cache"
	"threadscout/internal/config"
)

func newCacheCommand(cfg func() *config.Config) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the query cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show persistent cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if !c.Cache.Persistent {
				fmt.Fprintln(cmd.OutOrStdout(), "Persistent cache is disabled.")
				return nil
			}
			disk, err := openDisk(c)
			if err != nil {
				return err
			}
			defer disk.Close()

			stats, err := disk.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\npath: %s\nttl: %dh\n",
				stats.Entries, c.CachePath(), c.Cache.TTLHours)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop every cached query",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if !c.Cache.Persistent {
				fmt.Fprintln(cmd.OutOrStdout(), "Persistent cache is disabled; nothing to clear.")
				return nil
			}
			disk, err := openDisk(c)
			if err != nil {
				return err
			}
			defer disk.Close()

			if err := disk.Invalidate(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	})

	return cacheCmd
}

func openDisk(c *config.Config) (*cache.DiskCache, error) {
	return cache.OpenDisk(c.CachePath(), 0, 0)
}
