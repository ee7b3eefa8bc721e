package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalis/connector-cli/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the enrichment cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts by freshness and source",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newCacheStore()
		stats := store.ComputeStats()

		fmt.Printf("Cache: %s\n", stats.Path)
		fmt.Printf("Total entries: %d\n", stats.Total)
		fmt.Printf("Fresh:         %d\n", stats.Fresh)
		fmt.Printf("Stale:         %d\n", stats.Stale)
		if len(stats.BySource) > 0 {
			fmt.Println("By source:")
			for source, n := range stats.BySource {
				fmt.Printf("  %-10s %d\n", source, n)
			}
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached enrichments",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newCacheStore()
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func newCacheStore() *cache.Store {
	path := cfg.Cache.Path
	if path == "" {
		path = cache.DefaultPath()
	}
	return cache.NewStore(path, cache.WithTTL(cfg.Cache.TTL()))
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
