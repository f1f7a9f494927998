package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"calder-eda/fabcost/pkg/cache"
	"calder-eda/fabcost/pkg/config"
)

var cacheFlags struct {
	namespace string
	key       string
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts per namespace",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Total entries: %d\n", stats.TotalEntries)
		namespaces := make([]string, 0, len(stats.ByNamespace))
		for ns := range stats.ByNamespace {
			namespaces = append(namespaces, ns)
		}
		sort.Strings(namespaces)
		for _, ns := range namespaces {
			fmt.Printf("  %-14s %d\n", ns, stats.ByNamespace[ns])
		}
		if !stats.OldestEntry.IsZero() {
			fmt.Printf("Oldest entry:  %s\n", stats.OldestEntry.Format("2006-01-02 15:04:05 MST"))
			fmt.Printf("Newest entry:  %s\n", stats.NewestEntry.Format("2006-01-02 15:04:05 MST"))
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached entries",
	Long: `Remove cached entries. With no flags every entry is removed;
--namespace restricts the clear to one namespace, and --key to one
key within it.

Entries stored under a request context (distributor and advisory
lookups) are hashed with that context and cannot be targeted by --key;
clear their whole namespace instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cacheFlags.key != "" && cacheFlags.namespace == "" {
			return fmt.Errorf("--key requires --namespace")
		}

		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.Clear(cmd.Context(), cacheFlags.namespace, cacheFlags.key)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d entries\n", removed)
		return nil
	},
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		defer store.Close()

		removed, err := store.CleanupExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d expired entries\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)

	cacheClearCmd.Flags().StringVar(&cacheFlags.namespace, "namespace", "", "limit to one namespace (distributor, advisory, metadata)")
	cacheClearCmd.Flags().StringVar(&cacheFlags.key, "key", "", "limit to one context-free key within --namespace")
}

func openCache() (*cache.SQLiteStore, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return openCacheStore(config.GetConfig(), nil)
}
