package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rinaldofesta/superagents-sub002/internal/cache"
)

// cacheCmd groups the cache operator surface
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the generation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and size",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cache entry",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// mustOpenCache opens the cache for the operator commands. Unlike generation,
// these fail hard: the user asked about the cache specifically.
func mustOpenCache() (*cache.Cache, error) {
	c, err := cache.Open(cfg.CacheBackend, cfg.ResolveCacheDir(workspaceRoot), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return c, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, err := mustOpenCache()
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	fmt.Println(headingStyle.Render("Cache"))
	fmt.Printf("  Backend: %s\n", cfg.CacheBackend)
	fmt.Printf("  Dir:     %s\n", cfg.ResolveCacheDir(workspaceRoot))
	fmt.Printf("  Entries: %d (%s)\n", stats.TotalEntries, formatBytes(stats.TotalBytes))

	classes := make([]string, 0, len(stats.EntriesByClass))
	for class := range stats.EntriesByClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		fmt.Printf("    %-12s %d\n", class, stats.EntriesByClass[class])
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := mustOpenCache()
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println(successStyle.Render("Cache cleared"))
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
