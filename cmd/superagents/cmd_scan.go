package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

var scanJSON bool

// scanCmd prints the workspace summary the recommender works from
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the workspace and print its summary",
	Long: `Walks the workspace, detects languages and dependency manifests, and
prints the summary used to recommend a team. The result is cached by
workspace fingerprint, so repeated scans of an unchanged project are free.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print the raw scan result as JSON")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c := openCache()
	if c != nil {
		defer c.Close()
	}

	result, err := scan.New(c, logger).Scan(ctx, workspaceRoot)
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}

	if scanJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode scan result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(headingStyle.Render("Workspace scan"))
	fmt.Printf("  Root:        %s\n", result.Root)
	fmt.Printf("  Fingerprint: %s\n", accentStyle.Render(result.Fingerprint))
	fmt.Printf("  Files:       %d (%d test files) in %d directories\n",
		result.Files, result.TestFileCount, result.Directories)
	if len(result.Languages) > 0 {
		parts := make([]string, 0, len(result.Languages))
		for _, name := range result.LanguageNames() {
			parts = append(parts, fmt.Sprintf("%s (%d)", name, result.Languages[name]))
		}
		fmt.Printf("  Languages:   %s\n", strings.Join(parts, ", "))
	}
	if len(result.ManifestPaths) > 0 {
		fmt.Printf("  Manifests:   %s\n", strings.Join(result.ManifestPaths, ", "))
	}
	return nil
}
