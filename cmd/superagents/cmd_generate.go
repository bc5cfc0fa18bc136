package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
	"github.com/rinaldofesta/superagents-sub002/internal/generate"
	"github.com/rinaldofesta/superagents-sub002/internal/logging"
	"github.com/rinaldofesta/superagents-sub002/internal/profile"
	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

var (
	generateGoal        string
	generateOut         string
	generateTier        string
	generateNoCache     bool
	generateConcurrency int
)

// generateCmd produces the full artifact bundle for a workspace
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the specialist team for this workspace",
	Long: `Scans the workspace, recommends a team of specialist profiles, and
generates a briefing document per specialist plus shared knowledge modules
and a team overview.

Generation is cached by workspace fingerprint: an unchanged project with an
unchanged goal reuses previous results instead of calling the backend.

Example:
  superagents generate --goal "Build a payments API in Go"`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateGoal, "goal", "", "What the team is being assembled to do (required)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output directory (default: .superagents/ in the workspace)")
	generateCmd.Flags().StringVar(&generateTier, "tier", "", "Capability ceiling: fast, balanced, or deep (default: from config)")
	generateCmd.Flags().BoolVar(&generateNoCache, "no-cache", false, "Bypass cache reads; successful generations are still cached")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "Concurrent generation tasks (default: from config)")
	generateCmd.MarkFlagRequired("goal")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := cfg.Validate(); err != nil {
		return err
	}
	return generateOnce(ctx, generateGoal)
}

// generateOnce runs one complete scan-recommend-generate-write cycle. The
// watch command reuses it for every regeneration.
func generateOnce(ctx context.Context, goal string) error {
	start := time.Now()

	ceilingName := generateTier
	if ceilingName == "" {
		ceilingName = cfg.Tier
	}
	ceiling, err := backend.ParseTier(ceilingName)
	if err != nil {
		return err
	}

	c := openCache()
	if c != nil {
		defer c.Close()
	}

	result, err := scan.New(c, logger).Scan(ctx, workspaceRoot)
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}

	registry, err := profile.LoadRegistry()
	if err != nil {
		return err
	}
	team := registry.Recommend(goal, result)

	fmt.Printf("%s %s\n", headingStyle.Render("Workspace:"), workspaceRoot)
	fmt.Printf("%s %d files, %d test files, languages: %s\n",
		headingStyle.Render("Scan:"), result.Files, result.TestFileCount,
		strings.Join(result.LanguageNames(), ", "))
	fmt.Printf("%s %s\n", headingStyle.Render("Team:"), teamNames(team))
	fmt.Printf("%s %s\n\n", headingStyle.Render("Tier ceiling:"), ceiling)

	client, err := backend.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	concurrency := generateConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency
	}

	orch := generate.NewOrchestrator(client, c, generate.Config{
		Concurrency:    concurrency,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay(),
		Progress: func(completed, total int, name string) {
			fmt.Printf("  %s %s\n", mutedStyle.Render(fmt.Sprintf("[%d/%d]", completed, total)), name)
		},
	}, logger)

	bundle, err := orch.Run(ctx, generate.Request{
		Goal:        goal,
		Fingerprint: result.Fingerprint,
		Ceiling:     ceiling,
		Scan:        result,
		Profiles:    team,
		SkipCache:   generateNoCache,
	})
	if err != nil {
		return err
	}

	outDir := generateOut
	if outDir == "" {
		outDir = cfg.ResolveOutputDir(workspaceRoot)
	}
	paths, err := artifact.NewWriter(outDir, logger).Write(bundle)
	if err != nil {
		return err
	}

	printSummary(bundle, len(paths), outDir)

	auditLog().Record(logging.RunRecord{
		RunID:        uuid.NewString(),
		StartedAt:    start,
		DurationMS:   time.Since(start).Milliseconds(),
		Goal:         goal,
		Fingerprint:  result.Fingerprint,
		Ceiling:      ceiling.String(),
		Artifacts:    len(bundle.Artifacts),
		FromCache:    bundle.FromCache(),
		Placeholders: bundle.Placeholders(),
	})
	return nil
}

func printSummary(bundle *artifact.Bundle, written int, outDir string) {
	fmt.Println()
	fmt.Println(headingStyle.Render("Team bundle"))
	for _, a := range bundle.Artifacts {
		marker := successStyle.Render("generated")
		switch {
		case a.Placeholder:
			marker = warnStyle.Render("placeholder")
		case a.FromCache:
			marker = mutedStyle.Render("cached")
		}
		fmt.Printf("  %-11s %-26s %s\n", a.Kind, a.Name, marker)
	}
	fmt.Printf("\n%d files written to %s\n", written, outDir)
	if n := bundle.Placeholders(); n > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d placeholder(s) written; run generate again to retry them", n)))
	}
}

func teamNames(team []profile.Profile) string {
	names := make([]string, len(team))
	for i, p := range team {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
