package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinaldofesta/superagents-sub002/internal/cache"
	"github.com/rinaldofesta/superagents-sub002/internal/config"
	"github.com/rinaldofesta/superagents-sub002/internal/logging"
)

var (
	// Global flags
	verbose   bool
	workspace string
	timeout   time.Duration

	// Resolved by the root PersistentPreRunE before any command runs.
	logger        *zap.Logger
	cfg           *config.UserConfig
	workspaceRoot string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "superagents",
	Short: "superagents - generate a specialist agent team for your project",
	Long: `superagents scans a workspace, recommends a team of specialist agent
profiles for it, and generates their briefing documents through an LLM
backend.

Artifacts are cached under .superagents/ keyed by a workspace fingerprint,
so re-runs on an unchanged project reuse previous results instead of paying
for regeneration.

Start with:
  superagents generate --goal "what this team should build"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		workspaceRoot, err = resolveWorkspace()
		if err != nil {
			return err
		}

		cfg, err = config.Load(filepath.Join(workspaceRoot, config.DotDir, "config.json"))
		if err != nil {
			return err
		}

		if verbose {
			logger, err = logging.New(true)
		} else {
			logger, err = logging.NewAtLevel(cfg.Logging.Level)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: auto-detected project root)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Operation timeout")

	// Add commands to root
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveWorkspace returns the workspace root: the --workspace flag when
// given, the detected project root otherwise.
func resolveWorkspace() (string, error) {
	if workspace == "" {
		return config.FindWorkspaceRoot()
	}

	abs, err := filepath.Abs(workspace)
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace %s is not a directory", abs)
	}
	return abs, nil
}

// openCache opens the configured cache store. A failure disables caching
// for the invocation instead of failing it; callers must nil-check before
// Close.
func openCache() *cache.Cache {
	c, err := cache.Open(cfg.CacheBackend, cfg.ResolveCacheDir(workspaceRoot), logger)
	if err != nil {
		logger.Warn("cache disabled for this run", zap.Error(err))
		return nil
	}
	return c
}

// auditLog returns the workspace's run history log.
func auditLog() *logging.Audit {
	return logging.NewAudit(filepath.Join(workspaceRoot, config.DotDir, "logs", "runs.jsonl"), logger)
}
