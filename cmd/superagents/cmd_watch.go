package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rinaldofesta/superagents-sub002/internal/watch"
)

var watchGoal string

// watchCmd keeps the team fresh as the project's dependencies change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the team when dependency manifests change",
	Long: `Generates the team once, then watches the workspace's dependency
manifests and regenerates whenever a settled change moves the workspace
fingerprint. Saves that leave the manifests byte-identical are ignored.

Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchGoal, "goal", "", "What the team is being assembled to do (required)")
	watchCmd.MarkFlagRequired("goal")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	if err := cfg.Validate(); err != nil {
		return err
	}

	// Runs are serialized: a manifest change during the initial generation
	// waits for it instead of overlapping. Each run gets its own timeout so
	// one stuck run cannot wedge the watch loop.
	var genMu sync.Mutex
	regenerate := func(parent context.Context) {
		genMu.Lock()
		defer genMu.Unlock()

		runCtx, cancelRun := context.WithTimeout(parent, timeout)
		defer cancelRun()

		if err := generateOnce(runCtx, watchGoal); err != nil {
			fmt.Println(errorStyle.Render("generation failed: " + err.Error()))
			logger.Error("generation failed", zap.Error(err))
		}
	}

	w, err := watch.New(workspaceRoot, regenerate, logger)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Printf("%s %s\n", headingStyle.Render("Watching"), workspaceRoot)
	fmt.Println(mutedStyle.Render("Press Ctrl-C to stop"))

	regenerate(ctx)

	<-sigCh
	logger.Info("received shutdown signal")
	return nil
}
