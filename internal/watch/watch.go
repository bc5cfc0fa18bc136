// Package watch monitors a workspace's dependency manifests and fires a
// callback when a settled change actually moves the fingerprint. Saves that
// leave the fingerprint unchanged are ignored.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rinaldofesta/superagents-sub002/internal/fingerprint"
	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

// Watcher debounces manifest events and rechecks the fingerprint once they
// settle.
type Watcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	root      string
	settle    time.Duration
	onChange  func(ctx context.Context)
	logger    *zap.Logger
	lastFP    string
	lastEvent time.Time
	pending   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// New creates a watcher for the workspace at root. onChange runs on the
// watcher's goroutine whenever a settled manifest change produces a new
// fingerprint.
func New(root string, onChange func(ctx context.Context), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	return &Watcher{
		watcher:  fsw,
		root:     root,
		settle:   500 * time.Millisecond,
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start records the current fingerprint and begins watching. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fp, err := w.currentFingerprint()
	if err != nil {
		w.abort()
		return err
	}
	w.lastFP = fp

	if err := w.watcher.Add(w.root); err != nil {
		w.abort()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}
	w.logger.Info("watching manifests",
		zap.String("root", w.root),
		zap.Strings("manifests", scan.Manifests(w.root)))

	go w.run(ctx)
	return nil
}

// abort tears down after a failed Start. The running flag is cleared so Stop
// stays a no-op, and the filesystem watcher is released since run never took
// ownership of it.
func (w *Watcher) abort() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	w.watcher.Close()
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("failed to close filesystem watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !scan.IsManifest(filepath.Base(event.Name)) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	w.logger.Debug("manifest event",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

// processSettled fires the change check once events have been quiet for the
// settle window.
func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	ready := w.pending && time.Since(w.lastEvent) >= w.settle
	if ready {
		w.pending = false
	}
	w.mu.Unlock()
	if !ready {
		return
	}

	fp, err := w.currentFingerprint()
	if err != nil {
		w.logger.Warn("failed to recompute fingerprint", zap.Error(err))
		return
	}
	if fp == w.lastFP {
		w.logger.Debug("manifest save left fingerprint unchanged")
		return
	}

	w.logger.Info("manifest change detected",
		zap.String("fingerprint", fp))
	w.lastFP = fp
	if w.onChange != nil {
		w.onChange(ctx)
	}
}

func (w *Watcher) currentFingerprint() (string, error) {
	manifests := scan.Manifests(w.root)
	paths := make([]string, len(manifests))
	for i, name := range manifests {
		paths[i] = filepath.Join(w.root, name)
	}
	fp, err := fingerprint.Compute(paths, w.root)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint workspace: %w", err)
	}
	return fp, nil
}
