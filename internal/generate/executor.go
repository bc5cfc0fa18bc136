package generate

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
)

// DefaultConcurrency is the fan-out ceiling for one batch.
const DefaultConcurrency = 3

// Task is one unit of generation work: what to generate, the prompt to send,
// and the tier already resolved for it.
type Task struct {
	Kind   artifact.Kind
	Name   string
	Prompt string
	Tier   backend.Tier
}

// TaskResult pairs a task with its terminal text or error.
type TaskResult struct {
	Task Task
	Text string
	Err  error
}

// ProgressFunc is called once per completed task with the completed count so
// far, the batch total, and the task's name. Calls arrive in completion
// order, one at a time.
type ProgressFunc func(completed, total int, name string)

// Executor fans tasks out to a worker with a fixed concurrency ceiling.
type Executor struct {
	limit    int
	progress ProgressFunc
	logger   *zap.Logger
}

// NewExecutor creates an executor. A non-positive limit falls back to
// DefaultConcurrency; progress may be nil.
func NewExecutor(limit int, progress ProgressFunc, logger *zap.Logger) *Executor {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{limit: limit, progress: progress, logger: logger}
}

// Run executes every task through worker and returns results indexed like
// tasks. Each task is attempted exactly once; at most the configured limit
// run concurrently; one task's failure never cancels or blocks siblings.
// Run returns only after every task has resolved.
func (e *Executor) Run(ctx context.Context, tasks []Task, worker func(ctx context.Context, t Task) (string, error)) []TaskResult {
	results := make([]TaskResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	var mu sync.Mutex
	completed := 0

	// Workers always return nil so a failing task cannot cancel the group;
	// failures travel in the results instead.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.limit)

	for i, task := range tasks {
		eg.Go(func() error {
			text, err := worker(egCtx, task)

			mu.Lock()
			results[i] = TaskResult{Task: task, Text: text, Err: err}
			completed++
			if e.progress != nil {
				e.progress(completed, len(tasks), task.Name)
			}
			mu.Unlock()

			if err != nil {
				e.logger.Debug("task failed",
					zap.String("task", task.Name),
					zap.Error(err))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		e.logger.Warn("executor group error", zap.Error(err))
	}
	return results
}
