package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rinaldofesta/superagents-sub002/internal/artifact"
	"github.com/rinaldofesta/superagents-sub002/internal/backend"
	"github.com/rinaldofesta/superagents-sub002/internal/cache"
	"github.com/rinaldofesta/superagents-sub002/internal/profile"
	"github.com/rinaldofesta/superagents-sub002/internal/prompt"
	"github.com/rinaldofesta/superagents-sub002/internal/scan"
)

// OutcomeStatus tags how one task resolved.
type OutcomeStatus int

const (
	OutcomeSuccess OutcomeStatus = iota
	OutcomePlaceholder
	OutcomeFailure
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeSuccess:
		return "success"
	case OutcomePlaceholder:
		return "placeholder"
	default:
		return "failure"
	}
}

// Outcome is one task's terminal resolution. Failures exist only between
// generation and the batch reduction; after it they are either placeholders
// or have aborted the batch.
type Outcome struct {
	Task     Task
	Status   OutcomeStatus
	Artifact artifact.Artifact
	Err      error
}

// Request carries the run-wide inputs of one generation.
type Request struct {
	Goal        string
	Fingerprint string
	Ceiling     backend.Tier
	Scan        *scan.Result
	Profiles    []profile.Profile

	// SkipCache bypasses cache reads for this run; successful generations
	// are still written through.
	SkipCache bool
}

// Config tunes one orchestrator.
type Config struct {
	Concurrency    int
	MaxRetries     int
	RetryBaseDelay time.Duration
	Progress       ProgressFunc
}

// DefaultOrchestratorConfig returns the stock tuning.
func DefaultOrchestratorConfig() Config {
	return Config{
		Concurrency:    DefaultConcurrency,
		MaxRetries:     DefaultMaxRetries,
		RetryBaseDelay: DefaultRetryBaseDelay,
	}
}

// Orchestrator coordinates cache-or-generate for every task of a run. The
// cache is an injected dependency and may be nil to disable caching.
type Orchestrator struct {
	client     backend.Client
	cache      *cache.Cache
	executor   *Executor
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(client backend.Client, c *cache.Cache, cfg Config, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultRetryBaseDelay
	}
	return &Orchestrator{
		client:     client,
		cache:      c,
		executor:   NewExecutor(cfg.Concurrency, cfg.Progress, logger),
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.RetryBaseDelay,
		logger:     logger,
	}
}

// Run plans and generates every artifact for the request. Specialist and
// knowledge batches abort the run when strictly more than half of their
// items fail permanently; otherwise failed items degrade to placeholders.
// The single overview task degrades to a placeholder on failure.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*artifact.Bundle, error) {
	plan, err := BuildPlan(req.Goal, req.Scan, req.Profiles, req.Ceiling)
	if err != nil {
		return nil, fmt.Errorf("failed to plan generation: %w", err)
	}

	log := o.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("generation run starting",
		zap.Int("specialists", len(plan.Specialists)),
		zap.Int("knowledge", len(plan.Knowledge)),
		zap.String("tier_ceiling", req.Ceiling.String()),
		zap.String("backend", o.client.Provider()))

	bundle := &artifact.Bundle{Goal: req.Goal}

	for _, batch := range []struct {
		tasks         []Task
		applyMajority bool
	}{
		{plan.Specialists, true},
		{plan.Knowledge, true},
		{[]Task{plan.Overview}, false},
	} {
		outcomes, err := o.runBatch(ctx, log, req, batch.tasks, batch.applyMajority)
		if err != nil {
			return nil, err
		}
		for _, out := range outcomes {
			bundle.Add(out.Artifact)
		}
	}

	log.Info("generation run complete",
		zap.Int("artifacts", len(bundle.Artifacts)),
		zap.Int("placeholders", bundle.Placeholders()))
	return bundle, nil
}

// runBatch resolves one kind's tasks: cache pass, generation pass, then the
// batch reduction. With applyMajority, strictly more than half of the tasks
// failing permanently aborts the batch; otherwise failures degrade to
// placeholder outcomes. Every task resolves to exactly one outcome.
func (o *Orchestrator) runBatch(ctx context.Context, log *zap.Logger, req Request, tasks []Task, applyMajority bool) ([]Outcome, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	outcomes := make([]Outcome, len(tasks))
	var pending []int

	for i, task := range tasks {
		if o.cache != nil && !req.SkipCache {
			if data, ok := o.cache.Get(taskKey(req, task), cache.ClassGeneration); ok {
				outcomes[i] = Outcome{
					Task:   task,
					Status: OutcomeSuccess,
					Artifact: artifact.Artifact{
						Kind:      task.Kind,
						Name:      task.Name,
						Content:   string(data),
						FromCache: true,
					},
				}
				log.Debug("cache hit",
					zap.String("task", task.Name),
					zap.String("tier", task.Tier.String()))
				continue
			}
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		batch := make([]Task, len(pending))
		for j, idx := range pending {
			batch[j] = tasks[idx]
		}

		results := o.executor.Run(ctx, batch, func(ctx context.Context, t Task) (string, error) {
			return withRetry(ctx, o.maxRetries, o.baseDelay, func() (string, error) {
				return o.client.Generate(ctx, t.Prompt, t.Tier)
			})
		})

		for j, res := range results {
			idx := pending[j]
			if res.Err != nil {
				outcomes[idx] = Outcome{Task: res.Task, Status: OutcomeFailure, Err: res.Err}
				log.Warn("task failed permanently",
					zap.String("task", res.Task.Name),
					zap.Error(res.Err))
				continue
			}
			o.cachePut(req, res.Task, res.Text)
			outcomes[idx] = Outcome{
				Task:   res.Task,
				Status: OutcomeSuccess,
				Artifact: artifact.Artifact{
					Kind:    res.Task.Kind,
					Name:    res.Task.Name,
					Content: res.Text,
				},
			}
		}
	}

	failed := 0
	for _, out := range outcomes {
		if out.Status == OutcomeFailure {
			failed++
		}
	}
	if applyMajority && failed*2 > len(tasks) {
		kind := tasks[0].Kind
		log.Error("batch aborted",
			zap.String("kind", kind.String()),
			zap.Int("failed", failed),
			zap.Int("total", len(tasks)))
		return nil, fmt.Errorf("%s generation failed: %d/%d items failed", kind, failed, len(tasks))
	}

	for i, out := range outcomes {
		if out.Status == OutcomeFailure {
			outcomes[i] = Outcome{
				Task:     out.Task,
				Status:   OutcomePlaceholder,
				Artifact: placeholderArtifact(out.Task, req.Goal),
				Err:      out.Err,
			}
		}
	}
	return outcomes, nil
}

// taskKey derives the cache key for one task. Every field is identity: a
// different tier is a different key.
func taskKey(req Request, t Task) cache.Key {
	return cache.Key{
		Goal:        req.Goal,
		Fingerprint: req.Fingerprint,
		Kind:        t.Kind.String(),
		Name:        t.Name,
		Tier:        t.Tier.String(),
	}
}

func (o *Orchestrator) cachePut(req Request, t Task, text string) {
	if o.cache == nil {
		return
	}
	o.cache.Put(taskKey(req, t), []byte(text), cache.ClassGeneration)
}

// placeholderArtifact synthesizes the deterministic fallback for a failed
// task. Content depends only on the task name and the goal, never on the
// error, and placeholders are never written to the cache.
func placeholderArtifact(t Task, goal string) artifact.Artifact {
	content := fmt.Sprintf(`# %s

> Generation failed for this item. This file is a placeholder.

- Item: %s
- Goal: %s

Re-run the generate command to retry this item; transient backend failures
usually clear on the next attempt.
`, prompt.Title(t.Name), t.Name, goal)

	return artifact.Artifact{
		Kind:        t.Kind,
		Name:        t.Name,
		Content:     content,
		Placeholder: true,
	}
}
