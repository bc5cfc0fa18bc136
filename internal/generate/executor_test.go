package generate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestExecutor_ConcurrencyCeiling(t *testing.T) {
	// go.opencensus.io starts a permanent worker goroutine in package init
	// (linked in via the genai client); goleak documents it as ignorable.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	const limit = 3
	var inFlight, peak atomic.Int64

	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = Task{Name: fmt.Sprintf("task-%02d", i)}
	}

	e := NewExecutor(limit, nil, nil)
	results := e.Run(context.Background(), tasks, func(ctx context.Context, task Task) (string, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return "ok", nil
	})

	require.Len(t, results, len(tasks))
	for _, res := range results {
		assert.NoError(t, res.Err)
	}
	assert.LessOrEqual(t, peak.Load(), int64(limit), "in-flight workers exceeded the limit")
	assert.Positive(t, peak.Load())
}

func TestExecutor_FailureDoesNotCancelSiblings(t *testing.T) {
	// go.opencensus.io starts a permanent worker goroutine in package init
	// (linked in via the genai client); goleak documents it as ignorable.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	boom := errors.New("boom")
	var canceledSiblings atomic.Int32

	tasks := []Task{{Name: "fail"}, {Name: "a"}, {Name: "b"}, {Name: "c"}}

	e := NewExecutor(2, nil, nil)
	results := e.Run(context.Background(), tasks, func(ctx context.Context, task Task) (string, error) {
		if task.Name == "fail" {
			return "", boom
		}
		time.Sleep(20 * time.Millisecond)
		if ctx.Err() != nil {
			canceledSiblings.Add(1)
		}
		return "ok", nil
	})

	require.Len(t, results, 4)
	assert.ErrorIs(t, results[0].Err, boom)
	for _, res := range results[1:] {
		assert.NoError(t, res.Err, "sibling %s must not fail", res.Task.Name)
	}
	assert.Zero(t, canceledSiblings.Load(), "a task failure must not cancel siblings")
}

func TestExecutor_ProgressInCompletionOrder(t *testing.T) {
	// go.opencensus.io starts a permanent worker goroutine in package init
	// (linked in via the genai client); goleak documents it as ignorable.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	release := map[string]chan struct{}{
		"a": make(chan struct{}),
		"b": make(chan struct{}),
		"c": make(chan struct{}),
	}
	tasks := []Task{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	progCh := make(chan string, len(tasks))
	var mu sync.Mutex
	var counts []int
	var totals []int
	progress := func(completed, total int, name string) {
		mu.Lock()
		counts = append(counts, completed)
		totals = append(totals, total)
		mu.Unlock()
		progCh <- name
	}

	e := NewExecutor(3, progress, nil)
	done := make(chan []TaskResult, 1)
	go func() {
		done <- e.Run(context.Background(), tasks, func(ctx context.Context, task Task) (string, error) {
			<-release[task.Name]
			return "ok", nil
		})
	}()

	// Completion order is forced: c, then a, then b.
	close(release["c"])
	assert.Equal(t, "c", <-progCh)
	close(release["a"])
	assert.Equal(t, "a", <-progCh)
	close(release["b"])
	assert.Equal(t, "b", <-progCh)

	results := <-done
	require.Len(t, results, 3)
	assert.Equal(t, []int{1, 2, 3}, counts, "completed counts must be strictly increasing")
	assert.Equal(t, []int{3, 3, 3}, totals)
}

func TestExecutor_ResultsIndexedLikeTasks(t *testing.T) {
	// go.opencensus.io starts a permanent worker goroutine in package init
	// (linked in via the genai client); goleak documents it as ignorable.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	release := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
		"third":  make(chan struct{}),
	}
	tasks := []Task{{Name: "first"}, {Name: "second"}, {Name: "third"}}

	started := make(chan struct{}, len(tasks))
	e := NewExecutor(3, nil, nil)
	done := make(chan []TaskResult, 1)
	go func() {
		done <- e.Run(context.Background(), tasks, func(ctx context.Context, task Task) (string, error) {
			started <- struct{}{}
			<-release[task.Name]
			return "text:" + task.Name, nil
		})
	}()

	for range tasks {
		<-started
	}
	// Complete in reverse submission order.
	close(release["third"])
	close(release["second"])
	close(release["first"])

	results := <-done
	require.Len(t, results, 3)
	for i, task := range tasks {
		assert.Equal(t, task.Name, results[i].Task.Name)
		assert.Equal(t, "text:"+task.Name, results[i].Text)
	}
}

func TestExecutor_EmptyTasks(t *testing.T) {
	// go.opencensus.io starts a permanent worker goroutine in package init
	// (linked in via the genai client); goleak documents it as ignorable.
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))

	called := false
	e := NewExecutor(3, func(int, int, string) { called = true }, nil)
	results := e.Run(context.Background(), nil, func(ctx context.Context, task Task) (string, error) {
		return "", nil
	})

	assert.Empty(t, results)
	assert.False(t, called, "progress must not fire for an empty batch")
}
