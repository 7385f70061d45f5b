package swarm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidInput is returned for malformed runs: an empty task list or a
// non-positive concurrency limit. Everything else is reported, not raised.
var ErrInvalidInput = errors.New("invalid swarm input")

// ExecuteFunc is the caller-supplied unit of work. The scheduler treats it as
// opaque: it may run a command through the executor, call an LLM, anything.
type ExecuteFunc func(ctx context.Context, task Task) (string, error)

// Scheduler fans a list of independent tasks out under a concurrency ceiling
// and converges on a Report. It holds no cross-run state; a single value may
// drive any number of runs.
//
// This is a throttle, not a fair scheduler: tasks are admitted strictly in
// list order, complete in any order, and there is no priority mechanism.
type Scheduler struct {
	maxConcurrency int
	commonContext  string
}

func NewScheduler(maxConcurrency int, commonContext string) *Scheduler {
	return &Scheduler{maxConcurrency: maxConcurrency, commonContext: commonContext}
}

// Run executes every task through execute, at most maxConcurrency at a time.
//
// One task's failure (error or panic) is recorded in its result and never
// touches its siblings. Cancelling ctx stops admitting new tasks and marks
// the unadmitted and still-running ones failed with a cancellation reason;
// the admission counter always unwinds cleanly because each admitted task
// releases its slot on the same goroutine that holds it.
func (s *Scheduler) Run(ctx context.Context, tasks []Task, execute ExecuteFunc) (*Report, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: empty task list", ErrInvalidInput)
	}
	if s.maxConcurrency < 1 {
		return nil, fmt.Errorf("%w: max concurrency must be >= 1, got %d", ErrInvalidInput, s.maxConcurrency)
	}
	if execute == nil {
		return nil, fmt.Errorf("%w: nil execute function", ErrInvalidInput)
	}

	start := time.Now()
	results := make([]TaskResult, len(tasks))

	sem := make(chan struct{}, s.maxConcurrency)
	var wg sync.WaitGroup

admit:
	for i := range tasks {
		task := tasks[i]
		task.Index = i
		if s.commonContext != "" {
			task.Instructions = task.Instructions + "\n\n" + s.commonContext
		}

		// Block here until a slot frees up; FIFO admission is exactly this
		// loop running in input order.
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			for j := i; j < len(tasks); j++ {
				results[j] = TaskResult{
					Index:  j,
					Target: tasks[j].Target,
					Status: StatusFailed,
					Error:  "cancelled before admission: " + ctx.Err().Error(),
				}
			}
			break admit
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[task.Index] = s.runTask(ctx, task, execute)
		}()
	}

	wg.Wait()

	report := &Report{
		Total:     len(tasks),
		PerTask:   results,
		WallClock: time.Since(start),
	}
	for _, r := range results {
		if r.Status == StatusSucceeded {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

func (s *Scheduler) runTask(ctx context.Context, task Task, execute ExecuteFunc) (res TaskResult) {
	res = TaskResult{Index: task.Index, Target: task.Target, Status: StatusRunning}
	started := time.Now()

	defer func() {
		res.Duration = time.Since(started).Milliseconds()
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Output = ""
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	output, err := execute(ctx, task)
	switch {
	case err != nil && ctx.Err() != nil:
		res.Status = StatusFailed
		res.Error = "cancelled: " + err.Error()
	case err != nil:
		res.Status = StatusFailed
		res.Error = err.Error()
	default:
		res.Status = StatusSucceeded
		res.Output = output
	}
	return res
}
