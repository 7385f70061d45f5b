package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/swarm"
)

// SwarmTool fans a list of independent tasks out under a concurrency ceiling
// and reports the tally. The unit of work defaults to running each task's
// instructions as a shell command in its target directory; callers embedding
// the tool can substitute any other async operation.
type SwarmTool struct {
	Exec *proc.Executor
	// Unit overrides the default command-running unit of work when set.
	Unit swarm.ExecuteFunc
	// DefaultConcurrency is used when the arguments omit max_concurrency.
	DefaultConcurrency int
}

type swarmArgs struct {
	Tasks []struct {
		Target       string `json:"target"`
		Instructions string `json:"instructions"`
	} `json:"tasks"`
	MaxConcurrency int    `json:"max_concurrency,omitempty"`
	CommonContext  string `json:"common_context,omitempty"`
}

func (t *SwarmTool) Name() string            { return "swarm" }
func (t *SwarmTool) NeedsConfirmation() bool { return true }
func (t *SwarmTool) Description() string {
	return "Run many independent tasks concurrently (bounded) and aggregate the results. Each task is {target, instructions}."
}

func (t *SwarmTool) Parameters() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tasks": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"target":       map[string]any{"type": "string", "minLength": 1},
						"instructions": map[string]any{"type": "string", "minLength": 1},
					},
					"required":             []string{"target", "instructions"},
					"additionalProperties": false,
				},
				"description": "The independent units of work",
			},
			"max_concurrency": map[string]any{
				"type":        "integer",
				"minimum":     1,
				"description": "How many tasks may run at once (default from config)",
			},
			"common_context": map[string]any{
				"type":        "string",
				"description": "Appended to every task's instructions",
			},
		},
		"required":             []string{"tasks"},
		"additionalProperties": false,
	}
}

func (t *SwarmTool) Execute(ctx context.Context, rawArgs string) (Result, error) {
	var args swarmArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{Error: "invalid arguments: " + err.Error()}, nil
	}

	tasks := make([]swarm.Task, len(args.Tasks))
	for i, a := range args.Tasks {
		tasks[i] = swarm.Task{Index: i, Target: a.Target, Instructions: a.Instructions}
	}

	maxConc := args.MaxConcurrency
	if maxConc <= 0 {
		maxConc = t.DefaultConcurrency
	}

	unit := t.Unit
	if unit == nil {
		unit = t.runUnit
	}

	sched := swarm.NewScheduler(maxConc, args.CommonContext)
	report, err := sched.Run(ctx, tasks, unit)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return Result{Error: err.Error()}, nil
	}
	return Result{Output: string(out)}, nil
}

// runUnit is the default unit of work: the task's instructions run as a shell
// command in the target directory, synchronously, through the same executor
// and registry everything else uses.
func (t *SwarmTool) runUnit(ctx context.Context, task swarm.Task) (string, error) {
	res, err := t.Exec.Run(ctx, []string{"/bin/sh", "-c", task.Instructions}, proc.ExecOptions{
		Dir:       task.Target,
		ForceSync: true,
	})
	if err != nil {
		return "", err
	}
	if res.State == proc.StateFailed {
		return res.Output, fmt.Errorf("exited with code %d: %s", res.ExitCode, tailOf(res.Output, 200))
	}
	return res.Output, nil
}

func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
