package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeanpaul/hive/internal/proc"
)

// RunTool executes a shell command through the auto-backgrounding executor.
// Commands that finish inside the timeout come back synchronously; slower
// ones are promoted to tracked background processes.
type RunTool struct {
	Exec *proc.Executor
}

type runArgs struct {
	Command        string            `json:"command"`
	Cwd            string            `json:"cwd,omitempty"`
	Env            map[string]string `json:"env,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty"`
	Sync           bool              `json:"sync,omitempty"`
}

func (t *RunTool) Name() string            { return "run" }
func (t *RunTool) NeedsConfirmation() bool { return true }
func (t *RunTool) Description() string {
	return "Execute a shell command. If it does not finish within the timeout it keeps running in the background; use 'processes' and 'logs' to track it."
}

func (t *RunTool) Parameters() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"command": map[string]any{
				"type":        "string",
				"description": "The shell command to execute",
			},
			"cwd": map[string]any{
				"type":        "string",
				"description": "Working directory (defaults to the current one)",
			},
			"env": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
				"description":          "Extra environment variables",
			},
			"timeout_seconds": map[string]any{
				"type":        "integer",
				"description": "Seconds to wait before backgrounding (default from config)",
			},
			"sync": map[string]any{
				"type":        "boolean",
				"description": "Wait for completion regardless of duration",
			},
		},
		"required":             []string{"command"},
		"additionalProperties": false,
	}
}

func (t *RunTool) Execute(ctx context.Context, rawArgs string) (Result, error) {
	var args runArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{Error: "invalid arguments: " + err.Error()}, nil
	}

	opts := proc.ExecOptions{
		Dir:       args.Cwd,
		Env:       args.Env,
		ForceSync: args.Sync,
	}
	if args.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(args.TimeoutSeconds) * time.Second
	}

	res, err := t.Exec.Run(ctx, []string{"/bin/sh", "-c", args.Command}, opts)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}

	if res.Backgrounded {
		return Result{Output: res.Hint}, nil
	}
	if res.State == proc.StateFailed {
		return Result{
			Output: res.Output,
			Error:  fmt.Sprintf("command exited with code %d", res.ExitCode),
		}, nil
	}
	return Result{Output: res.Output}, nil
}
