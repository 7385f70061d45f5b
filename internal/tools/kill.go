package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall"

	"github.com/jeanpaul/hive/internal/proc"
)

// KillTool terminates a tracked process by id.
type KillTool struct {
	Ctl *proc.Control
}

var signalNames = map[string]syscall.Signal{
	"TERM": syscall.SIGTERM,
	"KILL": syscall.SIGKILL,
	"INT":  syscall.SIGINT,
	"HUP":  syscall.SIGHUP,
}

func (t *KillTool) Name() string            { return "kill" }
func (t *KillTool) NeedsConfirmation() bool { return true }
func (t *KillTool) Description() string {
	return "Terminate a tracked process. Sends TERM and escalates to KILL if it does not exit."
}

func (t *KillTool) Parameters() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "The process id",
			},
			"signal": map[string]any{
				"type":        "string",
				"enum":        []string{"TERM", "KILL", "INT", "HUP"},
				"description": "Signal to send (default TERM)",
			},
		},
		"required":             []string{"id"},
		"additionalProperties": false,
	}
}

func (t *KillTool) Execute(ctx context.Context, rawArgs string) (Result, error) {
	var args struct {
		ID     string `json:"id"`
		Signal string `json:"signal"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{Error: "invalid arguments: " + err.Error()}, nil
	}

	sig := syscall.SIGTERM
	if args.Signal != "" {
		s, ok := signalNames[args.Signal]
		if !ok {
			return Result{Error: "unknown signal: " + args.Signal}, nil
		}
		sig = s
	}

	outcome, err := t.Ctl.Kill(args.ID, sig)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}

	switch {
	case outcome.AlreadyDead:
		return Result{Output: fmt.Sprintf("process %s was already terminated", args.ID)}, nil
	case outcome.Escalated:
		return Result{Output: fmt.Sprintf("process %s did not respond to TERM; killed", args.ID)}, nil
	default:
		return Result{Output: fmt.Sprintf("process %s terminated", args.ID)}, nil
	}
}
