package tools

import (
	"context"
	"encoding/json"

	"github.com/jeanpaul/hive/internal/proc"
)

// ProcessesTool lists tracked processes, reconciling liveness as it goes.
type ProcessesTool struct {
	Ctl *proc.Control
}

func (t *ProcessesTool) Name() string            { return "processes" }
func (t *ProcessesTool) NeedsConfirmation() bool { return false }
func (t *ProcessesTool) Description() string {
	return "List tracked processes and their states. Optionally filter by a command substring."
}

func (t *ProcessesTool) Parameters() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filter": map[string]any{
				"type":        "string",
				"description": "Only include processes whose command contains this substring",
			},
		},
		"additionalProperties": false,
	}
}

func (t *ProcessesTool) Execute(ctx context.Context, rawArgs string) (Result, error) {
	var args struct {
		Filter string `json:"filter"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{Error: "invalid arguments: " + err.Error()}, nil
	}

	records := t.Ctl.List(args.Filter)
	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return Result{Error: err.Error()}, nil
	}
	return Result{Output: string(out)}, nil
}
