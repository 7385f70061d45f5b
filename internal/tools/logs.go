package tools

import (
	"context"
	"encoding/json"

	"github.com/jeanpaul/hive/internal/proc"
)

// LogsTool returns a tracked process's log content. Works the same whether
// the process is running, backgrounded, or finished.
type LogsTool struct {
	Ctl *proc.Control
}

func (t *LogsTool) Name() string            { return "logs" }
func (t *LogsTool) NeedsConfirmation() bool { return false }
func (t *LogsTool) Description() string {
	return "Read the output log of a tracked process, optionally only the last N lines."
}

func (t *LogsTool) Parameters() any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": "The process id",
			},
			"tail": map[string]any{
				"type":        "integer",
				"description": "Return only the last N lines",
			},
		},
		"required":             []string{"id"},
		"additionalProperties": false,
	}
}

func (t *LogsTool) Execute(ctx context.Context, rawArgs string) (Result, error) {
	var args struct {
		ID   string `json:"id"`
		Tail int    `json:"tail"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return Result{Error: "invalid arguments: " + err.Error()}, nil
	}

	content, err := t.Ctl.Logs(args.ID, args.Tail)
	if err != nil {
		return Result{Error: err.Error()}, nil
	}
	return Result{Output: content}, nil
}
