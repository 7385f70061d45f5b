package swarm

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeanpaul/hive/internal/schema"
)

// taskListSchema is the wire shape of a swarm task file: a non-empty array of
// {target, instructions} objects.
var taskListSchema = map[string]any{
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
}

var taskValidator = schema.NewValidator()

// ParseTasks validates and decodes a JSON task list. Indexes are assigned in
// input order.
func ParseTasks(data []byte) ([]Task, error) {
	if err := taskValidator.Validate(taskListSchema, string(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	var raw []struct {
		Target       string `json:"target"`
		Instructions string `json:"instructions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tasks := make([]Task, len(raw))
	for i, r := range raw {
		tasks[i] = Task{Index: i, Target: r.Target, Instructions: r.Instructions}
	}
	return tasks, nil
}

// LoadTasks reads and parses a task file.
func LoadTasks(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return ParseTasks(data)
}
