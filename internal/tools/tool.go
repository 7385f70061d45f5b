package tools

import "context"

// Result is what a tool invocation hands back to whatever front end drove
// it. Operational failures (bad id, blocked command, task failures) travel in
// Error as a value; a Go error from Execute means the tool machinery itself
// broke.
type Result struct {
	Output string
	Error  string
}

// Tool is one operator-facing operation with JSON-schema described arguments.
type Tool interface {
	Name() string
	Description() string
	Parameters() any
	Execute(ctx context.Context, args string) (Result, error)
	NeedsConfirmation() bool
}
