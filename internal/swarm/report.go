package swarm

import "time"

// TaskStatus tracks one task through a scheduler run.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusSucceeded TaskStatus = "succeeded"
	StatusFailed    TaskStatus = "failed"
)

// Task is one independent unit of a swarm run: a target plus instructions,
// owned exclusively by the run that executes it.
type Task struct {
	Index        int    `json:"index"`
	Target       string `json:"target"`
	Instructions string `json:"instructions"`
}

// TaskResult is the per-task entry of a report, in original input order.
type TaskResult struct {
	Index    int        `json:"index"`
	Target   string     `json:"target"`
	Status   TaskStatus `json:"status"`
	Output   string     `json:"output,omitempty"`
	Error    string     `json:"error,omitempty"`
	Duration int64      `json:"duration_ms"`
}

// Report is the aggregated outcome of one scheduler run. Succeeded+Failed
// always equals Total, even when every task failed; partial or total task
// failure is a reported outcome, never an error.
type Report struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	PerTask   []TaskResult  `json:"per_task"`
	WallClock time.Duration `json:"wall_clock"`
}
