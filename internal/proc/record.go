package proc

import "time"

// State is the lifecycle state of a tracked process.
type State string

const (
	StateRunning      State = "running"
	StateBackgrounded State = "backgrounded"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
	StateKilled       State = "killed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateKilled
}

// Record describes one spawned process. Command and StartedAt are immutable
// after registration; State and ExitCode are updated by the executor's waiter
// goroutine and by Control on kill/reconcile.
type Record struct {
	ID        string    `json:"id"`
	PID       int       `json:"pid"`
	Command   []string  `json:"command"`
	StartedAt time.Time `json:"started_at"`
	LogPath   string    `json:"log_path"`
	State     State     `json:"state"`
	// ExitCode is set once State reaches completed or failed. -1 means the
	// process died but its exit code could not be recovered.
	ExitCode *int `json:"exit_code,omitempty"`
}

func (r Record) clone() Record {
	out := r
	out.Command = append([]string(nil), r.Command...)
	if r.ExitCode != nil {
		code := *r.ExitCode
		out.ExitCode = &code
	}
	return out
}
