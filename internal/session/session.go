package session

import "time"

// Session is the lighter-weight sibling of a tracked process, used for
// interactive shell contexts. Sessions that sit idle past the manager's
// max age are killed and purged so orphaned shells cannot outlive the host.
type Session struct {
	ID           string    `json:"session_id"`
	PID          int       `json:"pid"`
	Command      []string  `json:"command"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	LogPath      string    `json:"log_path"`
}
