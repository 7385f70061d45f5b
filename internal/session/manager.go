package session

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/jeanpaul/hive/internal/proc"
)

// ErrNotFound is returned when an operation references an unknown session id.
var ErrNotFound = errors.New("session not found")

type entry struct {
	mu           sync.Mutex
	session      Session
	ptmx         *os.File
	cmd          *exec.Cmd
	lastActivity time.Time
}

// Manager owns interactive shell sessions. Each session runs its command
// under a PTY so interactive prompts behave, and drains PTY output to a
// per-session log file.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	logDir   string
	shell    string
}

func NewManager(logDir, shell string) *Manager {
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Manager{
		sessions: make(map[string]*entry),
		logDir:   logDir,
		shell:    shell,
	}
}

// Open starts a new session. With no command, the configured shell is run.
func (m *Manager) Open(command []string) (Session, error) {
	if len(command) == 0 {
		command = []string{m.shell}
	}
	if err := os.MkdirAll(m.logDir, 0o755); err != nil {
		return Session{}, fmt.Errorf("create log dir: %w", err)
	}

	id := uuid.NewString()
	logPath := filepath.Join(m.logDir, "session-"+id+".log")
	sink, err := proc.OpenLogSink(logPath)
	if err != nil {
		return Session{}, err
	}

	cmd := exec.Command(command[0], command[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		sink.Close()
		_ = os.Remove(logPath)
		return Session{}, fmt.Errorf("start pty: %w", err)
	}

	now := time.Now()
	e := &entry{
		session: Session{
			ID:           id,
			PID:          cmd.Process.Pid,
			Command:      append([]string(nil), command...),
			CreatedAt:    now,
			LastActivity: now,
			LogPath:      logPath,
		},
		ptmx:         ptmx,
		cmd:          cmd,
		lastActivity: now,
	}

	m.mu.Lock()
	m.sessions[id] = e
	m.mu.Unlock()

	// Drain PTY output into the log. A PTY read error (EIO on close) ends
	// the loop; that is the normal shutdown path on Linux.
	go func() {
		buf := make([]byte, 4096)
		for {
			n, rerr := ptmx.Read(buf)
			if n > 0 {
				sink.Append(buf[:n])
				e.touch()
			}
			if rerr != nil {
				break
			}
		}
		_ = cmd.Wait()
		sink.Close()
	}()

	return e.snapshot(), nil
}

func (e *entry) touch() {
	e.mu.Lock()
	defer e.mu.Unlock()
	// lastActivity never goes backwards
	if now := time.Now(); now.After(e.lastActivity) {
		e.lastActivity = now
		e.session.LastActivity = now
	}
}

func (e *entry) snapshot() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session
	s.Command = append([]string(nil), e.session.Command...)
	return s
}

func (m *Manager) get(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, nil
}

// Write sends input to the session's PTY and refreshes its activity time.
func (m *Manager) Write(id, input string) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	if _, err := e.ptmx.Write([]byte(input)); err != nil {
		return fmt.Errorf("write to session %s: %w", id, err)
	}
	e.touch()
	return nil
}

// Tail returns the last n lines of the session's log (the whole log when
// n <= 0). Reading counts as activity.
func (m *Manager) Tail(id string, n int) (string, error) {
	e, err := m.get(id)
	if err != nil {
		return "", err
	}
	e.touch()
	return proc.ReadLog(e.session.LogPath, n)
}

// List returns snapshots of all sessions, oldest first.
func (m *Manager) List() []Session {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	out := make([]Session, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Close terminates a session's process and removes it.
func (m *Manager) Close(id string) error {
	e, err := m.get(id)
	if err != nil {
		return err
	}
	m.terminate(e)
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *Manager) terminate(e *entry) {
	_ = e.ptmx.Close()
	if e.cmd.Process != nil {
		_ = e.cmd.Process.Signal(syscall.SIGTERM)
		// Give the shell a moment before the hard kill.
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if !proc.Alive(e.cmd.Process.Pid) {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		_ = e.cmd.Process.Kill()
	}
}

// CleanupExpired kills and purges every session whose last activity is older
// than maxAge, and returns how many were cleaned. This is the collection
// boundary that keeps leaked shells from piling up in a long-lived host.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*entry
	for id, e := range m.sessions {
		e.mu.Lock()
		idle := e.lastActivity.Before(cutoff)
		e.mu.Unlock()
		if idle {
			expired = append(expired, e)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, e := range expired {
		m.terminate(e)
	}
	return len(expired)
}
