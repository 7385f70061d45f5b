package proc

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger redirects the package's operational log output.
func SetLogger(l *log.Logger) { logger = l }

// TruncationNotice is appended to captured output once the byte budget is
// exceeded. The log file on disk always holds the full stream.
const TruncationNotice = "\n[output truncated: byte budget exceeded, full output in log file]"

// ExecOptions tunes one Run invocation. Zero values fall back to the
// executor's configured defaults.
type ExecOptions struct {
	Dir     string
	Env     map[string]string
	Timeout time.Duration
	// ForceSync waits for process exit no matter how long it takes.
	ForceSync bool
	// MaxOutputBytes caps the captured (returned) output.
	MaxOutputBytes int
}

// ExecResult is what a caller gets back from Run. Exactly one of the two
// shapes applies: a finished run (State completed/failed, ExitCode and Output
// populated) or a promoted one (State backgrounded, Hint tells the caller how
// to retrieve output later).
type ExecResult struct {
	ID           string `json:"id"`
	State        State  `json:"state"`
	ExitCode     int    `json:"exit_code"`
	Output       string `json:"output,omitempty"`
	Truncated    bool   `json:"truncated,omitempty"`
	Backgrounded bool   `json:"backgrounded,omitempty"`
	LogPath      string `json:"log_path"`
	Hint         string `json:"hint,omitempty"`
}

// Executor runs one command to completion unless it outlives the timeout, in
// which case the command is promoted to a tracked background process.
// Promotion never cancels anything: the spawned process keeps writing its log
// through its own descriptor, detached from the caller's control flow.
type Executor struct {
	reg            *Registry
	spawner        Spawner
	guard          *Guard
	logDir         string
	defaultTimeout time.Duration
	maxOutputBytes int
}

func NewExecutor(reg *Registry, spawner Spawner, logDir string, defaultTimeout time.Duration, maxOutputBytes int) *Executor {
	if defaultTimeout <= 0 {
		defaultTimeout = 2 * time.Minute
	}
	if maxOutputBytes <= 0 {
		maxOutputBytes = 64 * 1024
	}
	return &Executor{
		reg:            reg,
		spawner:        spawner,
		logDir:         logDir,
		defaultTimeout: defaultTimeout,
		maxOutputBytes: maxOutputBytes,
	}
}

// SetGuard installs a command guard checked before every spawn.
func (e *Executor) SetGuard(g *Guard) { e.guard = g }

// Run spawns the command and waits for exit or timeout, whichever is first.
//
// On exit before the timeout the record transitions to completed or failed
// and the captured output comes back with the exit code. On timeout the
// record transitions to backgrounded and a hint comes back instead; output
// keeps landing in the log file.
func (e *Executor) Run(ctx context.Context, command []string, opts ExecOptions) (*ExecResult, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidInput)
	}
	if err := e.guard.Check(command); err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	budget := opts.MaxOutputBytes
	if budget <= 0 {
		budget = e.maxOutputBytes
	}

	if err := os.MkdirAll(e.logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := uuid.NewString()
	logPath := filepath.Join(e.logDir, id+".log")
	sink, err := OpenLogSink(logPath)
	if err != nil {
		return nil, err
	}

	handle, err := e.spawner.Spawn(ctx, command, opts.Dir, opts.Env, sink.File())
	if err != nil {
		sink.Close()
		_ = os.Remove(logPath)
		return nil, &SpawnError{Command: append([]string(nil), command...), Err: err}
	}

	rec := Record{
		ID:        id,
		PID:       handle.PID(),
		Command:   command,
		StartedAt: time.Now(),
		LogPath:   logPath,
		State:     StateRunning,
	}
	if err := e.reg.Register(rec); err != nil {
		// Should be unreachable with uuid ids. The process is already live,
		// so leave it running and report the contract violation.
		return nil, err
	}
	logger.Printf("spawned %s pid=%d cmd=%q", id, rec.PID, strings.Join(command, " "))

	done := make(chan waitOutcome, 1)

	// The child writes the log through its own descriptor; no goroutine in
	// this process sits on its output path. The waiter observes the exit,
	// appends the completion marker, and updates the registry. If this whole
	// process dies first, the log still fills up and Control reconciles the
	// record from the log and a liveness probe.
	go func() {
		code := handle.Wait()
		output, truncated := readCapped(logPath, budget)
		sink.MarkCompletion(code)
		sink.Close()
		e.reg.MarkExited(id, code)
		logger.Printf("process %s exited with code %d", id, code)
		done <- waitOutcome{code: code, output: output, truncated: truncated}
	}()

	var timer <-chan time.Time
	if !opts.ForceSync {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case out := <-done:
		state := StateCompleted
		if out.code != 0 {
			state = StateFailed
		}
		return &ExecResult{
			ID:        id,
			State:     state,
			ExitCode:  out.code,
			Output:    out.output,
			Truncated: out.truncated,
			LogPath:   logPath,
		}, nil

	case <-timer:
	case <-ctx.Done():
		// Caller stopped waiting. Same policy as the timeout: promote, do
		// not cancel the process.
	}

	e.reg.MarkBackgrounded(id)
	logger.Printf("process %s promoted to background", id)
	return &ExecResult{
		ID:           id,
		State:        StateBackgrounded,
		ExitCode:     -1,
		Backgrounded: true,
		LogPath:      logPath,
		Hint:         fmt.Sprintf("command still running in background with id %s; retrieve output with logs(%s) and check status with list()", id, id),
	}, nil
}

type waitOutcome struct {
	code      int
	output    string
	truncated bool
}

// readCapped returns at most limit bytes of the log, noting truncation.
// Truncation affects only what the caller gets back; the file on disk always
// holds the full stream.
func readCapped(path string, limit int) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, int64(limit)+1))
	if err != nil {
		return string(data), false
	}
	if len(data) > limit {
		return string(data[:limit]) + TruncationNotice, true
	}
	return string(data), false
}
