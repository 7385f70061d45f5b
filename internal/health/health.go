package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status struct {
	Name    string
	OK      bool
	Detail  string
	Error   string
	Latency time.Duration
}

// Check runs the local environment checks the process engine depends on:
// the log directory must be writable, the configured shell must exist and
// execute commands, and spawning must complete within a sane latency.
func Check(ctx context.Context, logDir, shell string) []Status {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return []Status{
		checkLogDir(logDir),
		checkShell(ctx, shell),
	}
}

func checkLogDir(logDir string) Status {
	s := Status{Name: "log directory", Detail: logDir}
	start := time.Now()

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		s.Error = fmt.Sprintf("cannot create %s: %s", logDir, friendlyError(err))
		s.Latency = time.Since(start)
		return s
	}

	probe := filepath.Join(logDir, ".doctor-"+uuid.NewString())
	if err := os.WriteFile(probe, []byte("ok\n"), 0o644); err != nil {
		s.Error = fmt.Sprintf("cannot write to %s: %s", logDir, friendlyError(err))
		s.Latency = time.Since(start)
		return s
	}
	os.Remove(probe)

	s.OK = true
	s.Latency = time.Since(start)
	return s
}

func checkShell(ctx context.Context, shell string) Status {
	s := Status{Name: "shell", Detail: shell}
	start := time.Now()

	path, err := exec.LookPath(shell)
	if err != nil {
		s.Error = fmt.Sprintf("%s not found: %s", shell, friendlyError(err))
		s.Latency = time.Since(start)
		return s
	}
	s.Detail = path

	out, err := exec.CommandContext(ctx, path, "-c", "echo ready").Output()
	if err != nil {
		s.Error = fmt.Sprintf("%s cannot run commands: %s", path, friendlyError(err))
		s.Latency = time.Since(start)
		return s
	}
	if !strings.Contains(string(out), "ready") {
		s.Error = fmt.Sprintf("%s produced unexpected output", path)
		s.Latency = time.Since(start)
		return s
	}

	s.OK = true
	s.Latency = time.Since(start)
	return s
}

func friendlyError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "permission denied") {
		return "permission denied (check directory ownership)"
	}
	if strings.Contains(msg, "no such file") {
		return "not found (check the configured path)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "timed out"
	}
	return msg
}
