package proc

import (
	"context"
	"os"
	"os/exec"
	"sort"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Handle is the live side of a spawned process: a pid for signaling and an
// awaitable exit. Output goes straight to the file given at spawn time.
type Handle interface {
	PID() int
	// Wait blocks until the process exits and returns its exit code.
	// Safe to call from multiple goroutines; -1 means the code is unknown.
	Wait() int
	Signal(sig syscall.Signal) error
}

// Spawner is the only OS-facing boundary of this package. Tests substitute
// their own implementation.
//
// Spawn points both stdout and stderr at output. The child writes through its
// own copy of the descriptor, so its output keeps landing in the file even
// after the spawning process is gone.
type Spawner interface {
	Spawn(ctx context.Context, command []string, dir string, env map[string]string, output *os.File) (Handle, error)
}

// ExecSpawner spawns real OS processes via os/exec. Children get their own
// process group so a kill can take the whole tree down.
type ExecSpawner struct{}

func (ExecSpawner) Spawn(ctx context.Context, command []string, dir string, env map[string]string, output *os.File) (Handle, error) {
	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = dir
	if len(env) > 0 {
		merged := os.Environ()
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			merged = append(merged, k+"="+env[k])
		}
		cmd.Env = merged
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// stdout and stderr share the log descriptor, interleaved in arrival
	// order; O_APPEND keeps concurrent appends whole.
	cmd.Stdout = output
	cmd.Stderr = output

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &execHandle{cmd: cmd}, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	once sync.Once
	code int
}

func (h *execHandle) PID() int { return h.cmd.Process.Pid }

func (h *execHandle) Wait() int {
	h.once.Do(func() {
		err := h.cmd.Wait()
		switch e := err.(type) {
		case nil:
			h.code = 0
		case *exec.ExitError:
			h.code = e.ExitCode()
		default:
			h.code = -1
		}
	})
	return h.code
}

func (h *execHandle) Signal(sig syscall.Signal) error {
	// Negative pid targets the process group; fall back to the single pid if
	// the group is already gone.
	if err := unix.Kill(-h.cmd.Process.Pid, sig); err == nil {
		return nil
	}
	return unix.Kill(h.cmd.Process.Pid, sig)
}

// Alive probes whether a pid still exists. Signal 0 performs permission and
// existence checks without delivering anything; EPERM still means alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

// SignalPID delivers a signal to a process group, falling back to the pid.
func SignalPID(pid int, sig syscall.Signal) error {
	if err := unix.Kill(-pid, sig); err == nil {
		return nil
	}
	return unix.Kill(pid, sig)
}
