package proc

import (
	"fmt"
	"syscall"
	"time"
)

// Control is the operator-facing surface over the registry: listing with
// liveness reconciliation, signal delivery with escalation, and log reads.
type Control struct {
	reg   *Registry
	grace time.Duration

	// injected for tests
	alive  func(pid int) bool
	signal func(pid int, sig syscall.Signal) error
}

func NewControl(reg *Registry, killGrace time.Duration) *Control {
	if killGrace <= 0 {
		killGrace = 3 * time.Second
	}
	return &Control{
		reg:    reg,
		grace:  killGrace,
		alive:  Alive,
		signal: SignalPID,
	}
}

// List returns registry snapshots after reconciling liveness: any running or
// backgrounded record whose OS process has exited since last observed is
// moved to completed/failed, using the exit code recorded in the log's
// completion marker where available.
func (c *Control) List(filter string) []Record {
	for _, rec := range c.reg.List("") {
		c.reconcile(rec)
	}
	return c.reg.List(filter)
}

func (c *Control) reconcile(rec Record) {
	if rec.State.Terminal() || c.alive(rec.PID) {
		return
	}
	// The process died out from under us. Prefer the exit code from the log's
	// completion marker; -1 when the death was never recorded.
	code := -1
	if content, err := ReadLog(rec.LogPath, 5); err == nil {
		if recorded, ok := CompletionExitCode(content); ok {
			code = recorded
		}
	}
	c.reg.MarkExited(rec.ID, code)
	logger.Printf("reconciled %s: externally exited, code %d", rec.ID, code)
}

// KillOutcome distinguishes "was already dead" from "newly terminated".
type KillOutcome struct {
	AlreadyDead bool `json:"already_dead"`
	Escalated   bool `json:"escalated"`
}

// Kill delivers sig (default TERM) to the process behind id. If the process
// survives the grace period after a TERM, the signal escalates to KILL.
// Killing an already-exited process is idempotent success.
func (c *Control) Kill(id string, sig syscall.Signal) (KillOutcome, error) {
	rec, ok := c.reg.Get(id)
	if !ok {
		return KillOutcome{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if sig == 0 {
		sig = syscall.SIGTERM
	}

	if rec.State.Terminal() || !c.alive(rec.PID) {
		c.reconcile(rec)
		return KillOutcome{AlreadyDead: true}, nil
	}

	if err := c.signal(rec.PID, sig); err != nil {
		return KillOutcome{}, fmt.Errorf("signal pid %d: %w", rec.PID, err)
	}

	escalated := false
	if sig == syscall.SIGTERM {
		if !c.waitDead(rec.PID, c.grace) {
			if err := c.signal(rec.PID, syscall.SIGKILL); err == nil {
				escalated = true
				c.waitDead(rec.PID, c.grace)
			}
		}
	}

	c.reg.MarkKilled(id)
	logger.Printf("killed %s pid=%d escalated=%v", id, rec.PID, escalated)
	return KillOutcome{Escalated: escalated}, nil
}

func (c *Control) waitDead(pid int, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if !c.alive(pid) {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return !c.alive(pid)
}

// Logs returns the process's current log content, whole or last tail lines.
// Works identically for running, backgrounded, and finished processes.
func (c *Control) Logs(id string, tail int) (string, error) {
	rec, ok := c.reg.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return ReadLog(rec.LogPath, tail)
}

// Remove drops a finished record from the active table once its completion
// has been observed and reported. Running records are refused.
func (c *Control) Remove(id string) error {
	rec, ok := c.reg.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.reconcile(rec)
	rec, _ = c.reg.Get(id)
	if !rec.State.Terminal() {
		return fmt.Errorf("%w: process %s is still %s", ErrInvalidInput, id, rec.State)
	}
	c.reg.Remove(id)
	return nil
}
