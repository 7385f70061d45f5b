package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jeanpaul/hive/internal/config"
	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/session"
)

// app wires the engine together once per invocation; every subcommand works
// against the same registry, executor, and control.
type app struct {
	cfg      *config.Config
	registry *proc.Registry
	exec     *proc.Executor
	ctl      *proc.Control
	sessions *session.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Each invocation is short-lived, so records persist next to the logs;
	// a process backgrounded by one `hive run` is visible to the next ps,
	// logs, or kill.
	store := proc.NewStore(cfg.LogDir)
	reg := proc.NewRegistry()
	reg.SetStore(store)
	if recs, err := store.LoadAll(); err == nil {
		reg.Restore(recs)
	}

	exec := proc.NewExecutor(reg, proc.ExecSpawner{}, cfg.LogDir, cfg.Timeout(), cfg.Defaults.MaxOutputBytes)
	exec.SetGuard(&proc.Guard{
		Allowed:    cfg.Tools.AllowedCommands,
		Disallowed: cfg.Tools.DisallowedCommands,
	})

	return &app{
		cfg:      cfg,
		registry: reg,
		exec:     exec,
		ctl:      proc.NewControl(reg, cfg.KillGrace()),
		sessions: session.NewManager(cfg.LogDir, cfg.Sessions.Shell),
	}, nil
}

func main() {
	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	if os.Getenv("HIVE_DEBUG") != "" {
		proc.SetLogger(log.New(os.Stderr, "hive: ", log.LstdFlags))
	}
	if err := newRootCmd(a).Execute(); err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
