package tools

import (
	"context"
	"fmt"

	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/schema"
)

// Registry holds the operator tools and gates their execution: arguments are
// validated against each tool's schema before dispatch, and tools that mutate
// process state can require confirmation unless auto-approved.
type Registry struct {
	tools       map[string]Tool
	validator   *schema.Validator
	autoApprove map[string]bool
	allowAll    bool
}

func NewRegistry(autoApprove []string, allowAll bool) *Registry {
	aa := make(map[string]bool)
	for _, name := range autoApprove {
		aa[name] = true
	}
	return &Registry{
		tools:       make(map[string]Tool),
		validator:   schema.NewValidator(),
		autoApprove: aa,
		allowAll:    allowAll,
	}
}

func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

func (r *Registry) Execute(ctx context.Context, name, args string) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Result{Error: fmt.Sprintf("unknown tool: %s", name)}, nil
	}
	if args == "" {
		args = "{}"
	}
	if err := r.validator.Validate(t.Parameters(), args); err != nil {
		return Result{Error: err.Error()}, nil
	}
	return t.Execute(ctx, args)
}

func (r *Registry) NeedsConfirmation(name string) bool {
	if r.allowAll || r.autoApprove[name] {
		return false
	}
	t, ok := r.tools[name]
	if !ok {
		return true
	}
	return t.NeedsConfirmation()
}

// RegisterDefaults registers all built-in operator tools.
func RegisterDefaults(r *Registry, exec *proc.Executor, ctl *proc.Control, defaultConcurrency int) {
	r.Register(&RunTool{Exec: exec})
	r.Register(&ProcessesTool{Ctl: ctl})
	r.Register(&KillTool{Ctl: ctl})
	r.Register(&LogsTool{Ctl: ctl})
	r.Register(&SwarmTool{Exec: exec, DefaultConcurrency: defaultConcurrency})
}
