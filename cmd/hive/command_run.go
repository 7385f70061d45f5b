package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/hive/internal/proc"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		timeoutSec int
		cwd        string
		sync       bool
		env        []string
	)

	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command, backgrounding it if it outlives the timeout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := proc.ExecOptions{Dir: cwd, ForceSync: sync}
			if timeoutSec > 0 {
				opts.Timeout = time.Duration(timeoutSec) * time.Second
			}
			if len(env) > 0 {
				opts.Env = make(map[string]string, len(env))
				for _, kv := range env {
					k, v, ok := strings.Cut(kv, "=")
					if !ok {
						return fmt.Errorf("invalid --env %q, want KEY=VALUE", kv)
					}
					opts.Env[k] = v
				}
			}

			res, err := a.exec.Run(cmd.Context(), args, opts)
			if err != nil {
				return err
			}
			printRunResult(res)
			if res.State == proc.StateFailed {
				return fmt.Errorf("command exited with code %d", res.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&timeoutSec, "timeout", "t", 0, "seconds before backgrounding (default from config)")
	cmd.Flags().StringVarP(&cwd, "cwd", "C", "", "working directory")
	cmd.Flags().BoolVar(&sync, "sync", false, "wait for completion regardless of duration")
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "extra environment variables (KEY=VALUE)")

	return cmd
}
