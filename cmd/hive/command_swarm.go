package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/hive/internal/proc"
	"github.com/jeanpaul/hive/internal/swarm"
)

func newSwarmCmd(a *app) *cobra.Command {
	var (
		maxConcurrency int
		commonContext  string
	)

	cmd := &cobra.Command{
		Use:   "swarm <tasks.json>",
		Short: "Run a task list concurrently and report the tally",
		Long: `Run every task in the file under a bounded concurrency limit and print an
aggregated report. The file is a JSON array of {"target", "instructions"}
objects; each task's instructions run as a shell command in its target
directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := swarm.LoadTasks(args[0])
			if err != nil {
				return err
			}

			maxConc := maxConcurrency
			if maxConc <= 0 {
				maxConc = a.cfg.Swarm.MaxConcurrency
			}

			// Ctrl-C cancels the run: queued tasks stay unadmitted, running
			// ones are marked failed with a cancellation reason.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sched := swarm.NewScheduler(maxConc, commonContext)
			report, err := sched.Run(ctx, tasks, func(ctx context.Context, task swarm.Task) (string, error) {
				res, err := a.exec.Run(ctx, []string{"/bin/sh", "-c", task.Instructions}, proc.ExecOptions{
					Dir:       task.Target,
					ForceSync: true,
				})
				if err != nil {
					return "", err
				}
				if res.State == proc.StateFailed {
					return res.Output, fmt.Errorf("exited with code %d", res.ExitCode)
				}
				return res.Output, nil
			})
			if err != nil {
				return err
			}

			printSwarmReport(report)
			return nil
		},
	}

	cmd.Flags().IntVarP(&maxConcurrency, "max-concurrency", "c", 0, "concurrency ceiling (default from config)")
	cmd.Flags().StringVar(&commonContext, "context", "", "appended to every task's instructions")
	return cmd
}
