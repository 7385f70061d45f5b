package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/hive/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfig().Save()
			if err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("log_dir: %s\n", a.cfg.LogDir)
			fmt.Printf("defaults.timeout_seconds: %d\n", a.cfg.Defaults.TimeoutSeconds)
			fmt.Printf("defaults.max_output_bytes: %d\n", a.cfg.Defaults.MaxOutputBytes)
			fmt.Printf("defaults.kill_grace_seconds: %d\n", a.cfg.Defaults.KillGraceSeconds)
			fmt.Printf("swarm.max_concurrency: %d\n", a.cfg.Swarm.MaxConcurrency)
			fmt.Printf("sessions.shell: %s\n", a.cfg.Sessions.Shell)
			fmt.Printf("sessions.max_idle_minutes: %d\n", a.cfg.Sessions.MaxIdleMinutes)
			return nil
		},
	})

	return cmd
}
