package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/hive/internal/health"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the local environment can run and track processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := health.Check(cmd.Context(), a.cfg.LogDir, a.cfg.Sessions.Shell)

			failed := false
			for _, s := range statuses {
				if s.OK {
					fmt.Printf("%s %s (%s, %s)\n", okStyle.Render("ok"), s.Name, s.Detail, s.Latency.Round(time.Millisecond))
					continue
				}
				failed = true
				fmt.Printf("%s %s: %s\n", failStyle.Render("fail"), s.Name, s.Error)
			}
			if failed {
				return fmt.Errorf("environment checks failed")
			}
			return nil
		},
	}
}
