package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
)

func newKillCmd(a *app) *cobra.Command {
	var signal string

	cmd := &cobra.Command{
		Use:   "kill <id>",
		Short: "Terminate a tracked process (TERM, escalating to KILL)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := syscall.SIGTERM
			switch signal {
			case "", "TERM":
			case "KILL":
				sig = syscall.SIGKILL
			case "INT":
				sig = syscall.SIGINT
			case "HUP":
				sig = syscall.SIGHUP
			default:
				return fmt.Errorf("unknown signal %q", signal)
			}

			outcome, err := a.ctl.Kill(args[0], sig)
			if err != nil {
				return err
			}
			switch {
			case outcome.AlreadyDead:
				fmt.Printf("process %s was already terminated\n", args[0])
			case outcome.Escalated:
				fmt.Printf("process %s did not respond to TERM; killed\n", args[0])
			default:
				fmt.Printf("process %s terminated\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&signal, "signal", "s", "TERM", "signal to send (TERM, KILL, INT, HUP)")
	return cmd
}
