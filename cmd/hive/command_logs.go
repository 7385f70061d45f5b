package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLogsCmd(a *app) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "logs <id>",
		Short: "Show a tracked process's output log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := a.ctl.Logs(args[0], tail)
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "only show the last N lines")
	return cmd
}
