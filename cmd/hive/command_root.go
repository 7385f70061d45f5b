package main

import "github.com/spf13/cobra"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hive",
		Short:         "Process execution and swarm dispatch engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newPsCmd(a))
	root.AddCommand(newKillCmd(a))
	root.AddCommand(newLogsCmd(a))
	root.AddCommand(newSwarmCmd(a))
	root.AddCommand(newSessionsCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newDoctorCmd(a))

	return root
}
