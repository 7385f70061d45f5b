package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage interactive shell sessions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "open [command...]",
		Short: "Open a new shell session (the configured shell when no command is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.sessions.Open(args)
			if err != nil {
				return err
			}
			fmt.Printf("session %s opened (pid %d)\n", s.ID, s.PID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List open sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printSessionTable(a.sessions.List())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <id> <input>",
		Short: "Write a line of input to a session's terminal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sessions.Write(args[0], args[1]+"\n")
		},
	})

	tailCmd := &cobra.Command{
		Use:   "tail <id>",
		Short: "Show a session's recent terminal output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("lines")
			out, err := a.sessions.Tail(args[0], n)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	tailCmd.Flags().IntP("lines", "n", 40, "number of lines to show")
	cmd.AddCommand(tailCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "close <id>",
		Short: "Terminate and remove a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Close(args[0]); err != nil {
				return err
			}
			fmt.Printf("session %s closed\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Kill and purge sessions idle past the configured max age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.sessions.CleanupExpired(a.cfg.SessionMaxIdle())
			fmt.Printf("cleaned %d expired session(s)\n", n)
			return nil
		},
	})

	return cmd
}
