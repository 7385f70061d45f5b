package main

import "github.com/spf13/cobra"

func newPsCmd(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List tracked processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRecordTable(a.ctl.List(filter))
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only show processes whose command contains this substring")
	return cmd
}
