package main

import (
	"github.com/spf13/cobra"

	"covidstat/internal/presenter"
)

func newPreviewCmd() *cobra.Command {
	var flagRows int

	cmd := &cobra.Command{
		Use:   "preview <csv>",
		Short: "Print the last rows of a previously exported CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return presenter.Preview(cmd.OutOrStdout(), args[0], flagRows)
		},
	}
	cmd.Flags().IntVar(&flagRows, "rows", 5, "number of rows to show")
	return cmd
}
