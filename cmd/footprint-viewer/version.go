package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildVersion(version, commit, date))
		},
	}
}

func buildVersion(version, commit, date string) string {
	return fmt.Sprintf("footprint-viewer version %s (%s) built %s", version, commit, date)
}
