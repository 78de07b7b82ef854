package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated by the release build via -ldflags.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wayscriber version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "wayscriber %s", version)
		if commit != "" {
			fmt.Fprintf(out, " (%s)", commit)
		}
		if date != "" {
			fmt.Fprintf(out, " built %s", date)
		}
		fmt.Fprintln(out)
	},
}
