package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the version information",
		Args:  cobra.NoArgs,
		// Printing a version needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("remod version\t", version)
			if info, ok := debug.ReadBuildInfo(); ok {
				cmd.Println("go version\t", info.GoVersion)
			}
		},
	}
}
