package main

import "github.com/spf13/cobra"

// version is set via -ldflags at build time.
var version = "(devel)"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "learnpalctl",
		Short:         "Maintenance tools for the learning material service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newNormalizeCmd(), newPromptCmd(), newMigrateCmd())
	return root
}
