package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// NewRootCommand returns the linkmark command with all subcommands.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "linkmark",
		Short: "Compute what a linked Android application keeps",
		Long: `linkmark marks everything reachable from a set of roots in the
metadata graph of a link set, applying the Android runtime rules
(peer bindings, runtime-internal types, custom marshalers).

The graph is read from a YAML graph file (--graph) or built from a Go
module (--go).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(NewMarkCommand())
	root.AddCommand(NewWhyCommand())
	root.AddCommand(NewExportCommand())
	return root
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
