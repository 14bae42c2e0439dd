package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkmark/internal/metadata"
	"linkmark/internal/report"
)

// NewWhyCommand returns the why command.
func NewWhyCommand() *cobra.Command {
	opts := &inputOptions{}

	cmd := &cobra.Command{
		Use:   "why <node-id>",
		Short: "Show the chain of reasons that keeps a node.",
		Long: `Show the shortest chain of mark reasons from a root to a kept node.

Example:
  linkmark why -g app.yaml -r "method:App:App.Program::Main()" "type:App:App.Worker"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0])
		},
	}

	opts.register(cmd)
	return cmd
}

func runWhy(cmd *cobra.Command, opts *inputOptions, target string) error {
	id, err := metadata.ParseID(target)
	if err != nil {
		return err
	}

	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	marks, _, err := s.mark()
	if err != nil {
		return err
	}

	steps, err := report.Why(marks, id)
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	return report.WriteWhy(cmd.OutOrStdout(), steps)
}
