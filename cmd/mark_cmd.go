package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkmark/internal/report"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type markOptions struct {
	inputOptions
	format string
	list   bool
}

// NewMarkCommand returns the mark command.
func NewMarkCommand() *cobra.Command {
	opts := &markOptions{format: formatText}

	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark everything reachable from the roots and summarize the result.",
		Long: `Mark everything reachable from the roots and summarize the result.

Examples:
  linkmark mark -g app.yaml -r "method:App:App.Program::Main()"
  linkmark mark -g app.yaml -c linkmark.yaml --list
  linkmark mark --go ./service -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "Output format (text, json)")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "List every kept node")
	return cmd
}

func runMark(cmd *cobra.Command, opts *markOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return fmt.Errorf("unknown format: %s (valid options: %s, %s)", opts.format, formatText, formatJSON)
	}

	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	marks, stats, err := s.mark()
	if err != nil {
		return err
	}

	summary := report.NewSummary(s.graph, marks, stats, opts.list)
	if opts.format == formatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), summary)
	}
	return report.WriteText(cmd.OutOrStdout(), summary)
}
