package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkmark/internal/export"
)

type exportOptions struct {
	inputOptions
	uri      string
	user     string
	password string
	clean    bool
}

// NewExportCommand returns the export command.
func NewExportCommand() *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the graph and its mark set to Neo4j.",
		Long: `Write the graph and its mark set to Neo4j. Nodes carry a kept flag and
KEEPS relationships record why each node was marked.

Connection settings come from the neo4j section of the config file and
can be overridden by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.uri, "neo4j-uri", "", "Neo4j bolt URI")
	cmd.Flags().StringVar(&opts.user, "neo4j-user", "", "Neo4j username")
	cmd.Flags().StringVar(&opts.password, "neo4j-pass", "", "Neo4j password")
	cmd.Flags().BoolVar(&opts.clean, "clean", false, "Clean existing linkmark data before export")
	return cmd
}

func runExport(cmd *cobra.Command, opts *exportOptions) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	conn := s.cfg.Neo4j
	if opts.uri != "" {
		conn.URI = opts.uri
	}
	if opts.user != "" {
		conn.User = opts.user
	}
	if opts.password != "" {
		conn.Password = opts.password
	}
	if cmd.Flags().Changed("clean") {
		conn.Clean = opts.clean
	}
	if conn.Password == "" {
		return fmt.Errorf("a Neo4j password is required (--neo4j-pass or neo4j.password)")
	}

	marks, _, err := s.mark()
	if err != nil {
		return err
	}

	loader, err := export.NewNeo4jLoader(cmd.Context(), conn.URI, conn.User, conn.Password, s.log)
	if err != nil {
		return err
	}
	defer loader.Close()

	if err := loader.Export(s.graph, marks, conn.Clean); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d nodes (%d kept) to %s\n", s.graph.Len(), marks.Len(), conn.URI)
	return nil
}
