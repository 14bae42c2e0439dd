package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"linkmark/internal/config"
	"linkmark/internal/logger"
	"linkmark/internal/marker"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
	"linkmark/internal/metadata/gosource"
	"linkmark/internal/metadata/yamlgraph"
	"linkmark/internal/platform"
)

var errNoRoots = errors.New("no roots: pass --root or list roots in the config file")

// inputOptions are the flags shared by every command that runs a pass.
type inputOptions struct {
	graphPath  string
	goDir      string
	configPath string
	roots      []string
	verbose    bool
}

func (o *inputOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.graphPath, "graph", "g", "", "YAML graph file")
	cmd.Flags().StringVar(&o.goDir, "go", "", "Go module directory to analyse instead of a graph file")
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Config file (default: built-in settings)")
	cmd.Flags().StringArrayVarP(&o.roots, "root", "r", nil, "Root node ID, kind:assembly:name (repeatable)")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "Log progress to stderr")
}

// session is a loaded graph with its roots and settings.
type session struct {
	cfg   *config.Config
	graph *metadata.Graph
	roots []metadata.ID
	log   logger.Logger
}

func (o *inputOptions) open(cmd *cobra.Command) (*session, error) {
	if (o.graphPath == "") == (o.goDir == "") {
		return nil, fmt.Errorf("exactly one of --graph and --go is required")
	}

	s := &session{log: logger.NewNoopLogger()}
	if o.verbose {
		s.log = logger.New(cmd.ErrOrStderr())
	}

	cfg, err := config.LoadWithFallback(o.configPath)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg

	var moduleRoots []metadata.ID
	if o.graphPath != "" {
		s.graph, err = yamlgraph.Load(o.graphPath)
		if err != nil {
			return nil, err
		}
	} else {
		res, err := gosource.Load(cmd.Context(), o.goDir, s.log)
		if err != nil {
			return nil, err
		}
		s.graph = res.Graph
		moduleRoots = res.Roots
	}

	for _, r := range o.roots {
		id, err := metadata.ParseID(r)
		if err != nil {
			return nil, fmt.Errorf("invalid --root: %w", err)
		}
		s.roots = append(s.roots, id)
	}
	if len(s.roots) == 0 {
		s.roots = cfg.Roots
	}
	if len(s.roots) == 0 {
		s.roots = moduleRoots
	}
	if len(s.roots) == 0 {
		return nil, errNoRoots
	}
	return s, nil
}

// mark runs one pass with the platform rules configured by the session.
func (s *session) mark() (*markset.Frozen, marker.Stats, error) {
	table, err := s.cfg.Table()
	if err != nil {
		return nil, marker.Stats{}, err
	}
	registry, err := platform.NewRegistry(s.graph,
		platform.WithDecoration(s.cfg.Decoration.Attribute, s.cfg.Decoration.Argument),
		platform.WithTable(table),
		platform.WithLinkSymbols(s.cfg.LinkSymbols),
		platform.WithLogger(s.log),
	)
	if err != nil {
		return nil, marker.Stats{}, err
	}

	marks, stats := marker.Run(s.graph, s.roots,
		marker.WithOrder(s.cfg.Order()),
		marker.WithRegistry(registry),
		marker.WithUniversalContracts(s.cfg.Contracts()...),
		marker.WithLogger(s.log),
	)
	return marks, stats, nil
}
