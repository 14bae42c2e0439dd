// Package platform holds the reachability rules of the Android runtime:
// peer-method binding through registration attributes, types whose fields
// the runtime reads directly, named methods the runtime calls by name and
// custom marshalers.
package platform

import (
	"linkmark/internal/logger"
	"linkmark/internal/marker"
	"linkmark/internal/metadata"
)

// Defaults for the registration attribute that carries peer-binding
// decorations: [Register ("javaName", "signature", "Connector")].
const (
	DefaultDecorationAttribute = "Android.Runtime.RegisterAttribute"
	DefaultDecorationArgument  = 2
)

type options struct {
	attribute   string
	argument    int
	table       *Table
	linkSymbols bool
	log         logger.Logger
}

// Option configures the rule set.
type Option func(*options)

// WithDecoration names the attribute and the positional argument holding
// the peer-binding decoration.
func WithDecoration(attribute string, argument int) Option {
	return func(o *options) {
		o.attribute = attribute
		o.argument = argument
	}
}

// WithTable replaces the built-in runtime table.
func WithTable(t *Table) Option {
	return func(o *options) { o.table = t }
}

// WithLinkSymbols enables the directives only needed by debug builds.
func WithLinkSymbols(enabled bool) Option {
	return func(o *options) { o.linkSymbols = enabled }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns the platform rules bound to g, in firing order.
func New(g *metadata.Graph, opts ...Option) []marker.Rule {
	o := options{
		attribute: DefaultDecorationAttribute,
		argument:  DefaultDecorationArgument,
		log:       logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.table == nil {
		o.table = DefaultTable()
	}

	return []marker.Rule{
		&PeerBindingRule{graph: g, attribute: o.attribute, argument: o.argument, log: o.log},
		&RuntimeAccessRule{graph: g, table: o.table, linkSymbols: o.linkSymbols},
		&CustomMarshalerRule{},
	}
}

// NewRegistry is New wrapped in a marker registry.
func NewRegistry(g *metadata.Graph, opts ...Option) (*marker.Registry, error) {
	return marker.NewRegistry(New(g, opts...)...)
}
