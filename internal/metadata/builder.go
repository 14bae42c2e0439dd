package metadata

import (
	"errors"
	"fmt"

	graphlib "github.com/dominikbraun/graph"
)

// Builder assembles a Graph. It stands in for the archive reader: the
// reader (or a test) adds fully populated types and calls Build once.
type Builder struct {
	assemblies []*Assembly
	byName     map[string]*Assembly
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]*Assembly)}
}

// AddAssembly registers an assembly, which may stay empty. Adding the
// same name twice returns the existing assembly.
func (b *Builder) AddAssembly(name string) *Assembly {
	if a, ok := b.byName[name]; ok {
		return a
	}
	a := &Assembly{Name: name, index: make(map[string]*Type)}
	b.assemblies = append(b.assemblies, a)
	b.byName[name] = a
	return a
}

// AddType adds t to its assembly, creating the assembly on first use.
func (b *Builder) AddType(t *Type) error {
	if t.Assembly == "" {
		return fmt.Errorf("%w: %s", ErrMissingAssembly, typeFullName(t))
	}
	a := b.AddAssembly(t.Assembly)
	t.fullName = typeFullName(t)
	if _, ok := a.index[t.fullName]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, t.ID())
	}
	a.index[t.fullName] = t
	a.types = append(a.types, t)
	return nil
}

// Build links members to their declaring types, indexes every node and
// checks that base-type and nesting chains are acyclic.
func (b *Builder) Build() (*Graph, error) {
	g := &Graph{
		assemblies: b.assemblies,
		byName:     b.byName,
		nodes:      make(map[ID]Node),
	}

	for _, a := range b.assemblies {
		for _, t := range a.types {
			if err := g.index(t); err != nil {
				return nil, err
			}
		}
	}

	if err := checkChains(g, "base type", func(t *Type) TypeRef { return t.BaseType }); err != nil {
		return nil, err
	}
	if err := checkChains(g, "declaring type", func(t *Type) TypeRef { return t.DeclaringType }); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Graph) index(t *Type) error {
	if err := g.add(t); err != nil {
		return err
	}

	t.impls = t.impls[:0]
	for _, iface := range t.Interfaces {
		impl := &InterfaceImpl{Type: t, Interface: iface}
		if err := g.add(impl); err != nil {
			return err
		}
		t.impls = append(t.impls, impl)
	}

	refs, err := g.addAttributes(t.ID(), t.Attributes)
	if err != nil {
		return err
	}
	t.attributes = refs

	for _, f := range t.Fields {
		f.DeclaringType = t
		if err := g.add(f); err != nil {
			return err
		}
		if f.attributes, err = g.addAttributes(f.ID(), f.Attributes); err != nil {
			return err
		}
	}

	for _, m := range t.Methods {
		m.DeclaringType = t
		if err := g.add(m); err != nil {
			return err
		}
		if m.attributes, err = g.addAttributes(m.ID(), m.Attributes); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) addAttributes(owner ID, attrs []CustomAttribute) ([]*AttributeRef, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	refs := make([]*AttributeRef, 0, len(attrs))
	for i, attr := range attrs {
		ref := &AttributeRef{Owner: owner, Index: i, Attribute: attr}
		if err := g.add(ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (g *Graph) add(n Node) error {
	id := n.ID()
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.nodes[id] = n
	g.order = append(g.order, n)
	return nil
}

// checkChains rejects a cycle along the parent relation returned by next.
// Parents outside the link set end the chain.
func checkChains(g *Graph, relation string, next func(*Type) TypeRef) error {
	chains := graphlib.New(graphlib.StringHash, graphlib.Directed(), graphlib.PreventCycles())

	for _, a := range g.assemblies {
		for _, t := range a.types {
			if err := chains.AddVertex(t.ID().String()); err != nil {
				return err
			}
		}
	}

	for _, a := range g.assemblies {
		for _, t := range a.types {
			parent := g.Resolve(next(t))
			if parent == nil {
				continue
			}
			err := chains.AddEdge(t.ID().String(), parent.ID().String())
			switch {
			case err == nil, errors.Is(err, graphlib.ErrEdgeAlreadyExists):
			case errors.Is(err, graphlib.ErrEdgeCreatesCycle):
				return fmt.Errorf("%w: %s of %s", ErrInheritanceCycle, relation, t.ID())
			default:
				return err
			}
		}
	}

	return nil
}
