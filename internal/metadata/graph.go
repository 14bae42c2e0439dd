package metadata

// Graph is the read-only metadata of the closed set of assemblies being
// linked. It is built once by a Builder and never mutated afterwards.
type Graph struct {
	assemblies []*Assembly
	byName     map[string]*Assembly
	nodes      map[ID]Node
	order      []Node
}

// Assemblies returns the linked assemblies in link order.
func (g *Graph) Assemblies() []*Assembly {
	return g.assemblies
}

// GetAssembly returns the linked assembly called name, or nil when the
// assembly is not part of the link.
func (g *Graph) GetAssembly(name string) *Assembly {
	return g.byName[name]
}

// ResolveType looks up fullName in assembly asm. It returns nil when
// either is unknown.
func (g *Graph) ResolveType(asm, fullName string) *Type {
	return g.GetAssembly(asm).Type(fullName)
}

// Resolve resolves a type reference.
func (g *Graph) Resolve(ref TypeRef) *Type {
	if ref.IsZero() {
		return nil
	}
	return g.ResolveType(ref.Assembly, ref.FullName)
}

// FindType looks fullName up in every assembly, in link order.
func (g *Graph) FindType(fullName string) *Type {
	for _, a := range g.assemblies {
		if t := a.Type(fullName); t != nil {
			return t
		}
	}
	return nil
}

// ResolveMethod resolves ref against the exact declaring type.
func (g *Graph) ResolveMethod(ref MethodRef) *Method {
	t := g.Resolve(ref.Type)
	if t == nil {
		return nil
	}
	return t.Method(ref.Signature)
}

// ResolveField resolves ref against the exact declaring type.
func (g *Graph) ResolveField(ref FieldRef) *Field {
	t := g.Resolve(ref.Type)
	if t == nil {
		return nil
	}
	return t.Field(ref.Name)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id ID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node: per assembly, per type, the type followed by
// its interface implementations, attributes, fields and methods.
func (g *Graph) Nodes() []Node {
	return g.order
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}
