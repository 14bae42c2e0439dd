package platform

import (
	"strings"

	"linkmark/internal/logger"
	"linkmark/internal/marker"
	"linkmark/internal/metadata"
)

// Decoration binds a method to a peer member the runtime looks up by
// name: "Member" or "Member:Namespace.Type".
type Decoration struct {
	Member   string
	TypeName string
}

// ParseDecoration splits s on its first colon. Everything after it is the
// type name, verbatim. It reports false for an empty member or an empty
// type name after the colon.
func ParseDecoration(s string) (Decoration, bool) {
	member, typeName, qualified := strings.Cut(s, ":")
	if member == "" || (qualified && typeName == "") {
		return Decoration{}, false
	}
	return Decoration{Member: member, TypeName: typeName}, true
}

// PeerBindingRule keeps the connector methods named by registration
// attributes. The named method may be declared on any base type.
type PeerBindingRule struct {
	graph     *metadata.Graph
	attribute string
	argument  int
	log       logger.Logger
}

func (r *PeerBindingRule) Name() string { return "peer-binding" }

func (r *PeerBindingRule) OnMethodMarked(m *metadata.Method) []marker.Action {
	var actions []marker.Action
	for _, attr := range m.Attributes {
		if attr.Type.FullName != r.attribute || len(attr.Args) <= r.argument {
			continue
		}
		raw := attr.Args[r.argument]
		if raw == "" {
			continue
		}
		d, ok := ParseDecoration(raw)
		if !ok {
			r.log.Logf("Ignoring malformed decoration %q on %s", raw, m.ID())
			continue
		}
		for _, peer := range r.Bind(m, d) {
			actions = append(actions, marker.Keep(peer.ID()))
		}
	}
	return actions
}

// Bind returns the methods d names for m: every method called d.Member on
// the first type, walking base types up from the search root, that
// declares one. The search root is d's type when qualified, else m's
// declaring type.
func (r *PeerBindingRule) Bind(m *metadata.Method, d Decoration) []*metadata.Method {
	t := m.DeclaringType
	if d.TypeName != "" {
		t = r.lookup(d.TypeName, m.DeclaringType.Assembly)
	}

	visited := make(map[*metadata.Type]bool)
	for t != nil && !visited[t] {
		visited[t] = true
		if found := t.MethodsNamed(d.Member); len(found) > 0 {
			return found
		}
		t = r.graph.Resolve(t.BaseType)
	}
	return nil
}

// lookup resolves typeName verbatim in the decorated method's own assembly
// first, then in any linked assembly. Only when that fails is
// "Namespace.Type, Assembly" read as a name pinned to an assembly.
func (r *PeerBindingRule) lookup(typeName, home string) *metadata.Type {
	if t := r.graph.ResolveType(home, typeName); t != nil {
		return t
	}
	if t := r.graph.FindType(typeName); t != nil {
		return t
	}
	if i := strings.LastIndex(typeName, ","); i >= 0 {
		return r.graph.ResolveType(strings.TrimSpace(typeName[i+1:]), strings.TrimSpace(typeName[:i]))
	}
	return nil
}
