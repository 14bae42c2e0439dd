// Package marker computes the reachable closure of a metadata graph from a
// set of roots. Platform rules plug into the pass through the hooks
// declared in rules.go.
package marker

import (
	"linkmark/internal/logger"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// Edge labels recorded as mark reasons.
const (
	LabelRoot            = "root"
	LabelBase            = "base"
	LabelDeclaring       = "declaring"
	LabelInterface       = "interface"
	LabelGeneric         = "generic"
	LabelAttribute       = "attribute"
	LabelConstructor     = "ctor"
	LabelTypeInitializer = "cctor"
	LabelSignature       = "signature"
	LabelFieldType       = "field-type"
	LabelBody            = "body"
	LabelContract        = "contract"
	LabelForcedFields    = "fields"
	LabelHookPrefix      = "hook:"
)

// Stats summarizes one pass.
type Stats struct {
	Roots         int `json:"roots"`
	DroppedRoots  int `json:"dropped_roots"`
	DroppedEdges  int `json:"dropped_edges"`
	TypesResolved int `json:"types_resolved"`
	MethodHooks   int `json:"method_hooks"`
	TypeHooks     int `json:"type_hooks"`
	ResolveHooks  int `json:"resolve_hooks"`
	ContractTypes int `json:"contract_types"`
}

// Marker runs marking passes over one graph.
type Marker struct {
	graph     *metadata.Graph
	registry  *Registry
	order     Order
	contracts []metadata.TypeRef
	log       logger.Logger
}

// Option configures a Marker.
type Option func(*Marker)

// WithOrder selects the worklist order. FIFO is the default.
func WithOrder(o Order) Option {
	return func(m *Marker) { m.order = o }
}

// WithRegistry installs the platform rules.
func WithRegistry(r *Registry) Option {
	return func(m *Marker) { m.registry = r }
}

// WithUniversalContracts names the contract interfaces whose implementing
// interfaces are kept whole. An empty Assembly matches any assembly.
func WithUniversalContracts(refs ...metadata.TypeRef) Option {
	return func(m *Marker) { m.contracts = append(m.contracts, refs...) }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l logger.Logger) Option {
	return func(m *Marker) { m.log = l }
}

// New returns a Marker over g.
func New(g *metadata.Graph, opts ...Option) *Marker {
	m := &Marker{
		graph:    g,
		registry: &Registry{},
		log:      logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run is a shorthand for New(g, opts...).Run(roots).
func Run(g *metadata.Graph, roots []metadata.ID, opts ...Option) (*markset.Frozen, Stats) {
	return New(g, opts...).Run(roots)
}

// Run marks everything reachable from roots and returns the frozen result.
// Roots and references that do not resolve are dropped; Run never fails.
// Each call is an independent pass with its own MarkSet.
func (m *Marker) Run(roots []metadata.ID) (*markset.Frozen, Stats) {
	p := &pass{
		Marker:   m,
		marks:    markset.New(),
		work:     &worklist{order: m.order},
		resolved: make(map[*metadata.Type]bool),
	}

	m.log.Logf("Marking from %d roots (%s, %d rules)...", len(roots), m.order, len(m.registry.rules))
	p.run(roots)
	m.log.Logf("Marked %d of %d nodes, resolved %d types, dropped %d roots and %d edges",
		p.marks.Len(), m.graph.Len(), p.stats.TypesResolved, p.stats.DroppedRoots, p.stats.DroppedEdges)

	return p.marks.Freeze(), p.stats
}

type pass struct {
	*Marker
	marks    *markset.MarkSet
	work     *worklist
	resolved map[*metadata.Type]bool
	stats    Stats

	// current is the node being processed. Types are only resolved while
	// processing a marked node, so it is never zero inside touch.
	current metadata.ID
}

func (p *pass) run(roots []metadata.ID) {
	root := markset.Reason{Label: LabelRoot}
	for _, id := range roots {
		p.stats.Roots++
		n, ok := p.graph.Node(id)
		if !ok {
			p.stats.DroppedRoots++
			p.log.Logf("Dropping unresolvable root %s", id)
			continue
		}
		p.pushNode(n, root)
	}

	for !p.work.empty() {
		it := p.work.pop()
		if !p.marks.Mark(it.node.ID(), it.reason) {
			continue
		}
		p.current = it.node.ID()

		switch n := it.node.(type) {
		case *metadata.Type:
			p.markType(n)
		case *metadata.Method:
			p.markMethod(n)
		case *metadata.Field:
			p.markField(n)
		case *metadata.InterfaceImpl:
			p.markInterfaceImpl(n)
		case *metadata.AttributeRef:
			p.markAttribute(n)
		}
	}
}

func (p *pass) markType(t *metadata.Type) {
	from := t.ID()
	p.touch(t)

	p.pushRef(t.BaseType, from, LabelBase)
	p.pushRef(t.DeclaringType, from, LabelDeclaring)
	for _, impl := range t.InterfaceImpls() {
		p.pushNode(impl, markset.Reason{From: from, Label: LabelInterface})
	}
	for _, arg := range t.GenericArguments {
		p.pushRef(arg, from, LabelGeneric)
	}
	p.pushAttributes(t.AttributeRefs(), from)
	if cctor := t.TypeInitializer(); cctor != nil {
		p.pushNode(cctor, markset.Reason{From: from, Label: LabelTypeInitializer})
	}
	p.pushForcedFields(t)

	for _, rule := range p.registry.typeMarked {
		p.stats.TypeHooks++
		p.apply(rule.OnTypeMarked(t), from, rule.Name())
	}

	if t.IsInterface && p.implementsContract(t) {
		p.stats.ContractTypes++
		for _, m := range t.Methods {
			p.pushNode(m, markset.Reason{From: from, Label: LabelContract})
		}
	}
}

func (p *pass) markMethod(m *metadata.Method) {
	from := m.ID()
	p.touch(m.DeclaringType)
	p.pushNode(m.DeclaringType, markset.Reason{From: from, Label: LabelDeclaring})

	p.pushRef(m.ReturnType, from, LabelSignature)
	for _, param := range m.Parameters {
		p.pushRef(param, from, LabelSignature)
	}
	for _, arg := range m.GenericArguments {
		p.pushRef(arg, from, LabelGeneric)
	}
	p.pushAttributes(m.AttributeRefs(), from)

	body := m.References()
	for _, call := range body.Calls {
		t := p.resolve(call.Type, from)
		if t == nil {
			continue
		}
		callee := t.Method(call.Signature)
		if callee == nil {
			p.dropEdge(from, call.Type.String()+"::"+call.Signature)
			continue
		}
		p.pushNode(callee, markset.Reason{From: from, Label: LabelBody})
	}
	for _, ref := range body.Fields {
		t := p.resolve(ref.Type, from)
		if t == nil {
			continue
		}
		f := t.Field(ref.Name)
		if f == nil {
			p.dropEdge(from, ref.Type.String()+"::"+ref.Name)
			continue
		}
		p.pushNode(f, markset.Reason{From: from, Label: LabelBody})
	}
	for _, ref := range body.Types {
		p.pushRef(ref, from, LabelBody)
	}

	for _, rule := range p.registry.methodMarked {
		p.stats.MethodHooks++
		p.apply(rule.OnMethodMarked(m), from, rule.Name())
	}
}

func (p *pass) markField(f *metadata.Field) {
	from := f.ID()
	p.touch(f.DeclaringType)
	p.pushNode(f.DeclaringType, markset.Reason{From: from, Label: LabelDeclaring})
	p.pushRef(f.FieldType, from, LabelFieldType)
	p.pushAttributes(f.AttributeRefs(), from)
}

func (p *pass) markInterfaceImpl(impl *metadata.InterfaceImpl) {
	from := impl.ID()
	p.pushNode(impl.Type, markset.Reason{From: from, Label: LabelDeclaring})
	p.pushRef(impl.Interface, from, LabelInterface)
}

func (p *pass) markAttribute(a *metadata.AttributeRef) {
	from := a.ID()
	p.push(a.Owner, markset.Reason{From: from, Label: LabelDeclaring})

	t := p.resolve(a.Attribute.Type, from)
	if t == nil {
		return
	}
	p.pushNode(t, markset.Reason{From: from, Label: LabelAttribute})
	for _, ctor := range t.MethodsNamed(".ctor") {
		if len(ctor.Parameters) == len(a.Attribute.Args) {
			p.pushNode(ctor, markset.Reason{From: from, Label: LabelConstructor})
		}
	}
}

// touch fires OnTypeResolved the first time the pass meets t. The actions
// are attributed to the node being processed, not to t, which may never
// be marked or only be marked through those very actions.
func (p *pass) touch(t *metadata.Type) {
	if p.resolved[t] {
		return
	}
	p.resolved[t] = true
	p.stats.TypesResolved++

	for _, rule := range p.registry.typeResolved {
		p.stats.ResolveHooks++
		p.apply(rule.OnTypeResolved(t), p.current, rule.Name())
	}
}

func (p *pass) resolve(ref metadata.TypeRef, from metadata.ID) *metadata.Type {
	if ref.IsZero() {
		return nil
	}
	t := p.graph.Resolve(ref)
	if t == nil {
		p.dropEdge(from, ref.String())
		return nil
	}
	p.touch(t)
	return t
}

func (p *pass) apply(actions []Action, from metadata.ID, rule string) {
	reason := markset.Reason{From: from, Label: LabelHookPrefix + rule}
	for _, a := range actions {
		if a.Fields != markset.FieldsNone {
			p.forceFields(a, reason)
			continue
		}
		p.push(a.Target, reason)
	}
}

func (p *pass) forceFields(a Action, reason markset.Reason) {
	n, ok := p.graph.Node(a.Target)
	t, isType := n.(*metadata.Type)
	if !ok || !isType {
		p.dropEdge(reason.From, a.Target.String())
		return
	}
	if p.marks.ForceFields(a.Target, a.Fields) && p.marks.IsMarked(a.Target) {
		p.pushForcedFields(t)
	}
}

func (p *pass) pushForcedFields(t *metadata.Type) {
	scope := p.marks.ForcedFields(t.ID())
	if scope == markset.FieldsNone {
		return
	}
	reason := markset.Reason{From: t.ID(), Label: LabelForcedFields}
	for _, f := range t.Fields {
		if scope.Covers(f.IsStatic) {
			p.pushNode(f, reason)
		}
	}
}

// implementsContract walks the interfaces t inherits, breadth first, and
// reports whether one of them is a universal contract.
func (p *pass) implementsContract(t *metadata.Type) bool {
	if len(p.contracts) == 0 {
		return false
	}

	visited := map[*metadata.Type]bool{t: true}
	queue := []*metadata.Type{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ref := range cur.Interfaces {
			if p.isContract(ref) {
				return true
			}
			next := p.resolve(ref, cur.ID())
			if next != nil && !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func (p *pass) isContract(ref metadata.TypeRef) bool {
	for _, c := range p.contracts {
		if c.FullName == ref.FullName && (c.Assembly == "" || c.Assembly == ref.Assembly) {
			return true
		}
	}
	return false
}

func (p *pass) pushAttributes(attrs []*metadata.AttributeRef, from metadata.ID) {
	for _, a := range attrs {
		p.pushNode(a, markset.Reason{From: from, Label: LabelAttribute})
	}
}

func (p *pass) pushRef(ref metadata.TypeRef, from metadata.ID, label string) {
	if t := p.resolve(ref, from); t != nil {
		p.pushNode(t, markset.Reason{From: from, Label: label})
	}
}

func (p *pass) push(id metadata.ID, reason markset.Reason) {
	if p.marks.IsMarked(id) {
		return
	}
	n, ok := p.graph.Node(id)
	if !ok {
		p.dropEdge(reason.From, id.String())
		return
	}
	p.work.push(item{node: n, reason: reason})
}

func (p *pass) pushNode(n metadata.Node, reason markset.Reason) {
	if p.marks.IsMarked(n.ID()) {
		return
	}
	p.work.push(item{node: n, reason: reason})
}

func (p *pass) dropEdge(from metadata.ID, target string) {
	p.stats.DroppedEdges++
	p.log.Logf("Dropping unresolvable reference %s from %s", target, from)
}
