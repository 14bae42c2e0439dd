package marker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"linkmark/internal/marker"
	"linkmark/internal/marker/mocks"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

func ref(asm, name string) metadata.TypeRef {
	return metadata.TypeRef{Assembly: asm, FullName: name}
}

func call(asm, typeName, sig string) metadata.MethodRef {
	return metadata.MethodRef{Type: ref(asm, typeName), Signature: sig}
}

var (
	object = ref("mscorlib", "System.Object")
	void   = ref("mscorlib", "System.Void")
	int32  = ref("mscorlib", "System.Int32")
	str    = ref("mscorlib", "System.String")
)

func corlib() []*metadata.Type {
	return []*metadata.Type{
		{Assembly: "mscorlib", Namespace: "System", Name: "Object"},
		{Assembly: "mscorlib", Namespace: "System", Name: "Void", BaseType: object},
		{Assembly: "mscorlib", Namespace: "System", Name: "Int32", BaseType: object},
		{Assembly: "mscorlib", Namespace: "System", Name: "String", BaseType: object},
	}
}

func build(t *testing.T, types ...*metadata.Type) *metadata.Graph {
	t.Helper()
	b := metadata.NewBuilder()
	for _, typ := range append(corlib(), types...) {
		require.NoError(t, b.AddType(typ))
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

// appGraph: Program.Main -> A.Run <-> B.Run, Main reads Holder.value.
func appGraph(t *testing.T) *metadata.Graph {
	return build(t,
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Program", BaseType: object,
			Methods: []*metadata.Method{{
				Name: "Main", IsStatic: true, ReturnType: void,
				Body: metadata.Body{
					Calls:  []metadata.MethodRef{call("App", "App.A", "Run()")},
					Fields: []metadata.FieldRef{{Type: ref("App", "App.Holder"), Name: "value"}},
				},
			}},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "A", BaseType: object,
			Methods: []*metadata.Method{{
				Name: "Run", ReturnType: void,
				Body: metadata.Body{Calls: []metadata.MethodRef{call("App", "App.B", "Run()")}},
			}},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "B", BaseType: object,
			Methods: []*metadata.Method{{
				Name: "Run", ReturnType: void,
				Body: metadata.Body{Calls: []metadata.MethodRef{call("App", "App.A", "Run()")}},
			}},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Holder", BaseType: object,
			Fields: []*metadata.Field{
				{Name: "value", FieldType: ref("App", "App.Payload")},
				{Name: "total", FieldType: int32, IsStatic: true},
				{Name: "label", FieldType: str},
			},
		},
		&metadata.Type{Assembly: "App", Namespace: "App", Name: "Payload", BaseType: object},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Unused", BaseType: object,
			Methods: []*metadata.Method{{Name: "Dead", ReturnType: void}},
		},
	)
}

var mainID = metadata.MethodID("App", "App.Program", "Main()")

func TestRun_MarksStaticClosure(t *testing.T) {
	g := appGraph(t)

	marks, stats := marker.Run(g, []metadata.ID{mainID})

	for _, id := range []metadata.ID{
		mainID,
		metadata.TypeID("App", "App.Program"),
		metadata.MethodID("App", "App.A", "Run()"),
		metadata.MethodID("App", "App.B", "Run()"),
		metadata.TypeID("App", "App.A"),
		metadata.TypeID("App", "App.B"),
		metadata.FieldID("App", "App.Holder", "value"),
		metadata.TypeID("App", "App.Holder"),
		metadata.TypeID("App", "App.Payload"),
		metadata.TypeID("mscorlib", "System.Object"),
		metadata.TypeID("mscorlib", "System.Void"),
	} {
		assert.True(t, marks.IsMarked(id), id.String())
	}

	for _, id := range []metadata.ID{
		metadata.TypeID("App", "App.Unused"),
		metadata.MethodID("App", "App.Unused", "Dead()"),
		metadata.FieldID("App", "App.Holder", "total"),
		metadata.FieldID("App", "App.Holder", "label"),
		metadata.TypeID("mscorlib", "System.Int32"),
		metadata.TypeID("mscorlib", "System.String"),
	} {
		assert.False(t, marks.IsMarked(id), id.String())
	}

	assert.Equal(t, 1, stats.Roots)
	assert.Zero(t, stats.DroppedRoots)
	assert.Zero(t, stats.DroppedEdges)
}

func TestRun_ClosureHoldsForEveryMarkedMethod(t *testing.T) {
	g := appGraph(t)

	marks, _ := marker.Run(g, []metadata.ID{mainID})

	for _, id := range marks.Marked() {
		n, ok := g.Node(id)
		require.True(t, ok)
		m, isMethod := n.(*metadata.Method)
		if !isMethod {
			continue
		}
		assert.True(t, marks.IsMarked(m.DeclaringType.ID()))
		for _, c := range m.References().Calls {
			if callee := g.ResolveMethod(c); callee != nil {
				assert.True(t, marks.IsMarked(callee.ID()), "%s -> %s", id, callee.ID())
			}
		}
		for _, f := range m.References().Fields {
			if field := g.ResolveField(f); field != nil {
				assert.True(t, marks.IsMarked(field.ID()), "%s -> %s", id, field.ID())
			}
		}
	}
}

func TestRun_RecordsReasons(t *testing.T) {
	g := appGraph(t)

	marks, _ := marker.Run(g, []metadata.ID{mainID})

	r, ok := marks.Reason(mainID)
	require.True(t, ok)
	assert.Equal(t, markset.Reason{Label: marker.LabelRoot}, r)

	r, ok = marks.Reason(metadata.MethodID("App", "App.A", "Run()"))
	require.True(t, ok)
	assert.Equal(t, markset.Reason{From: mainID, Label: marker.LabelBody}, r)

	r, ok = marks.Reason(metadata.TypeID("App", "App.Payload"))
	require.True(t, ok)
	assert.Equal(t, markset.Reason{From: metadata.FieldID("App", "App.Holder", "value"), Label: marker.LabelFieldType}, r)
}

func TestRun_MethodHookFiresOncePerMethodOnCycles(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := appGraph(t)
	a := g.ResolveType("App", "App.A").Method("Run()")
	b := g.ResolveType("App", "App.B").Method("Run()")
	main := g.ResolveType("App", "App.Program").Method("Main()")

	rule := mocks.NewMockMethodMarkedRule(ctrl)
	rule.EXPECT().Name().Return("counter").AnyTimes()
	rule.EXPECT().OnMethodMarked(main).Return(nil).Times(1)
	rule.EXPECT().OnMethodMarked(a).Return(nil).Times(1)
	rule.EXPECT().OnMethodMarked(b).Return(nil).Times(1)

	registry, err := marker.NewRegistry(rule)
	require.NoError(t, err)

	_, stats := marker.Run(g, []metadata.ID{mainID, mainID, metadata.MethodID("App", "App.B", "Run()")},
		marker.WithRegistry(registry))

	assert.Equal(t, 3, stats.MethodHooks)
}

func TestRun_TypeHooksFireOncePerType(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := appGraph(t)

	marked := mocks.NewMockTypeMarkedRule(ctrl)
	marked.EXPECT().Name().Return("marked").AnyTimes()
	resolved := mocks.NewMockTypeResolvedRule(ctrl)
	resolved.EXPECT().Name().Return("resolved").AnyTimes()

	seenMarked := map[*metadata.Type]int{}
	seenResolved := map[*metadata.Type]int{}
	marked.EXPECT().OnTypeMarked(gomock.Any()).DoAndReturn(func(typ *metadata.Type) []marker.Action {
		seenMarked[typ]++
		return nil
	}).AnyTimes()
	resolved.EXPECT().OnTypeResolved(gomock.Any()).DoAndReturn(func(typ *metadata.Type) []marker.Action {
		seenResolved[typ]++
		return nil
	}).AnyTimes()

	registry, err := marker.NewRegistry(marked, resolved)
	require.NoError(t, err)

	marks, stats := marker.Run(g, []metadata.ID{mainID}, marker.WithRegistry(registry))

	for typ, n := range seenMarked {
		assert.Equal(t, 1, n, typ.FullName())
		assert.True(t, marks.IsMarked(typ.ID()))
	}
	for typ, n := range seenResolved {
		assert.Equal(t, 1, n, typ.FullName())
	}
	assert.Len(t, seenMarked, 7)
	assert.Equal(t, stats.TypesResolved, len(seenResolved))
}

type resolveRecorder struct {
	order   []string
	actions map[string][]marker.Action
}

func (r *resolveRecorder) Name() string { return "recorder" }

func (r *resolveRecorder) OnTypeResolved(t *metadata.Type) []marker.Action {
	r.order = append(r.order, t.FullName())
	return r.actions[t.FullName()]
}

func TestRun_TypeResolvedFiresForUnmarkedTypes(t *testing.T) {
	g := build(t,
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Program", BaseType: object,
			Methods: []*metadata.Method{{
				Name: "Main", IsStatic: true,
				Body: metadata.Body{Calls: []metadata.MethodRef{call("App", "App.Lonely", "Missing()")}},
			}},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Lonely", BaseType: object,
			Fields: []*metadata.Field{{Name: "state", FieldType: int32}},
		},
	)
	lonely := metadata.TypeID("App", "App.Lonely")
	rule := &resolveRecorder{actions: map[string][]marker.Action{
		"App.Lonely": {marker.KeepFields(lonely, markset.FieldsInstance)},
	}}
	registry, err := marker.NewRegistry(rule)
	require.NoError(t, err)

	marks, stats := marker.Run(g, []metadata.ID{mainID}, marker.WithRegistry(registry))

	assert.Contains(t, rule.order, "App.Lonely")
	assert.False(t, marks.IsMarked(lonely))
	assert.False(t, marks.IsMarked(metadata.FieldID("App", "App.Lonely", "state")))
	assert.Equal(t, markset.FieldsNone, marks.ForcedFields(lonely))
	assert.Equal(t, 1, stats.DroppedEdges)
}

func TestRun_ForcedFields(t *testing.T) {
	holder := metadata.TypeID("App", "App.Holder")
	tests := []struct {
		name      string
		scope     markset.FieldScope
		kept      []string
		dropped   []string
		keptTypes []metadata.ID
	}{
		{
			name:      "instance",
			scope:     markset.FieldsInstance,
			kept:      []string{"value", "label"},
			dropped:   []string{"total"},
			keptTypes: []metadata.ID{metadata.TypeID("mscorlib", "System.String")},
		},
		{
			name:  "all",
			scope: markset.FieldsAll,
			kept:  []string{"value", "label", "total"},
			keptTypes: []metadata.ID{
				metadata.TypeID("mscorlib", "System.String"),
				metadata.TypeID("mscorlib", "System.Int32"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := appGraph(t)
			rule := &resolveRecorder{actions: map[string][]marker.Action{
				"App.Holder": {marker.KeepFields(holder, tc.scope)},
			}}
			registry, err := marker.NewRegistry(rule)
			require.NoError(t, err)

			marks, _ := marker.Run(g, []metadata.ID{mainID}, marker.WithRegistry(registry))

			assert.Equal(t, tc.scope, marks.ForcedFields(holder))
			for _, name := range tc.kept {
				assert.True(t, marks.IsMarked(metadata.FieldID("App", "App.Holder", name)), name)
			}
			for _, name := range tc.dropped {
				assert.False(t, marks.IsMarked(metadata.FieldID("App", "App.Holder", name)), name)
			}
			for _, id := range tc.keptTypes {
				assert.True(t, marks.IsMarked(id), id.String())
			}
		})
	}
}

func TestRun_ForcedFieldsAppliedWhenTypeIsMarkedLater(t *testing.T) {
	g := appGraph(t)
	holder := metadata.TypeID("App", "App.Holder")
	// A.Run is resolved (via Main's call) before Holder is marked.
	rule := &resolveRecorder{actions: map[string][]marker.Action{
		"App.A": {marker.KeepFields(holder, markset.FieldsAll)},
	}}
	registry, err := marker.NewRegistry(rule)
	require.NoError(t, err)

	marks, _ := marker.Run(g, []metadata.ID{mainID}, marker.WithRegistry(registry))

	assert.True(t, marks.IsMarked(metadata.FieldID("App", "App.Holder", "total")))
	assert.True(t, marks.IsMarked(metadata.FieldID("App", "App.Holder", "label")))
}

func TestRun_DropsUnresolvableRootsAndEdges(t *testing.T) {
	g := build(t, &metadata.Type{
		Assembly: "App", Namespace: "App", Name: "Program", BaseType: ref("Missing", "Missing.Base"),
		Methods: []*metadata.Method{{
			Name: "Main", IsStatic: true,
			Body: metadata.Body{
				Calls: []metadata.MethodRef{
					call("Missing", "Missing.Type", "Run()"),
					call("App", "App.Program", "Nope()"),
				},
				Fields: []metadata.FieldRef{{Type: ref("App", "App.Program"), Name: "nope"}},
			},
		}},
	})

	marks, stats := marker.Run(g, []metadata.ID{
		mainID,
		metadata.TypeID("Missing", "Missing.Type"),
		metadata.MethodID("App", "App.Program", "Gone()"),
	})

	assert.True(t, marks.IsMarked(mainID))
	assert.True(t, marks.IsMarked(metadata.TypeID("App", "App.Program")))
	assert.Equal(t, 2, marks.Len())
	assert.Equal(t, 3, stats.Roots)
	assert.Equal(t, 2, stats.DroppedRoots)
	assert.Equal(t, 4, stats.DroppedEdges)
}

type hookRooter struct {
	name  string
	roots map[string][]marker.Action
}

func (h *hookRooter) Name() string { return h.name }

func (h *hookRooter) OnMethodMarked(m *metadata.Method) []marker.Action {
	return h.roots[m.ID().String()]
}

func (h *hookRooter) OnTypeMarked(t *metadata.Type) []marker.Action {
	return h.roots[t.ID().String()]
}

func TestRun_HookRootsAreMarkedWithHookReason(t *testing.T) {
	g := appGraph(t)
	dead := metadata.MethodID("App", "App.Unused", "Dead()")
	rule := &hookRooter{name: "keep-dead", roots: map[string][]marker.Action{
		mainID.String(): {
			marker.Keep(dead),
			marker.Keep(metadata.TypeID("Elsewhere", "Elsewhere.Type")),
		},
	}}
	registry, err := marker.NewRegistry(rule)
	require.NoError(t, err)

	marks, stats := marker.Run(g, []metadata.ID{mainID}, marker.WithRegistry(registry))

	assert.True(t, marks.IsMarked(dead))
	assert.True(t, marks.IsMarked(metadata.TypeID("App", "App.Unused")))
	r, ok := marks.Reason(dead)
	require.True(t, ok)
	assert.Equal(t, markset.Reason{From: mainID, Label: "hook:keep-dead"}, r)
	assert.Equal(t, 1, stats.DroppedEdges)
}

func contractGraph(t *testing.T) *metadata.Graph {
	return build(t,
		&metadata.Type{Assembly: "Mono.Android", Namespace: "Android.Runtime", Name: "IJavaObject", IsInterface: true},
		&metadata.Type{
			Assembly: "Mono.Android", Namespace: "Android.Views", Name: "IOnClickListener", IsInterface: true,
			Interfaces: []metadata.TypeRef{ref("Mono.Android", "Android.Runtime.IJavaObject")},
			Methods: []*metadata.Method{
				{Name: "OnClick", IsVirtual: true, ReturnType: void},
				{Name: "OnLongClick", IsVirtual: true, ReturnType: void},
			},
		},
		&metadata.Type{
			Assembly: "Mono.Android", Namespace: "Android.Views", Name: "IOnTouchListener", IsInterface: true,
			Interfaces: []metadata.TypeRef{ref("Mono.Android", "Android.Views.IOnClickListener")},
			Methods:    []*metadata.Method{{Name: "OnTouch", IsVirtual: true, ReturnType: void}},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "IPlain", IsInterface: true,
			Methods: []*metadata.Method{{Name: "Work", IsVirtual: true, ReturnType: void}},
		},
	)
}

func TestRun_UniversalContractClosure(t *testing.T) {
	contract := marker.WithUniversalContracts(ref("Mono.Android", "Android.Runtime.IJavaObject"))
	tests := []struct {
		name    string
		root    metadata.ID
		kept    []metadata.ID
		dropped []metadata.ID
	}{
		{
			name: "direct implementor",
			root: metadata.TypeID("Mono.Android", "Android.Views.IOnClickListener"),
			kept: []metadata.ID{
				metadata.MethodID("Mono.Android", "Android.Views.IOnClickListener", "OnClick()"),
				metadata.MethodID("Mono.Android", "Android.Views.IOnClickListener", "OnLongClick()"),
			},
		},
		{
			name: "inherited contract",
			root: metadata.TypeID("Mono.Android", "Android.Views.IOnTouchListener"),
			kept: []metadata.ID{
				metadata.MethodID("Mono.Android", "Android.Views.IOnTouchListener", "OnTouch()"),
				metadata.MethodID("Mono.Android", "Android.Views.IOnClickListener", "OnClick()"),
			},
		},
		{
			name:    "plain interface",
			root:    metadata.TypeID("App", "App.IPlain"),
			dropped: []metadata.ID{metadata.MethodID("App", "App.IPlain", "Work()")},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marks, _ := marker.Run(contractGraph(t), []metadata.ID{tc.root}, contract)

			for _, id := range tc.kept {
				assert.True(t, marks.IsMarked(id), id.String())
			}
			for _, id := range tc.dropped {
				assert.False(t, marks.IsMarked(id), id.String())
			}
		})
	}
}

func TestRun_ContractClosureNeedsConfiguredContract(t *testing.T) {
	marks, stats := marker.Run(contractGraph(t), []metadata.ID{
		metadata.TypeID("Mono.Android", "Android.Views.IOnClickListener"),
	})

	assert.False(t, marks.IsMarked(metadata.MethodID("Mono.Android", "Android.Views.IOnClickListener", "OnClick()")))
	assert.Zero(t, stats.ContractTypes)
}

func TestRun_AttributesAndTypeInitializers(t *testing.T) {
	g := build(t,
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "PreserveAttribute", BaseType: object,
			Methods: []*metadata.Method{
				{Name: ".ctor", ReturnType: void},
				{Name: ".ctor", ReturnType: void, Parameters: []metadata.TypeRef{str}},
			},
		},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Program", BaseType: object,
			Methods: []*metadata.Method{
				{
					Name: "Main", IsStatic: true,
					Attributes: []metadata.CustomAttribute{{Type: ref("App", "App.PreserveAttribute"), Args: []string{"why"}}},
				},
				{Name: ".cctor", IsStatic: true, ReturnType: void},
			},
		},
	)

	marks, _ := marker.Run(g, []metadata.ID{mainID})

	assert.True(t, marks.IsMarked(metadata.ID{Kind: metadata.KindAttribute, Assembly: "App", Name: "App.Program::Main()[0]"}))
	assert.True(t, marks.IsMarked(metadata.TypeID("App", "App.PreserveAttribute")))
	assert.True(t, marks.IsMarked(metadata.MethodID("App", "App.PreserveAttribute", ".ctor(System.String)")))
	assert.False(t, marks.IsMarked(metadata.MethodID("App", "App.PreserveAttribute", ".ctor()")))
	assert.True(t, marks.IsMarked(metadata.MethodID("App", "App.Program", ".cctor()")))
}

func TestRun_InterfaceImplementationsAreNodes(t *testing.T) {
	g := build(t,
		&metadata.Type{Assembly: "App", Namespace: "App", Name: "IThing", IsInterface: true},
		&metadata.Type{
			Assembly: "App", Namespace: "App", Name: "Thing", BaseType: object,
			Interfaces: []metadata.TypeRef{ref("App", "App.IThing"), ref("Gone", "Gone.IOptional")},
		},
	)

	marks, stats := marker.Run(g, []metadata.ID{metadata.TypeID("App", "App.Thing")})

	assert.True(t, marks.IsMarked(metadata.ID{Kind: metadata.KindInterfaceImpl, Assembly: "App", Name: "App.Thing : App.IThing"}))
	assert.True(t, marks.IsMarked(metadata.TypeID("App", "App.IThing")))
	assert.True(t, marks.IsMarked(metadata.ID{Kind: metadata.KindInterfaceImpl, Assembly: "App", Name: "App.Thing : Gone.IOptional"}))
	assert.Equal(t, 1, stats.DroppedEdges)
}

func TestRun_OrderDoesNotChangeTheFixedPoint(t *testing.T) {
	g := contractGraph(t)
	roots := []metadata.ID{metadata.TypeID("Mono.Android", "Android.Views.IOnTouchListener")}
	contract := marker.WithUniversalContracts(ref("", "Android.Runtime.IJavaObject"))

	fifo, _ := marker.Run(g, roots, contract, marker.WithOrder(marker.FIFO))
	lifo, _ := marker.Run(g, roots, contract, marker.WithOrder(marker.LIFO))

	assert.Equal(t, fifo.Sorted(), lifo.Sorted())

	app := appGraph(t)
	fifo, _ = marker.Run(app, []metadata.ID{mainID}, marker.WithOrder(marker.FIFO))
	lifo, _ = marker.Run(app, []metadata.ID{mainID}, marker.WithOrder(marker.LIFO))

	assert.Equal(t, fifo.Sorted(), lifo.Sorted())
}

func TestMarker_RunsAreIndependent(t *testing.T) {
	m := marker.New(appGraph(t))

	first, _ := m.Run([]metadata.ID{mainID})
	second, _ := m.Run([]metadata.ID{metadata.MethodID("App", "App.Unused", "Dead()")})

	assert.True(t, first.IsMarked(mainID))
	assert.False(t, second.IsMarked(mainID))
	assert.True(t, second.IsMarked(metadata.TypeID("App", "App.Unused")))
}

func TestRegistry_Register(t *testing.T) {
	ctrl := gomock.NewController(t)

	_, err := marker.NewRegistry(nil)
	assert.ErrorIs(t, err, marker.ErrNilRule)

	plain := mocks.NewMockRule(ctrl)
	plain.EXPECT().Name().Return("plain").AnyTimes()
	_, err = marker.NewRegistry(plain)
	assert.ErrorIs(t, err, marker.ErrNoHooks)

	_, err = marker.NewRegistry(&hookRooter{name: "twice"}, &hookRooter{name: "twice"})
	assert.ErrorIs(t, err, marker.ErrDuplicateRule)

	r, err := marker.NewRegistry(&hookRooter{name: "one"}, &resolveRecorder{})
	require.NoError(t, err)
	require.Len(t, r.Rules(), 2)
	assert.Equal(t, "one", r.Rules()[0].Name())
}
