package platform

import (
	"linkmark/internal/marker"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// RuntimeAccessRule applies the runtime table to every resolved type,
// kept or not.
type RuntimeAccessRule struct {
	graph       *metadata.Graph
	table       *Table
	linkSymbols bool
}

func (r *RuntimeAccessRule) Name() string { return "runtime-access" }

func (r *RuntimeAccessRule) OnTypeResolved(t *metadata.Type) []marker.Action {
	e, ok := r.table.Lookup(t)
	if !ok {
		return nil
	}

	var actions []marker.Action
	if e.Fields != markset.FieldsNone {
		actions = append(actions, marker.KeepFields(t.ID(), e.Fields))
	}
	for _, d := range e.Methods {
		if d.DebugOnly && !r.linkSymbols {
			continue
		}
		target := r.target(t, d)
		if target == nil {
			continue
		}
		for _, m := range target.MethodsNamed(d.Method) {
			actions = append(actions, marker.Keep(m.ID()))
		}
	}
	return actions
}

func (r *RuntimeAccessRule) target(t *metadata.Type, d MethodDirective) *metadata.Type {
	if d.TargetType == "" {
		return t
	}
	asm := d.TargetAssembly
	if asm == "" {
		asm = t.Assembly
	}
	return r.graph.GetAssembly(asm).Type(d.TargetType)
}
