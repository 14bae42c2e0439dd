package export

import (
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// AssemblyRows returns one row per linked assembly.
func AssemblyRows(g *metadata.Graph) []map[string]any {
	rows := make([]map[string]any, 0, len(g.Assemblies()))
	for _, a := range g.Assemblies() {
		rows = append(rows, map[string]any{
			"name":  a.Name,
			"types": len(a.Types()),
		})
	}
	return rows
}

// NodeRows returns one row per graph node, in graph order.
func NodeRows(g *metadata.Graph, marks *markset.Frozen) []map[string]any {
	rows := make([]map[string]any, 0, g.Len())
	for _, n := range g.Nodes() {
		id := n.ID()
		root := false
		if r, ok := marks.Reason(id); ok && r.From.IsZero() {
			root = true
		}
		forced := ""
		if id.Kind == metadata.KindType {
			if scope := marks.ForcedFields(id); scope != markset.FieldsNone {
				forced = scope.String()
			}
		}
		rows = append(rows, map[string]any{
			"id":            id.String(),
			"kind":          id.Kind.String(),
			"assembly":      id.Assembly,
			"name":          id.Name,
			"kept":          marks.IsMarked(id),
			"root":          root,
			"forced_fields": forced,
		})
	}
	return rows
}

// EdgeRows returns one row per kept node discovered from another node, in
// marking order.
func EdgeRows(marks *markset.Frozen) []map[string]any {
	var rows []map[string]any
	for _, id := range marks.Marked() {
		r, _ := marks.Reason(id)
		if r.From.IsZero() {
			continue
		}
		rows = append(rows, map[string]any{
			"from":  r.From.String(),
			"to":    id.String(),
			"label": r.Label,
		})
	}
	return rows
}

// batches splits rows into chunks of at most size.
func batches(rows []map[string]any, size int) [][]map[string]any {
	var out [][]map[string]any
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}
