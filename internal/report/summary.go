// Package report explains and summarizes the result of a marking pass.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"linkmark/internal/marker"
	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// Count is a kept/total pair.
type Count struct {
	Kept  int `json:"kept"`
	Total int `json:"total"`
}

// AssemblyCount is the Count of one assembly.
type AssemblyCount struct {
	Name string `json:"name"`
	Count
}

// ForcedType is a kept type whose fields are forced.
type ForcedType struct {
	ID     metadata.ID        `json:"id"`
	Fields markset.FieldScope `json:"fields"`
}

// Summary describes one pass.
type Summary struct {
	Nodes      Count            `json:"nodes"`
	Kinds      map[string]Count `json:"kinds"`
	Assemblies []AssemblyCount  `json:"assemblies"`
	Forced     []ForcedType     `json:"forced_fields,omitempty"`
	Stats      marker.Stats     `json:"stats"`
	Kept       []metadata.ID    `json:"kept,omitempty"`
}

// NewSummary counts the kept nodes of g. With list set, the sorted kept
// IDs are included.
func NewSummary(g *metadata.Graph, marks *markset.Frozen, stats marker.Stats, list bool) Summary {
	s := Summary{
		Kinds: make(map[string]Count),
		Stats: stats,
	}

	byAsm := make(map[string]*AssemblyCount)
	for _, a := range g.Assemblies() {
		ac := &AssemblyCount{Name: a.Name}
		byAsm[a.Name] = ac
	}

	for _, n := range g.Nodes() {
		id := n.ID()
		kept := marks.IsMarked(id)
		k := s.Kinds[id.Kind.String()]
		k.Total++
		s.Nodes.Total++
		ac := byAsm[id.Assembly]
		ac.Total++
		if kept {
			k.Kept++
			s.Nodes.Kept++
			ac.Kept++
		}
		s.Kinds[id.Kind.String()] = k
	}

	for _, a := range g.Assemblies() {
		s.Assemblies = append(s.Assemblies, *byAsm[a.Name])
	}
	for _, id := range marks.ForcedTypes() {
		s.Forced = append(s.Forced, ForcedType{ID: id, Fields: marks.ForcedFields(id)})
	}
	if list {
		s.Kept = marks.Sorted()
	}
	return s
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteText writes s in a human readable form.
func WriteText(w io.Writer, s Summary) error {
	p := &printer{w: w}

	p.printf("Kept %d of %d nodes\n", s.Nodes.Kept, s.Nodes.Total)
	kinds := make([]string, 0, len(s.Kinds))
	for k := range s.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		c := s.Kinds[k]
		p.printf("  %-8s %d/%d\n", k, c.Kept, c.Total)
	}

	p.printf("\nAssemblies:\n")
	for _, a := range s.Assemblies {
		p.printf("  %-16s %d/%d\n", a.Name, a.Kept, a.Total)
	}

	if len(s.Forced) > 0 {
		p.printf("\nForced fields:\n")
		for _, f := range s.Forced {
			p.printf("  %s (%s)\n", f.ID, f.Fields)
		}
	}

	st := s.Stats
	p.printf("\nRoots: %d (%d dropped)\n", st.Roots, st.DroppedRoots)
	p.printf("Dropped references: %d\n", st.DroppedEdges)
	p.printf("Types resolved: %d\n", st.TypesResolved)
	p.printf("Hooks fired: method %d, type %d, resolved %d\n", st.MethodHooks, st.TypeHooks, st.ResolveHooks)
	p.printf("Contract interfaces: %d\n", st.ContractTypes)

	if len(s.Kept) > 0 {
		p.printf("\nKept:\n")
		for _, id := range s.Kept {
			p.printf("  %s\n", id)
		}
	}
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
