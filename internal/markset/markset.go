// Package markset records which nodes a marking pass kept.
package markset

import (
	"fmt"
	"sort"

	"linkmark/internal/metadata"
)

// FieldScope is the forced-fields refinement of a type: fields kept
// without usage analysis because something outside the call graph reads
// them.
type FieldScope int

const (
	FieldsNone FieldScope = iota
	FieldsInstance
	FieldsAll
)

func (s FieldScope) String() string {
	switch s {
	case FieldsNone:
		return "none"
	case FieldsInstance:
		return "instance"
	case FieldsAll:
		return "all"
	default:
		return fmt.Sprintf("field-scope-invalid(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s FieldScope) MarshalText() ([]byte, error) {
	switch s {
	case FieldsNone, FieldsInstance, FieldsAll:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("cannot marshal invalid FieldScope(%d)", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *FieldScope) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none":
		*s = FieldsNone
	case "instance":
		*s = FieldsInstance
	case "all":
		*s = FieldsAll
	default:
		return fmt.Errorf("unknown field scope %q", b)
	}
	return nil
}

// Covers reports whether a field with the given staticness is forced.
func (s FieldScope) Covers(static bool) bool {
	switch s {
	case FieldsAll:
		return true
	case FieldsInstance:
		return !static
	default:
		return false
	}
}

// Reason tells why a node was marked: the node whose processing
// discovered it (zero for external roots) and the kind of edge.
type Reason struct {
	From  metadata.ID
	Label string
}

// MarkSet is the mutable kept state of one pass. Marking is monotonic.
type MarkSet struct {
	reasons map[metadata.ID]Reason
	order   []metadata.ID
	fields  map[metadata.ID]FieldScope
	frozen  bool
}

// New returns an empty MarkSet.
func New() *MarkSet {
	return &MarkSet{
		reasons: make(map[metadata.ID]Reason),
		fields:  make(map[metadata.ID]FieldScope),
	}
}

// Mark marks id. It returns false, and keeps the first reason, when id
// was already marked.
func (s *MarkSet) Mark(id metadata.ID, reason Reason) bool {
	s.mustBeMutable()
	if _, ok := s.reasons[id]; ok {
		return false
	}
	s.reasons[id] = reason
	s.order = append(s.order, id)
	return true
}

// IsMarked reports whether id is marked.
func (s *MarkSet) IsMarked(id metadata.ID) bool {
	_, ok := s.reasons[id]
	return ok
}

// ForceFields widens the forced-fields scope of the type typeID to
// include scope and reports whether the stored scope changed. The stored
// scope never narrows.
func (s *MarkSet) ForceFields(typeID metadata.ID, scope FieldScope) bool {
	s.mustBeMutable()
	if scope <= s.fields[typeID] {
		return false
	}
	s.fields[typeID] = scope
	return true
}

// ForcedFields returns the forced-fields scope recorded for typeID,
// whether or not the type is marked.
func (s *MarkSet) ForcedFields(typeID metadata.ID) FieldScope {
	return s.fields[typeID]
}

// Reason returns why id was marked.
func (s *MarkSet) Reason(id metadata.ID) (Reason, bool) {
	r, ok := s.reasons[id]
	return r, ok
}

// Len returns the number of marked nodes.
func (s *MarkSet) Len() int {
	return len(s.order)
}

// Freeze ends mutation and returns the read-only view handed to the sweep.
func (s *MarkSet) Freeze() *Frozen {
	s.frozen = true
	return &Frozen{set: s}
}

func (s *MarkSet) mustBeMutable() {
	if s.frozen {
		panic("markset: mutation after Freeze")
	}
}

// Frozen is the read-only result of a pass.
type Frozen struct {
	set *MarkSet
}

// IsMarked reports whether id survives the sweep.
func (f *Frozen) IsMarked(id metadata.ID) bool {
	return f.set.IsMarked(id)
}

// ForcedFields returns the forced-fields scope of a kept type. The scope
// of an unmarked type is inert and reported as FieldsNone.
func (f *Frozen) ForcedFields(typeID metadata.ID) FieldScope {
	if !f.set.IsMarked(typeID) {
		return FieldsNone
	}
	return f.set.ForcedFields(typeID)
}

// Reason returns why id was marked.
func (f *Frozen) Reason(id metadata.ID) (Reason, bool) {
	return f.set.Reason(id)
}

// Len returns the number of marked nodes.
func (f *Frozen) Len() int {
	return f.set.Len()
}

// Marked returns the marked IDs in marking order.
func (f *Frozen) Marked() []metadata.ID {
	out := make([]metadata.ID, len(f.set.order))
	copy(out, f.set.order)
	return out
}

// Sorted returns the marked IDs ordered by kind, assembly and name.
func (f *Frozen) Sorted() []metadata.ID {
	out := f.Marked()
	sort.Slice(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// ForcedTypes returns the kept types carrying a forced-fields scope,
// sorted.
func (f *Frozen) ForcedTypes() []metadata.ID {
	var out []metadata.ID
	for id, scope := range f.set.fields {
		if scope != FieldsNone && f.set.IsMarked(id) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less orders IDs by kind, then assembly, then name.
func Less(a, b metadata.ID) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	if a.Assembly != b.Assembly {
		return a.Assembly < b.Assembly
	}
	return a.Name < b.Name
}
