package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"linkmark/internal/markset"
	"linkmark/internal/metadata"
)

// Entry describes one type the runtime touches outside any call graph.
// Nested types are keyed with an empty namespace and NestedOnly set.
type Entry struct {
	Assembly   string             `yaml:"assembly"`
	Namespace  string             `yaml:"namespace"`
	Name       string             `yaml:"name"`
	NestedOnly bool               `yaml:"nested_only,omitempty"`
	Fields     markset.FieldScope `yaml:"fields,omitempty"`
	Methods    []MethodDirective  `yaml:"methods,omitempty"`
}

// MethodDirective keeps every method called Method on a target type. An
// empty TargetType targets the entry's own type; an empty TargetAssembly
// means the entry's assembly.
type MethodDirective struct {
	TargetAssembly string `yaml:"target_assembly,omitempty"`
	TargetType     string `yaml:"target_type,omitempty"`
	Method         string `yaml:"method"`
	DebugOnly      bool   `yaml:"debug_only,omitempty"`
}

type tableKey struct {
	assembly  string
	namespace string
	name      string
}

// Table is the immutable runtime-internal lookup keyed by assembly,
// namespace and type name.
type Table struct {
	entries map[tableKey]Entry
}

// NewTable validates entries and builds a Table.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{entries: make(map[tableKey]Entry, len(entries))}
	for _, e := range entries {
		if e.Assembly == "" || e.Name == "" {
			return nil, fmt.Errorf("%w: %q/%q needs an assembly and a name", ErrInvalidEntry, e.Assembly, e.Name)
		}
		for _, d := range e.Methods {
			if d.Method == "" {
				return nil, fmt.Errorf("%w: %s:%s.%s has a directive without a method", ErrInvalidEntry, e.Assembly, e.Namespace, e.Name)
			}
		}
		k := tableKey{e.Assembly, e.Namespace, e.Name}
		if _, ok := t.entries[k]; ok {
			return nil, fmt.Errorf("%w: %s:%s.%s", ErrDuplicateEntry, e.Assembly, e.Namespace, e.Name)
		}
		e.Methods = append([]MethodDirective(nil), e.Methods...)
		t.entries[k] = e
	}
	return t, nil
}

// Lookup returns the entry for typ. The result depends only on the type's
// assembly, namespace, name and nesting.
func (t *Table) Lookup(typ *metadata.Type) (Entry, bool) {
	e, ok := t.entries[tableKey{typ.Assembly, typ.Namespace, typ.Name}]
	if !ok || (e.NestedOnly && !typ.IsNested()) {
		return Entry{}, false
	}
	return e, true
}

// Entries returns the entries sorted by assembly, namespace and name.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Assembly != b.Assembly {
			return a.Assembly < b.Assembly
		}
		if a.Namespace != b.Namespace {
			return a.Namespace < b.Namespace
		}
		return a.Name < b.Name
	})
	return out
}

type tableFile struct {
	Entries []Entry `yaml:"entries"`
}

// DecodeTable reads a YAML runtime table.
func DecodeTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode runtime table: %w", err)
	}
	return NewTable(f.Entries...)
}

// LoadTable reads a YAML runtime table from path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open runtime table: %w", err)
	}
	defer f.Close()

	return DecodeTable(f)
}

// DefaultTable returns the built-in table for the base class libraries.
func DefaultTable() *Table {
	t, err := NewTable(defaultEntries()...)
	if err != nil {
		panic(err)
	}
	return t
}

func defaultEntries() []Entry {
	instance := func(asm, ns, name string) Entry {
		return Entry{Assembly: asm, Namespace: ns, Name: name, Fields: markset.FieldsInstance}
	}
	nested := func(asm, name string) Entry {
		return Entry{Assembly: asm, Name: name, NestedOnly: true, Fields: markset.FieldsInstance}
	}
	builder := func(name string) Entry {
		return Entry{
			Assembly:  "mscorlib",
			Namespace: "System.Runtime.CompilerServices",
			Name:      name,
			Methods: []MethodDirective{
				{Method: "SetNotificationForWaitCompletion", DebugOnly: true},
				{Method: "get_ObjectIdForDebugger", DebugOnly: true},
			},
		}
	}

	return []Entry{
		builder("AsyncTaskMethodBuilder"),
		builder("AsyncTaskMethodBuilder`1"),
		{
			Assembly:  "mscorlib",
			Namespace: "System.Threading.Tasks",
			Name:      "Task",
			Methods:   []MethodDirective{{Method: "NotifyDebuggerOfWaitCompletion", DebugOnly: true}},
		},
		{
			Assembly:  "System.Core",
			Namespace: "System.Linq.Expressions",
			Name:      "LambdaExpression",
			Methods:   []MethodDirective{{TargetType: "System.Linq.Expressions.Expression`1", Method: "Create"}},
		},
		{
			Assembly:  "System.Core",
			Namespace: "System.Linq.Expressions.Compiler",
			Name:      "LambdaCompiler",
			Methods:   []MethodDirective{{TargetType: "System.Runtime.CompilerServices.RuntimeOps", Method: "Quote"}},
		},
		{
			Assembly:  "System.Data",
			Namespace: "System.Data.SqlTypes",
			Name:      "SqlXml",
			Methods: []MethodDirective{{
				TargetAssembly: "System.Xml",
				TargetType:     "System.Xml.XmlReader",
				Method:         "CreateSqlReader",
			}},
		},
		instance("System", "System.Diagnostics", "FileVersionInfo"),
		instance("System", "System.Diagnostics", "ProcessModule"),
		instance("System", "System.Net.Sockets", "IPAddress"),
		instance("System", "System.Net.Sockets", "IPv6MulticastOption"),
		instance("System", "System.Net.Sockets", "LingerOption"),
		instance("System", "System.Net.Sockets", "MulticastOption"),
		instance("System", "System.Net.Sockets", "SocketAddress"),
		{Assembly: "System", Namespace: "System.Net.Sockets", Name: "Socket", Fields: markset.FieldsAll},
		nested("System", "SocketAsyncResult"),
		nested("System", "ProcessAsyncReader"),
	}
}
