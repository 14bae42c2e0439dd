// Package yamlgraph reads a metadata graph from a YAML document.
//
// References are written "Assembly:Namespace.Type". The assembly part may
// be left out for types of the enclosing assembly. Method references append
// "::Name(Param,Param)" and field references "::name".
//
//	assemblies:
//	  - name: App
//	    types:
//	      - namespace: App
//	        name: Program
//	        base: mscorlib:System.Object
//	        methods:
//	          - name: Main
//	            static: true
//	            calls: ["App.Worker::Run()"]
package yamlgraph

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"linkmark/internal/metadata"
)

// ErrInvalidReference is returned for member references without "::".
var ErrInvalidReference = errors.New("invalid member reference, want Type::Member")

type document struct {
	Assemblies []assembly `yaml:"assemblies"`
}

type assembly struct {
	Name  string    `yaml:"name"`
	Types []typeDef `yaml:"types"`
}

type attribute struct {
	Type string   `yaml:"type"`
	Args []string `yaml:"args"`
}

type typeDef struct {
	Namespace   string      `yaml:"namespace"`
	Name        string      `yaml:"name"`
	Declaring   string      `yaml:"declaring"`
	Base        string      `yaml:"base"`
	Interfaces  []string    `yaml:"interfaces"`
	Generic     []string    `yaml:"generic"`
	IsInterface bool        `yaml:"interface"`
	Attributes  []attribute `yaml:"attributes"`
	Fields      []fieldDef  `yaml:"fields"`
	Methods     []methodDef `yaml:"methods"`
}

type fieldDef struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Static     bool        `yaml:"static"`
	Attributes []attribute `yaml:"attributes"`
}

type methodDef struct {
	Name       string      `yaml:"name"`
	Returns    string      `yaml:"returns"`
	Params     []string    `yaml:"params"`
	Generic    []string    `yaml:"generic"`
	Static     bool        `yaml:"static"`
	Virtual    bool        `yaml:"virtual"`
	Attributes []attribute `yaml:"attributes"`
	Calls      []string    `yaml:"calls"`
	Fields     []string    `yaml:"fields"`
	Types      []string    `yaml:"types"`
}

// Load reads the graph stored at path.
func Load(path string) (*metadata.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Decode reads a graph document from r.
func Decode(r io.Reader) (*metadata.Graph, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode graph: %w", err)
	}

	b := metadata.NewBuilder()
	for _, a := range doc.Assemblies {
		b.AddAssembly(a.Name)
		for _, td := range a.Types {
			t, err := convertType(a.Name, td)
			if err != nil {
				return nil, err
			}
			if err := b.AddType(t); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

func convertType(asm string, td typeDef) (*metadata.Type, error) {
	t := &metadata.Type{
		Assembly:         asm,
		Namespace:        td.Namespace,
		Name:             td.Name,
		DeclaringType:    metadata.ParseTypeRef(td.Declaring, asm),
		BaseType:         metadata.ParseTypeRef(td.Base, asm),
		Interfaces:       typeRefs(td.Interfaces, asm),
		GenericArguments: typeRefs(td.Generic, asm),
		IsInterface:      td.IsInterface,
		Attributes:       attributes(td.Attributes, asm),
	}
	for _, fd := range td.Fields {
		t.Fields = append(t.Fields, &metadata.Field{
			Name:       fd.Name,
			FieldType:  metadata.ParseTypeRef(fd.Type, asm),
			IsStatic:   fd.Static,
			Attributes: attributes(fd.Attributes, asm),
		})
	}
	for _, md := range td.Methods {
		m, err := convertMethod(asm, md)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", td.Namespace, td.Name, err)
		}
		t.Methods = append(t.Methods, m)
	}
	return t, nil
}

func convertMethod(asm string, md methodDef) (*metadata.Method, error) {
	m := &metadata.Method{
		Name:             md.Name,
		ReturnType:       metadata.ParseTypeRef(md.Returns, asm),
		Parameters:       typeRefs(md.Params, asm),
		GenericArguments: typeRefs(md.Generic, asm),
		IsStatic:         md.Static,
		IsVirtual:        md.Virtual,
		Attributes:       attributes(md.Attributes, asm),
	}
	for _, s := range md.Calls {
		typ, sig, err := splitMember(s, asm)
		if err != nil {
			return nil, err
		}
		m.Body.Calls = append(m.Body.Calls, metadata.MethodRef{Type: typ, Signature: sig})
	}
	for _, s := range md.Fields {
		typ, name, err := splitMember(s, asm)
		if err != nil {
			return nil, err
		}
		m.Body.Fields = append(m.Body.Fields, metadata.FieldRef{Type: typ, Name: name})
	}
	m.Body.Types = typeRefs(md.Types, asm)
	return m, nil
}

func splitMember(s, asm string) (metadata.TypeRef, string, error) {
	typ, member, ok := strings.Cut(s, "::")
	if !ok || typ == "" || member == "" {
		return metadata.TypeRef{}, "", fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	return metadata.ParseTypeRef(typ, asm), member, nil
}

func typeRefs(refs []string, asm string) []metadata.TypeRef {
	if len(refs) == 0 {
		return nil
	}
	out := make([]metadata.TypeRef, len(refs))
	for i, s := range refs {
		out[i] = metadata.ParseTypeRef(s, asm)
	}
	return out
}

func attributes(attrs []attribute, asm string) []metadata.CustomAttribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]metadata.CustomAttribute, len(attrs))
	for i, a := range attrs {
		out[i] = metadata.CustomAttribute{Type: metadata.ParseTypeRef(a.Type, asm), Args: a.Args}
	}
	return out
}
