package metadata

import (
	"fmt"
	"strings"
)

// Kind tags the node variants of the metadata graph.
type Kind int

const (
	KindInvalid Kind = iota
	KindType
	KindMethod
	KindField
	KindInterfaceImpl
	KindAttribute
)

func (k Kind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindInterfaceImpl:
		return "iface"
	case KindAttribute:
		return "attr"
	default:
		return fmt.Sprintf("kind-invalid(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "type":
		return KindType, nil
	case "method":
		return KindMethod, nil
	case "field":
		return KindField, nil
	case "iface":
		return KindInterfaceImpl, nil
	case "attr":
		return KindAttribute, nil
	default:
		return KindInvalid, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// ID identifies a node across the whole link set. IDs are comparable and
// stable for the lifetime of a graph.
//
// Name is the qualified name within the assembly:
//
//	type       Namespace.Name, nested types Outer/Inner
//	method     TypeFullName::Name(Param,Param)
//	field      TypeFullName::Name
//	iface      TypeFullName : InterfaceFullName
//	attr       OwnerName[index]
type ID struct {
	Kind     Kind
	Assembly string
	Name     string
}

// IsZero reports whether id is the zero ID.
func (id ID) IsZero() bool {
	return id == ID{}
}

// String renders id as kind:assembly:name.
func (id ID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.Kind.String() + ":" + id.Assembly + ":" + id.Name
}

// ParseID parses the kind:assembly:name form produced by ID.String.
// Only the first two colons separate; the name keeps the rest verbatim.
func ParseID(s string) (ID, error) {
	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	asm, name, ok := strings.Cut(rest, ":")
	if !ok || asm == "" || name == "" {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID{Kind: k, Assembly: asm, Name: name}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text yields
// the zero ID.
func (id *ID) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// TypeID returns the ID of the type fullName in assembly asm.
func TypeID(asm, fullName string) ID {
	return ID{Kind: KindType, Assembly: asm, Name: fullName}
}

// MethodID returns the ID of the method with signature sig declared on
// the type fullName in assembly asm.
func MethodID(asm, fullName, sig string) ID {
	return ID{Kind: KindMethod, Assembly: asm, Name: fullName + "::" + sig}
}

// FieldID returns the ID of the field name declared on fullName.
func FieldID(asm, fullName, name string) ID {
	return ID{Kind: KindField, Assembly: asm, Name: fullName + "::" + name}
}

// TypeRef is an unresolved reference to a type. The zero TypeRef means
// "no type" (for example a root type's base).
type TypeRef struct {
	Assembly string
	FullName string
}

// IsZero reports whether r refers to nothing.
func (r TypeRef) IsZero() bool {
	return r.FullName == ""
}

func (r TypeRef) String() string {
	if r.IsZero() {
		return ""
	}
	return r.Assembly + ":" + r.FullName
}

// ID returns the type ID the reference points at.
func (r TypeRef) ID() ID {
	return TypeID(r.Assembly, r.FullName)
}

// ParseTypeRef parses "assembly:FullName". A reference without an
// assembly part is taken to live in defaultAssembly.
func ParseTypeRef(s, defaultAssembly string) TypeRef {
	if s == "" {
		return TypeRef{}
	}
	if asm, name, ok := strings.Cut(s, ":"); ok && !strings.HasPrefix(name, ":") {
		return TypeRef{Assembly: asm, FullName: name}
	}
	return TypeRef{Assembly: defaultAssembly, FullName: s}
}

// MethodRef references a method by declaring type and signature
// (Name(Param,Param)).
type MethodRef struct {
	Type      TypeRef
	Signature string
}

// FieldRef references a field by declaring type and name.
type FieldRef struct {
	Type TypeRef
	Name string
}

// Signature builds the Name(Param,Param) form used in method IDs.
func Signature(name string, params []TypeRef) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.FullName
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
