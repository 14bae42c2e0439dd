package metadata

import (
	"strconv"
	"sync"
)

// Node is any vertex of the metadata graph.
type Node interface {
	ID() ID
}

// CustomAttribute is a custom attribute applied to a type, method or field.
// Args holds the positional constructor arguments as text.
type CustomAttribute struct {
	Type TypeRef
	Args []string
}

// Assembly is a unit of compiled code in the link set.
type Assembly struct {
	Name  string
	types []*Type
	index map[string]*Type
}

// Types returns the assembly's types in declaration order.
func (a *Assembly) Types() []*Type {
	return a.types
}

// Type looks up a type by full name.
func (a *Assembly) Type(fullName string) *Type {
	if a == nil {
		return nil
	}
	return a.index[fullName]
}

// Type is a type definition.
type Type struct {
	Assembly         string
	Namespace        string
	Name             string
	DeclaringType    TypeRef
	BaseType         TypeRef
	Interfaces       []TypeRef
	GenericArguments []TypeRef
	Attributes       []CustomAttribute
	IsInterface      bool
	Fields           []*Field
	Methods          []*Method

	fullName   string
	impls      []*InterfaceImpl
	attributes []*AttributeRef
}

// FullName returns Namespace.Name, or Outer/Inner for nested types.
func (t *Type) FullName() string {
	if t.fullName != "" {
		return t.fullName
	}
	return typeFullName(t)
}

func typeFullName(t *Type) string {
	switch {
	case !t.DeclaringType.IsZero():
		return t.DeclaringType.FullName + "/" + t.Name
	case t.Namespace == "":
		return t.Name
	default:
		return t.Namespace + "." + t.Name
	}
}

func (t *Type) ID() ID {
	return TypeID(t.Assembly, t.FullName())
}

// Ref returns a reference to t.
func (t *Type) Ref() TypeRef {
	return TypeRef{Assembly: t.Assembly, FullName: t.FullName()}
}

// IsNested reports whether t is declared inside another type.
func (t *Type) IsNested() bool {
	return !t.DeclaringType.IsZero()
}

// Method returns the method with the given signature.
func (t *Type) Method(sig string) *Method {
	for _, m := range t.Methods {
		if m.Signature() == sig {
			return m
		}
	}
	return nil
}

// MethodsNamed returns every overload called name.
func (t *Type) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// Field returns the field called name.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// InterfaceImpls returns one node per entry of Interfaces.
func (t *Type) InterfaceImpls() []*InterfaceImpl {
	return t.impls
}

// AttributeRefs returns one node per entry of Attributes.
func (t *Type) AttributeRefs() []*AttributeRef {
	return t.attributes
}

// TypeInitializer returns the static constructor, if declared.
func (t *Type) TypeInitializer() *Method {
	return t.Method(".cctor()")
}

// Body lists what a method body references.
type Body struct {
	Calls  []MethodRef
	Fields []FieldRef
	Types  []TypeRef
}

// Method is a method definition.
type Method struct {
	DeclaringType    *Type
	Name             string
	ReturnType       TypeRef
	Parameters       []TypeRef
	GenericArguments []TypeRef
	IsStatic         bool
	IsVirtual        bool
	Attributes       []CustomAttribute

	// Body is used as is unless LoadBody is set, in which case the body
	// is computed on first use.
	Body     Body
	LoadBody func() Body

	bodyOnce   sync.Once
	body       Body
	attributes []*AttributeRef
}

// Signature returns Name(Param,Param).
func (m *Method) Signature() string {
	return Signature(m.Name, m.Parameters)
}

func (m *Method) ID() ID {
	return MethodID(m.DeclaringType.Assembly, m.DeclaringType.FullName(), m.Signature())
}

// HasParameters reports whether m takes any parameter.
func (m *Method) HasParameters() bool {
	return len(m.Parameters) > 0
}

// References returns the body references, computing them once.
func (m *Method) References() Body {
	m.bodyOnce.Do(func() {
		if m.LoadBody != nil {
			m.body = m.LoadBody()
			return
		}
		m.body = m.Body
	})
	return m.body
}

// AttributeRefs returns one node per entry of Attributes.
func (m *Method) AttributeRefs() []*AttributeRef {
	return m.attributes
}

// Field is a field definition.
type Field struct {
	DeclaringType *Type
	Name          string
	FieldType     TypeRef
	IsStatic      bool
	Attributes    []CustomAttribute

	attributes []*AttributeRef
}

func (f *Field) ID() ID {
	return FieldID(f.DeclaringType.Assembly, f.DeclaringType.FullName(), f.Name)
}

// AttributeRefs returns one node per entry of Attributes.
func (f *Field) AttributeRefs() []*AttributeRef {
	return f.attributes
}

// InterfaceImpl is the relationship "Type implements Interface". It is a
// node of its own so the sweep can drop unused implementations.
type InterfaceImpl struct {
	Type      *Type
	Interface TypeRef
}

func (i *InterfaceImpl) ID() ID {
	return ID{
		Kind:     KindInterfaceImpl,
		Assembly: i.Type.Assembly,
		Name:     i.Type.FullName() + " : " + i.Interface.FullName,
	}
}

// AttributeRef is one custom attribute application on an owner node.
type AttributeRef struct {
	Owner     ID
	Index     int
	Attribute CustomAttribute
}

func (a *AttributeRef) ID() ID {
	return ID{
		Kind:     KindAttribute,
		Assembly: a.Owner.Assembly,
		Name:     a.Owner.Name + "[" + strconv.Itoa(a.Index) + "]",
	}
}
