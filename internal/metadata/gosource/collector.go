// Package gosource turns a Go module into a metadata graph. Each package
// of the module becomes an assembly, named types become types, methods and
// package functions become methods, and the VTA call graph provides the
// method bodies.
package gosource

import (
	"go/types"
	"sort"
	"strings"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/vta"
	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"linkmark/internal/metadata"
)

// PackageType is the synthetic type holding the functions of a package.
const PackageType = "<package>"

// Collector gathers types, call edges and interface implementations from
// Go packages using static analysis.
type Collector struct {
	RootModule string

	types   map[string]*metadata.Type
	methods map[string]*metadata.Method
	calls   map[string][]metadata.MethodRef
	seen    map[string]bool
	order   []*metadata.Type
	pkgs    []string
}

// NewCollector creates a Collector scoped to the given root module path.
func NewCollector(rootModule string) *Collector {
	return &Collector{
		RootModule: rootModule,
		types:      make(map[string]*metadata.Type),
		methods:    make(map[string]*metadata.Method),
		calls:      make(map[string][]metadata.MethodRef),
		seen:       make(map[string]bool),
	}
}

// isProjectPackage reports whether pkgPath belongs to the analysed module.
func (c *Collector) isProjectPackage(pkgPath string) bool {
	return pkgPath == c.RootModule || strings.HasPrefix(pkgPath, c.RootModule+"/")
}

// CollectTypes walks all project packages and records their named types,
// fields, methods and functions.
func (c *Collector) CollectTypes(pkgs []*packages.Package) {
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) || pkg.Types == nil {
			return
		}
		c.pkgs = append(c.pkgs, pkg.PkgPath)
		holder := c.typeFor(pkg.PkgPath, pkg.Name, PackageType)
		// init functions are not in the package scope; every init#N of
		// the package maps onto this one.
		c.addMethod(holder, "init", types.NewSignatureType(nil, nil, nil, nil, nil, false), true, false)

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			switch o := scope.Lookup(name).(type) {
			case *types.TypeName:
				if o.IsAlias() {
					continue
				}
				c.collectNamed(pkg, o)
			case *types.Func:
				c.addMethod(holder, o.Name(), o.Type().(*types.Signature), true, false)
			}
		}
	})
}

func (c *Collector) collectNamed(pkg *packages.Package, o *types.TypeName) {
	t := c.typeFor(pkg.PkgPath, pkg.Name, o.Name())
	named, ok := o.Type().(*types.Named)
	if !ok {
		return
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			t.Fields = append(t.Fields, &metadata.Field{
				Name:      f.Name(),
				FieldType: c.typeRef(f.Type()),
			})
		}
	case *types.Interface:
		t.IsInterface = true
		for i := 0; i < u.NumEmbeddeds(); i++ {
			if ref := c.typeRef(u.EmbeddedType(i)); !ref.IsZero() {
				t.Interfaces = append(t.Interfaces, ref)
			}
		}
		for i := 0; i < u.NumExplicitMethods(); i++ {
			m := u.ExplicitMethod(i)
			c.addMethod(t, m.Name(), m.Type().(*types.Signature), false, true)
		}
		return
	}

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		c.addMethod(t, m.Name(), m.Type().(*types.Signature), false, false)
	}
}

func (c *Collector) typeFor(pkgPath, pkgName, name string) *metadata.Type {
	key := pkgPath + "." + name
	if t, ok := c.types[key]; ok {
		return t
	}
	t := &metadata.Type{Assembly: pkgPath, Namespace: pkgName, Name: name}
	c.types[key] = t
	c.order = append(c.order, t)
	return t
}

func (c *Collector) addMethod(t *metadata.Type, name string, sig *types.Signature, static, virtual bool) {
	key := t.Assembly + "." + t.Name + "." + name
	if _, ok := c.methods[key]; ok {
		return
	}

	var refs []metadata.TypeRef
	for _, tuple := range []*types.Tuple{sig.Params(), sig.Results()} {
		for i := 0; i < tuple.Len(); i++ {
			if ref := c.typeRef(tuple.At(i).Type()); !ref.IsZero() {
				refs = append(refs, ref)
			}
		}
	}

	m := &metadata.Method{
		Name:      name,
		IsStatic:  static,
		IsVirtual: virtual,
	}
	m.LoadBody = func() metadata.Body {
		return metadata.Body{Calls: c.calls[key], Types: refs}
	}
	c.methods[key] = m
	t.Methods = append(t.Methods, m)
}

// typeRef returns a reference to the project type t is built from, or a
// zero reference for basic and out-of-module types.
func (c *Collector) typeRef(t types.Type) metadata.TypeRef {
	for {
		switch tt := types.Unalias(t).(type) {
		case *types.Pointer:
			t = tt.Elem()
		case *types.Slice:
			t = tt.Elem()
		case *types.Array:
			t = tt.Elem()
		case *types.Map:
			t = tt.Elem()
		case *types.Chan:
			t = tt.Elem()
		case *types.Named:
			obj := tt.Obj()
			if obj.Pkg() == nil || !c.isProjectPackage(obj.Pkg().Path()) {
				return metadata.TypeRef{}
			}
			return metadata.TypeRef{
				Assembly: obj.Pkg().Path(),
				FullName: obj.Pkg().Name() + "." + obj.Name(),
			}
		default:
			return metadata.TypeRef{}
		}
	}
}

// CollectCallGraph builds SSA, runs VTA, and records call edges between
// project functions as method body references.
func (c *Collector) CollectCallGraph(pkgs []*packages.Package) {
	prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	for _, p := range ssaPkgs {
		if p != nil {
			p.Build()
		}
	}

	cg := vta.CallGraph(ssautil.AllFunctions(prog), nil)

	callgraph.GraphVisitEdges(cg, func(edge *callgraph.Edge) error {
		callerKey, _, ok := c.funcRef(edge.Caller.Func)
		if !ok {
			return nil
		}
		_, callee, ok := c.funcRef(edge.Callee.Func)
		if !ok {
			return nil
		}

		edgeKey := callerKey + "->" + callee.Type.String() + "::" + callee.Signature
		if c.seen[edgeKey] {
			return nil
		}
		c.seen[edgeKey] = true
		c.calls[callerKey] = append(c.calls[callerKey], callee)
		return nil
	})
}

// funcRef maps an SSA function onto the collected method it belongs to.
// Closures are attributed to their enclosing function and generic
// instances to their origin.
func (c *Collector) funcRef(fn *ssa.Function) (string, metadata.MethodRef, bool) {
	for fn.Parent() != nil {
		fn = fn.Parent()
	}
	if origin := fn.Origin(); origin != nil {
		fn = origin
	}
	if fn.Pkg == nil {
		return "", metadata.MethodRef{}, false
	}
	pkg := fn.Pkg.Pkg
	if !c.isProjectPackage(pkg.Path()) {
		return "", metadata.MethodRef{}, false
	}

	typeName := PackageType
	if recv := fn.Signature.Recv(); recv != nil {
		recvType := recv.Type()
		if ptr, ok := recvType.(*types.Pointer); ok {
			recvType = ptr.Elem()
		}
		named, ok := types.Unalias(recvType).(*types.Named)
		if !ok {
			return "", metadata.MethodRef{}, false
		}
		typeName = named.Obj().Name()
	}

	name, _, _ := strings.Cut(fn.Name(), "#")
	key := pkg.Path() + "." + typeName + "." + name
	if _, ok := c.methods[key]; !ok {
		return "", metadata.MethodRef{}, false
	}
	return key, metadata.MethodRef{
		Type:      metadata.TypeRef{Assembly: pkg.Path(), FullName: pkg.Name() + "." + typeName},
		Signature: metadata.Signature(name, nil),
	}, true
}

// CollectImplements records which project types implement which project
// interfaces, on T or *T.
func (c *Collector) CollectImplements(pkgs []*packages.Package) {
	type named struct {
		key string
		ref metadata.TypeRef
		typ types.Type
	}
	var ifaces, concretes []named

	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !c.isProjectPackage(pkg.PkgPath) || pkg.Types == nil {
			return
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			tn, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() || isGeneric(tn.Type()) {
				continue
			}
			n := named{key: pkg.PkgPath + "." + name, ref: c.typeRef(tn.Type()), typ: tn.Type()}
			if iface, ok := tn.Type().Underlying().(*types.Interface); ok {
				// skip empty interfaces
				if iface.NumMethods() > 0 {
					ifaces = append(ifaces, n)
				}
				continue
			}
			concretes = append(concretes, n)
		}
	})

	for _, concrete := range concretes {
		t := c.types[concrete.key]
		if t == nil {
			continue
		}
		for _, iface := range ifaces {
			it := iface.typ.Underlying().(*types.Interface)
			if types.Implements(concrete.typ, it) || types.Implements(types.NewPointer(concrete.typ), it) {
				t.Interfaces = append(t.Interfaces, iface.ref)
			}
		}
	}
}

// Build hands the collected types to a metadata builder. Project packages
// without any type still become (empty) assemblies.
func (c *Collector) Build() (*metadata.Graph, error) {
	b := metadata.NewBuilder()
	for _, p := range c.pkgs {
		b.AddAssembly(p)
	}
	for _, t := range c.order {
		if err := b.AddType(t); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Roots returns the entry points of the module: main.main and every
// package initializer.
func (c *Collector) Roots() []metadata.ID {
	var roots []metadata.ID
	for _, t := range c.order {
		if t.Name != PackageType {
			continue
		}
		for _, m := range t.Methods {
			if m.Name == "init" || (t.Namespace == "main" && m.Name == "main") {
				roots = append(roots, metadata.MethodID(t.Assembly, t.Namespace+"."+t.Name, m.Signature()))
			}
		}
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].String() < roots[j].String() })
	return roots
}

func isGeneric(t types.Type) bool {
	n, ok := t.(*types.Named)
	return ok && n.TypeParams().Len() > 0
}
