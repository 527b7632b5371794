package parser

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-demo/internal/decl"
)

// typeSpec is one package-level type declaration with its context.
type typeSpec struct {
	spec  *ast.TypeSpec
	doc   *ast.CommentGroup
	file  *ast.File
	order int
}

// receiver is one method declaration, keyed by method name.
type receiver struct {
	typeName string
	pointer  bool
}

// constSpec is one constant declared with an explicit or repeated type.
type constSpec struct {
	name     *ast.Ident
	typeName string
	value    ast.Expr
	leading  bool
}

type extractor struct {
	pkg     *packages.Package
	specs   map[string]*typeSpec
	ordered []*typeSpec
	methods map[string][]receiver
	consts  []constSpec
	imports map[*ast.File][]decl.Import
	scope   []string
}

func extract(pkg *packages.Package) *Package {
	e := &extractor{
		pkg:     pkg,
		specs:   map[string]*typeSpec{},
		methods: map[string][]receiver{},
		imports: map[*ast.File][]decl.Import{},
	}
	e.scan()
	e.scope = e.packageScope()

	out := &Package{Package: decl.Package{
		Path: pkg.PkgPath,
		Name: pkg.Name,
		Dir:  packageDir(pkg),
	}}
	for _, ts := range e.ordered {
		out.Types = append(out.Types, e.declaration(ts))
	}
	return out
}

// scan indexes type specs, methods and constants of every file.
func (e *extractor) scan() {
	for _, file := range e.pkg.Syntax {
		e.imports[file] = e.fileImports(file)
		for _, d := range file.Decls {
			switch d := d.(type) {
			case *ast.GenDecl:
				switch d.Tok {
				case token.TYPE:
					for _, s := range d.Specs {
						spec := s.(*ast.TypeSpec)
						doc := spec.Doc
						if doc == nil && d.Lparen == token.NoPos {
							doc = d.Doc
						}
						ts := &typeSpec{spec: spec, doc: doc, file: file, order: len(e.ordered)}
						e.specs[spec.Name.Name] = ts
						e.ordered = append(e.ordered, ts)
					}
				case token.CONST:
					e.scanConsts(d)
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}
				if name, pointer := receiverType(d.Recv.List[0].Type); name != "" {
					e.methods[d.Name.Name] = append(e.methods[d.Name.Name], receiver{typeName: name, pointer: pointer})
				}
			}
		}
	}
}

// scanConsts follows the implicit repetition rule: a spec without values
// repeats the type and values of the last spec that had them.
func (e *extractor) scanConsts(d *ast.GenDecl) {
	var typeName string
	for i, s := range d.Specs {
		spec := s.(*ast.ValueSpec)
		if len(spec.Values) > 0 {
			typeName = identName(spec.Type)
		}
		for j, name := range spec.Names {
			c := constSpec{name: name, typeName: typeName, leading: i == 0}
			if j < len(spec.Values) {
				c.value = spec.Values[j]
			}
			e.consts = append(e.consts, c)
		}
	}
}

// packageScope returns the sorted package-level identifiers. The syntax is
// walked as well as the type-checked scope because a package with errors
// may be missing objects.
func (e *extractor) packageScope() []string {
	seen := map[string]bool{}
	if e.pkg.Types != nil {
		for _, name := range e.pkg.Types.Scope().Names() {
			seen[name] = true
		}
	}
	for _, file := range e.pkg.Syntax {
		for _, d := range file.Decls {
			switch d := d.(type) {
			case *ast.GenDecl:
				for _, s := range d.Specs {
					switch s := s.(type) {
					case *ast.TypeSpec:
						seen[s.Name.Name] = true
					case *ast.ValueSpec:
						for _, name := range s.Names {
							seen[name.Name] = true
						}
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					seen[d.Name.Name] = true
				}
			}
		}
	}
	delete(seen, "_")
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *extractor) fileImports(file *ast.File) []decl.Import {
	names := map[string]string{}
	if e.pkg.Types != nil {
		for _, imp := range e.pkg.Types.Imports() {
			names[imp.Path()] = imp.Name()
		}
	}
	out := make([]decl.Import, 0, len(file.Imports))
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := decl.Import{Path: path, PkgName: names[path]}
		if spec.Name != nil {
			imp.Name = spec.Name.Name
		}
		out = append(out, imp)
	}
	return out
}

func (e *extractor) declaration(ts *typeSpec) decl.TypeDeclaration {
	spec := ts.spec
	td := decl.TypeDeclaration{
		Name: spec.Name.Name,
		Pkg: decl.Package{
			Path: e.pkg.PkgPath,
			Name: e.pkg.Name,
			Dir:  packageDir(e.pkg),
		},
		TypeParams: e.typeParams(spec.TypeParams),
		Attrs:      e.attributes(ts.doc),
		Imports:    e.imports[ts.file],
		Scope:      e.scope,
		Pos:        e.position(spec.Name.Pos()),
	}
	if spec.Assign.IsValid() {
		td.Kind, td.Detail = decl.KindUnsupported, "type alias"
		return td
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		td.Kind = decl.KindStruct
		td.Variants = []decl.Variant{{
			TypeName: td.Name,
			Fields:   e.fields(t, ts.file),
			Pos:      td.Pos,
		}}
	case *ast.InterfaceType:
		e.sumType(&td, spec, t)
	default:
		e.definedType(&td, ts)
	}
	return td
}

// sumType classifies an interface: a type union is a constraint, an
// unexported niladic method seals the interface and its implementers in the
// package become variants.
func (e *extractor) sumType(td *decl.TypeDeclaration, spec *ast.TypeSpec, iface *ast.InterfaceType) {
	if e.isConstraint(spec, iface) {
		td.Kind, td.Detail = decl.KindUnion, "type union"
		return
	}
	marker := markerMethod(iface)
	if marker == "" {
		td.Kind, td.Detail = decl.KindUnsupported, "interface without an unexported marker method"
		return
	}
	td.Kind = decl.KindSumEnum

	seen := map[string]bool{}
	var variants []*typeSpec
	pointers := map[string]bool{}
	for _, r := range e.methods[marker] {
		vs, ok := e.specs[r.typeName]
		if !ok || seen[r.typeName] || r.typeName == td.Name {
			continue
		}
		seen[r.typeName] = true
		pointers[r.typeName] = r.pointer
		variants = append(variants, vs)
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].order < variants[j].order })

	params := make([]string, 0, len(td.TypeParams))
	for _, tp := range td.TypeParams {
		params = append(params, tp.Name)
	}
	for _, vs := range variants {
		st, ok := vs.spec.Type.(*ast.StructType)
		if !ok || vs.spec.Assign.IsValid() {
			td.Kind, td.Detail = decl.KindUnsupported, "variant "+vs.spec.Name.Name+" is not a struct type"
			td.Variants = nil
			return
		}
		if own := fieldNames(vs.spec.TypeParams); !equalStrings(own, params) {
			td.Kind = decl.KindUnsupported
			td.Detail = "variant " + vs.spec.Name.Name + " must declare the type parameters [" + strings.Join(params, ", ") + "]"
			td.Variants = nil
			return
		}
		td.Imports = mergeImports(td.Imports, e.imports[vs.file])
		td.Variants = append(td.Variants, decl.Variant{
			Name:     vs.spec.Name.Name,
			TypeName: vs.spec.Name.Name,
			TypeArgs: params,
			Fields:   e.fields(st, vs.file),
			Pointer:  pointers[vs.spec.Name.Name],
			Pos:      e.position(vs.spec.Name.Pos()),
		})
	}
}

// definedType handles type definitions over a non-literal struct or
// interface: basic types are const enums, struct and interface underlying
// types are resolved through type information.
func (e *extractor) definedType(td *decl.TypeDeclaration, ts *typeSpec) {
	under := e.underlying(ts.spec)
	switch u := under.(type) {
	case *types.Basic:
		if u.Kind() == types.Invalid {
			break
		}
		e.constEnum(td)
		return
	case *types.Struct:
		td.Kind = decl.KindStruct
		td.Variants = []decl.Variant{{TypeName: td.Name, Fields: e.typedFields(u, ts.file), Pos: td.Pos}}
		return
	case *types.Interface:
		td.Kind, td.Detail = decl.KindUnsupported, "interface type defined from another type"
		if !u.IsMethodSet() {
			td.Kind, td.Detail = decl.KindUnion, "type union"
		}
		return
	case nil:
	default:
		td.Kind, td.Detail = decl.KindUnsupported, kindName(u)+" type"
		return
	}

	// no type information: decide from syntax alone
	switch t := ts.spec.Type.(type) {
	case *ast.Ident:
		if isBasicName(t.Name) {
			e.constEnum(td)
			return
		}
		td.Kind, td.Detail = decl.KindUnsupported, "unresolved type "+t.Name
	default:
		td.Kind, td.Detail = decl.KindUnsupported, syntaxKindName(ts.spec.Type)+" type"
	}
}

// constEnum collects the constants declared with the enum type as variants.
func (e *extractor) constEnum(td *decl.TypeDeclaration) {
	td.Kind = decl.KindConstEnum
	for _, c := range e.consts {
		if c.typeName != td.Name || c.name.Name == "_" {
			continue
		}
		v := decl.Variant{
			Name:     c.name.Name,
			TypeName: c.name.Name,
			Const:    true,
			Pos:      e.position(c.name.Pos()),
		}
		if c.value != nil && !(c.leading && isIota(c.value)) {
			v.Discriminant = e.text(c.value)
		}
		td.Variants = append(td.Variants, v)
	}
}

func (e *extractor) isConstraint(spec *ast.TypeSpec, iface *ast.InterfaceType) bool {
	if e.pkg.TypesInfo != nil {
		if obj, ok := e.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName); ok && obj != nil {
			if it, ok := obj.Type().Underlying().(*types.Interface); ok {
				return !it.IsMethodSet()
			}
		}
	}
	for _, m := range iface.Methods.List {
		if len(m.Names) > 0 {
			continue
		}
		switch m.Type.(type) {
		case *ast.BinaryExpr, *ast.UnaryExpr:
			return true
		}
	}
	return false
}

func markerMethod(iface *ast.InterfaceType) string {
	for _, m := range iface.Methods.List {
		if len(m.Names) != 1 || m.Names[0].IsExported() {
			continue
		}
		fn, ok := m.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		if fn.Params.NumFields() == 0 && fn.Results.NumFields() == 0 {
			return m.Names[0].Name
		}
	}
	return ""
}

func (e *extractor) underlying(spec *ast.TypeSpec) types.Type {
	if e.pkg.TypesInfo == nil {
		return nil
	}
	obj, ok := e.pkg.TypesInfo.Defs[spec.Name].(*types.TypeName)
	if !ok || obj == nil {
		return nil
	}
	under := obj.Type().Underlying()
	if b, ok := under.(*types.Basic); ok && b.Kind() == types.Invalid {
		return nil
	}
	return under
}

func (e *extractor) typeParams(list *ast.FieldList) []decl.TypeParam {
	if list == nil {
		return nil
	}
	var out []decl.TypeParam
	for _, f := range list.List {
		constraint := e.text(f.Type)
		for _, name := range f.Names {
			out = append(out, decl.TypeParam{Name: name.Name, Constraint: constraint})
		}
	}
	return out
}

func (e *extractor) attributes(groups ...*ast.CommentGroup) []decl.Attribute {
	var out []decl.Attribute
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			out = append(out, decl.Attribute{Text: c.Text, Pos: e.position(c.Slash)})
		}
	}
	return out
}

func (e *extractor) position(pos token.Pos) token.Position {
	if e.pkg.Fset == nil {
		return token.Position{}
	}
	return e.pkg.Fset.Position(pos)
}

func (e *extractor) text(expr ast.Expr) string {
	var buf bytes.Buffer
	fset := e.pkg.Fset
	if fset == nil {
		fset = token.NewFileSet()
	}
	if err := printer.Fprint(&buf, fset, expr); err != nil {
		return types.ExprString(expr)
	}
	return buf.String()
}

// receiverType returns the base type name of a method receiver.
func receiverType(expr ast.Expr) (string, bool) {
	pointer := false
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.IndexExpr:
		expr = t.X
	case *ast.IndexListExpr:
		expr = t.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name, pointer
	}
	return "", false
}

func identName(expr ast.Expr) string {
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

func isIota(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "iota"
}

func fieldNames(list *ast.FieldList) []string {
	if list == nil {
		return nil
	}
	var out []string
	for _, f := range list.List {
		for _, name := range f.Names {
			out = append(out, name.Name)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mergeImports(dst, src []decl.Import) []decl.Import {
	dst = slices.Clone(dst)
	for _, imp := range src {
		dup := false
		for _, have := range dst {
			if have.Path == imp.Path && have.Name == imp.Name {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, imp)
		}
	}
	return dst
}

var basicNames = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

func isBasicName(name string) bool {
	return basicNames[name]
}

func syntaxKindName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.MapType:
		return "map"
	case *ast.ArrayType:
		if t.Len == nil {
			return "slice"
		}
		return "array"
	case *ast.ChanType:
		return "channel"
	case *ast.FuncType:
		return "func"
	case *ast.StarExpr:
		return "pointer"
	default:
		return "unsupported"
	}
}
