package parser

import (
	"go/ast"
	"go/parser"
	"go/types"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
)

// qualifier prints package-qualified types the way the declaring file
// refers to them and notes references to packages the file does not import.
type qualifier struct {
	self    string
	local   map[string]string
	missing bool
}

func (e *extractor) qualifier(file *ast.File) *qualifier {
	q := &qualifier{self: e.pkg.PkgPath, local: map[string]string{}}
	for _, imp := range e.imports[file] {
		switch {
		case imp.Name == "_":
		case imp.Name != "":
			q.local[imp.Path] = imp.Name
		case imp.PkgName != "":
			q.local[imp.Path] = imp.PkgName
		}
	}
	return q
}

func (q *qualifier) qualify(p *types.Package) string {
	if p == nil || p.Path() == q.self {
		return ""
	}
	if name, ok := q.local[p.Path()]; ok {
		if name == "." {
			return ""
		}
		return name
	}
	q.missing = true
	return p.Name()
}

// typeString prints t, or returns "" when the declaring file could not
// spell it.
func (q *qualifier) typeString(t types.Type) string {
	q.missing = false
	s := types.TypeString(t, q.qualify)
	if q.missing || strings.Contains(s, "invalid type") {
		return ""
	}
	return s
}

func (e *extractor) fields(st *ast.StructType, file *ast.File) []decl.Field {
	q := e.qualifier(file)
	var out []decl.Field
	for _, f := range st.Fields.List {
		base := decl.Field{
			Type:   e.text(f.Type),
			Expr:   f.Type,
			Detail: e.detail(f.Type, q),
			Attrs:  e.attributes(f.Doc, f.Comment),
		}
		if len(f.Names) == 0 {
			base.Embedded = true
			base.Pos = e.position(f.Type.Pos())
			out = append(out, base)
			continue
		}
		for _, name := range f.Names {
			field := base
			field.Name = name.Name
			field.Pos = e.position(name.Pos())
			out = append(out, field)
		}
	}
	return out
}

// typedFields lists the fields of a struct known only through type
// information, as in "type B A".
func (e *extractor) typedFields(st *types.Struct, file *ast.File) []decl.Field {
	q := e.qualifier(file)
	out := make([]decl.Field, 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		typ := q.typeString(v.Type())
		if typ == "" {
			typ = types.TypeString(v.Type(), q.qualify)
		}
		f := decl.Field{
			Embedded: v.Embedded(),
			Type:     typ,
			Detail:   analyze(v.Type(), q),
			Pos:      e.position(v.Pos()),
		}
		if !v.Embedded() {
			f.Name = v.Name()
		}
		if expr, err := parser.ParseExpr(typ); err == nil {
			f.Expr = expr
		}
		out = append(out, f)
	}
	return out
}

func (e *extractor) detail(expr ast.Expr, q *qualifier) decl.TypeDetail {
	if e.pkg.TypesInfo == nil {
		return decl.TypeDetail{}
	}
	return analyze(e.pkg.TypesInfo.TypeOf(expr), q)
}

func analyze(t types.Type, q *qualifier) decl.TypeDetail {
	if t == nil {
		return decl.TypeDetail{}
	}
	t = types.Unalias(t)
	var detail decl.TypeDetail
	switch t.(type) {
	case *types.TypeParam:
		return decl.TypeDetail{Kind: decl.TypeKindTypeParam}
	case *types.Named:
		detail.Named = true
	}

	under := t.Underlying()
	switch u := under.(type) {
	case *types.Basic:
		if u.Kind() == types.Invalid {
			return decl.TypeDetail{}
		}
		detail.Kind = decl.TypeKindBasic
		info := u.Info()
		switch {
		case info&types.IsBoolean != 0:
			detail.Basic = decl.BasicBool
		case info&types.IsNumeric != 0:
			detail.Basic = decl.BasicNumeric
		case info&types.IsString != 0:
			detail.Basic = decl.BasicString
		}
	case *types.Pointer:
		detail.Kind = decl.TypeKindPointer
	case *types.Struct:
		detail.Kind = decl.TypeKindStruct
	case *types.Slice:
		detail.Kind = decl.TypeKindSlice
	case *types.Map:
		detail.Kind = decl.TypeKindMap
	case *types.Array:
		detail.Kind = decl.TypeKindArray
		detail.ArrayLen = u.Len()
	case *types.Chan:
		detail.Kind = decl.TypeKindChan
	case *types.Signature:
		detail.Kind = decl.TypeKindFunc
	case *types.Interface:
		detail.Kind = decl.TypeKindInterface
	default:
		return decl.TypeDetail{}
	}
	detail.Underlying = q.typeString(under)
	return detail
}

func kindName(t types.Type) string {
	switch t.(type) {
	case *types.Pointer:
		return "pointer"
	case *types.Slice:
		return "slice"
	case *types.Map:
		return "map"
	case *types.Array:
		return "array"
	case *types.Chan:
		return "channel"
	case *types.Signature:
		return "func"
	default:
		return "unsupported"
	}
}
