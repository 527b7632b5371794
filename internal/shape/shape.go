// Package shape classifies the field layout of a variant and renders the
// composite literal that builds it.
package shape

import (
	"go/ast"
	"strconv"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
)

// Of returns the shape of a variant's fields: unit without fields,
// positional when every field is embedded, named otherwise.
func Of(v decl.Variant) decl.Shape {
	if len(v.Fields) == 0 {
		return decl.ShapeUnit
	}
	for _, f := range v.Fields {
		if !f.Embedded {
			return decl.ShapeNamed
		}
	}
	return decl.ShapePositional
}

// Name returns the identifier a field is known by inside its shape:
// field<index> for positional fields, the embedded type name for embedded
// fields of a named shape, the declared name otherwise.
func Name(f decl.Field, index int, s decl.Shape) string {
	switch {
	case s == decl.ShapePositional:
		return "field" + strconv.Itoa(index)
	case f.Embedded:
		return EmbeddedName(f)
	default:
		return f.Name
	}
}

// EmbeddedName returns the implicit field name of an embedded field:
// the base name of its type without pointer, package qualifier or type
// arguments.
func EmbeddedName(f decl.Field) string {
	if f.Expr != nil {
		if name := baseName(f.Expr); name != "" {
			return name
		}
	}
	typ := strings.TrimLeft(strings.TrimSpace(f.Type), "*")
	if i := strings.IndexByte(typ, '['); i >= 0 {
		typ = typ[:i]
	}
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		typ = typ[i+1:]
	}
	return typ
}

func baseName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return baseName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return baseName(e.X)
	case *ast.IndexListExpr:
		return baseName(e.X)
	case *ast.ParenExpr:
		return baseName(e.X)
	default:
		return ""
	}
}

// Element is one initialized member of a literal.
type Element struct {
	Key   string
	Value string
}

// Literal renders the composite literal of typ for the given shape. Named
// shapes are keyed, positional shapes list values in declaration order.
func Literal(typ string, s decl.Shape, elems []Element) string {
	var b strings.Builder
	b.WriteString(typ)
	b.WriteByte('{')
	for i, e := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if s == decl.ShapeNamed {
			b.WriteString(e.Key)
			b.WriteString(": ")
		}
		b.WriteString(e.Value)
	}
	b.WriteByte('}')
	return b.String()
}
