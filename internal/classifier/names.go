package classifier

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"

	"github.com/seitarof/gen-demo/internal/casing"
	"github.com/seitarof/gen-demo/internal/decl"
)

// Names hands out identifiers that are unique within one constructor and
// do not shadow anything the constructor body refers to.
type Names struct {
	taken map[string]struct{}
}

// NewNames reserves the given identifiers: type parameters of the subject
// type, package-level identifiers and package names visible in the
// generated file.
func NewNames(reserved ...string) *Names {
	n := &Names{taken: make(map[string]struct{}, len(reserved))}
	for _, name := range reserved {
		n.taken[name] = struct{}{}
	}
	return n
}

// Reserve marks name as used.
func (n *Names) Reserve(name string) {
	n.taken[name] = struct{}{}
}

// Param returns the parameter name of a field: lower camel case of the
// field name, field<index> for positional fields.
func (n *Names) Param(in Input) string {
	base := casing.LowerCamel(in.Key)
	if in.Shape == decl.ShapePositional || base == "" {
		base = "field" + strconv.Itoa(in.Index)
	}
	return n.unique(base)
}

// TypeParam returns a fresh type parameter name derived from a field.
func (n *Names) TypeParam(in Input) string {
	base := casing.UpperFirst(in.Key)
	if in.Shape == decl.ShapePositional || base == "" {
		base = "Field" + strconv.Itoa(in.Index)
	}
	return n.unique(base + "In")
}

func (n *Names) unique(name string) string {
	for n.clashes(name) {
		name += "_"
	}
	n.taken[name] = struct{}{}
	return name
}

func (n *Names) clashes(name string) bool {
	if token.IsKeyword(name) || types.Universe.Lookup(name) != nil {
		return true
	}
	_, ok := n.taken[name]
	return ok
}

// exprIdents returns the identifiers of a Go expression. Selected field and
// method names are included; reserving them only renames parameters.
func exprIdents(src string) []string {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil
	}
	var out []string
	ast.Inspect(expr, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.Name != "_" {
			out = append(out, id.Name)
		}
		return true
	})
	return out
}
