package attr

import (
	"go/ast"
	"go/parser"
)

// ExprParser re-parses directive payloads as Go source fragments.
// Implementations fail with a syntax error when the text is malformed.
type ExprParser interface {
	ParseExpr(src string) (ast.Expr, error)
}

type goExprParser struct{}

// NewGoExprParser returns an ExprParser backed by go/parser.
func NewGoExprParser() ExprParser {
	return goExprParser{}
}

func (goExprParser) ParseExpr(src string) (ast.Expr, error) {
	return parser.ParseExpr(src)
}
