// Package attr parses //demo: configuration directives attached to subject
// types and their fields.
//
// A directive line holds the items that configure one declaration:
//
//	//demo:default
//	//demo:into
//	//demo:into_iter = "string"
//	//demo:value = "1 + 2"
//	//demo:visibility = ""
//
// Items are separated by commas and the last item of a line wins. At most one
// directive line is accepted per declaration.
package attr

import (
	"errors"
	"fmt"
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/diagnostic"
)

// Prefix starts every configuration directive line.
const Prefix = "//demo:"

// Parser validates directive lines into configurations.
type Parser struct {
	exprs ExprParser
}

// NewParser returns a Parser that re-parses payloads with exprs.
func NewParser(exprs ExprParser) *Parser {
	if exprs == nil {
		exprs = NewGoExprParser()
	}
	return &Parser{exprs: exprs}
}

type item struct {
	name     string
	value    string
	hasValue bool
}

// ParseField returns the configuration of a field. Fields without a directive
// line yield None.
func (p *Parser) ParseField(attrs []decl.Attribute) (FieldConfig, error) {
	line, ok, err := single(attrs, "field")
	if err != nil || !ok {
		return None{}, err
	}
	items, err := parseItems(line)
	if err != nil {
		return nil, err
	}
	var cfg FieldConfig = None{}
	for _, it := range items {
		switch it.name {
		case "default":
			if it.hasValue {
				return nil, invalidKeyValue(line, it)
			}
			cfg = Default{}
		case "into":
			if it.hasValue {
				return nil, invalidKeyValue(line, it)
			}
			cfg = Into{}
		case "into_iter":
			if !it.hasValue {
				return nil, invalidMarker(line, it)
			}
			elems, err := p.parseElems(line, it.value)
			if err != nil {
				return nil, err
			}
			cfg = IntoIter{Elems: elems}
		case "value":
			if !it.hasValue {
				return nil, invalidMarker(line, it)
			}
			if _, err := p.exprs.ParseExpr(it.value); err != nil {
				return nil, diagnostic.Wrap(diagnostic.EmbeddedExpressionSyntaxError, line.Pos, err,
					"invalid expression in Demo directive: `%s`", it.value)
			}
			cfg = Value{Expr: strings.TrimSpace(it.value)}
		default:
			if it.hasValue {
				return nil, invalidKeyValue(line, it)
			}
			return nil, invalidMarker(line, it)
		}
	}
	return cfg, nil
}

// ParseType returns the configuration of a subject type. Types without a
// directive line yield DefaultTypeConfig.
func (p *Parser) ParseType(attrs []decl.Attribute) (TypeConfig, error) {
	cfg := DefaultTypeConfig()
	line, ok, err := single(attrs, "type")
	if err != nil || !ok {
		return cfg, err
	}
	items, err := parseItems(line)
	if err != nil {
		return cfg, err
	}
	for _, it := range items {
		if it.name != "visibility" {
			if it.hasValue {
				return cfg, invalidKeyValue(line, it)
			}
			return cfg, invalidMarker(line, it)
		}
		if !it.hasValue {
			return cfg, invalidMarker(line, it)
		}
		vis, err := ParseVisibility(it.value)
		if err != nil {
			return cfg, diagnostic.Wrap(diagnostic.EmbeddedExpressionSyntaxError, line.Pos, err,
				"invalid visibility in Demo directive: `%s`", it.value)
		}
		cfg.Visibility = vis
	}
	return cfg, nil
}

// IsDirective reports whether a is a configuration directive line.
func IsDirective(a decl.Attribute) bool {
	return strings.HasPrefix(a.Text, Prefix)
}

func single(attrs []decl.Attribute, what string) (decl.Attribute, bool, error) {
	var found []decl.Attribute
	for _, a := range attrs {
		if IsDirective(a) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return decl.Attribute{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		return decl.Attribute{}, false, diagnostic.New(diagnostic.MultipleConfigAttributes, found[1].Pos,
			"expected at most one Demo directive per %s, found %d", what, len(found))
	}
}

// parseItems tokenises the body of one directive line.
func parseItems(line decl.Attribute) ([]item, error) {
	body := strings.TrimPrefix(line.Text, Prefix)
	if strings.TrimSpace(body) == "" {
		return nil, diagnostic.New(diagnostic.UnrecognizedOption, line.Pos, "invalid Demo directive, expected Demo(..)")
	}

	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(body))
	var scanErr error
	var s scanner.Scanner
	s.Init(file, []byte(body), func(_ token.Position, msg string) {
		if scanErr == nil {
			scanErr = errors.New(msg)
		}
	}, 0)

	next := func() (token.Token, string) {
		for {
			_, tok, lit := s.Scan()
			// the scanner inserts a semicolon at end of input
			if tok == token.SEMICOLON && lit == "\n" {
				continue
			}
			return tok, lit
		}
	}
	malformed := func(format string, args ...any) error {
		if scanErr != nil {
			return diagnostic.Wrap(diagnostic.UnrecognizedOption, line.Pos, scanErr, "malformed Demo directive")
		}
		return diagnostic.New(diagnostic.UnrecognizedOption, line.Pos, format, args...)
	}

	var items []item
	tok, lit := next()
	for tok != token.EOF {
		if !isName(tok) {
			return nil, malformed("malformed Demo directive: unexpected %s", describe(tok, lit))
		}
		it := item{name: lit}
		for tok, lit = next(); tok == token.PERIOD; tok, lit = next() {
			tok, lit = next()
			if !isName(tok) {
				return nil, malformed("malformed Demo directive: unexpected %s", describe(tok, lit))
			}
			it.name += "." + lit
		}
		switch tok {
		case token.ASSIGN:
			tok, lit = next()
			if tok != token.STRING {
				return nil, malformed("non-string literal value in Demo directive")
			}
			v, err := strconv.Unquote(lit)
			if err != nil {
				return nil, diagnostic.Wrap(diagnostic.UnrecognizedOption, line.Pos, err, "malformed string in Demo directive")
			}
			it.value, it.hasValue = v, true
			tok, lit = next()
		case token.LPAREN:
			return nil, diagnostic.New(diagnostic.UnrecognizedOption, line.Pos,
				"invalid Demo directive: Demo(%s(..))", it.name)
		}
		items = append(items, it)
		switch tok {
		case token.COMMA:
			tok, lit = next()
		case token.EOF:
		default:
			return nil, malformed("malformed Demo directive: unexpected %s", describe(tok, lit))
		}
	}
	if scanErr != nil {
		return nil, diagnostic.Wrap(diagnostic.UnrecognizedOption, line.Pos, scanErr, "malformed Demo directive")
	}
	return items, nil
}

// parseElems accepts an element type, or a "K, V" pair for two-valued iterators.
func (p *Parser) parseElems(line decl.Attribute, src string) ([]string, error) {
	_, err := p.exprs.ParseExpr(src)
	if err == nil {
		return []string{strings.TrimSpace(src)}, nil
	}
	pair := "_[" + src + "]"
	if expr, perr := p.exprs.ParseExpr(pair); perr == nil {
		if ix, ok := expr.(*ast.IndexListExpr); ok && len(ix.Indices) == 2 {
			return []string{sourceOf(pair, ix.Indices[0]), sourceOf(pair, ix.Indices[1])}, nil
		}
	}
	return nil, diagnostic.Wrap(diagnostic.EmbeddedExpressionSyntaxError, line.Pos, err,
		"invalid type in Demo directive: `%s`", src)
}

// sourceOf slices the text of n out of src, parsed with a fresh file set
// whose base is 1.
func sourceOf(src string, n ast.Node) string {
	start, end := int(n.Pos())-1, int(n.End())-1
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return strings.TrimSpace(src[start:end])
}

func invalidMarker(line decl.Attribute, it item) error {
	return diagnostic.New(diagnostic.UnrecognizedOption, line.Pos, "invalid Demo directive: Demo(%s)", it.name)
}

func invalidKeyValue(line decl.Attribute, it item) error {
	return diagnostic.New(diagnostic.UnrecognizedOption, line.Pos, "invalid Demo directive: Demo(%s = ..)", it.name)
}

// isName accepts keywords too: "default" is an item name.
func isName(tok token.Token) bool {
	return tok == token.IDENT || tok.IsKeyword()
}

func describe(tok token.Token, lit string) string {
	if lit != "" {
		return fmt.Sprintf("%s %q", tok, lit)
	}
	return fmt.Sprintf("%q", tok.String())
}
