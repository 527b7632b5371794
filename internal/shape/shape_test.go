package shape

import (
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-demo/internal/decl"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name   string
		fields []decl.Field
		want   decl.Shape
	}{
		{name: "unit", want: decl.ShapeUnit},
		{name: "positional", fields: []decl.Field{{Embedded: true, Type: "int32"}, {Embedded: true, Type: "string"}}, want: decl.ShapePositional},
		{name: "named", fields: []decl.Field{{Name: "X", Type: "int32"}, {Name: "Y", Type: "string"}}, want: decl.ShapeNamed},
		{name: "mixed", fields: []decl.Field{{Embedded: true, Type: "Base"}, {Name: "Y", Type: "string"}}, want: decl.ShapeNamed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Of(decl.Variant{Fields: tt.fields}))
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "field1", Name(decl.Field{Embedded: true, Type: "string"}, 1, decl.ShapePositional))
	assert.Equal(t, "Y", Name(decl.Field{Name: "Y", Type: "string"}, 1, decl.ShapeNamed))
	assert.Equal(t, "Base", Name(decl.Field{Embedded: true, Type: "*Base"}, 0, decl.ShapeNamed))
}

func TestEmbeddedName(t *testing.T) {
	for src, want := range map[string]string{
		"Base":             "Base",
		"*Base":            "Base",
		"sync.Mutex":       "Mutex",
		"*pkg.Box[int]":    "Box",
		"Pair[K, V]":       "Pair",
		"pkg.Pair[int, V]": "Pair",
	} {
		expr, err := parser.ParseExpr(src)
		require.NoError(t, err)
		assert.Equal(t, want, EmbeddedName(decl.Field{Embedded: true, Type: src, Expr: expr}), src)
		assert.Equal(t, want, EmbeddedName(decl.Field{Embedded: true, Type: src}), src+" without syntax")
	}
}

func TestLiteral(t *testing.T) {
	elems := []Element{{Key: "X", Value: "x"}, {Key: "Y", Value: `"y"`}}
	assert.Equal(t, `Bar{X: x, Y: "y"}`, Literal("Bar", decl.ShapeNamed, elems))
	assert.Equal(t, `Moog{x, "y"}`, Literal("Moog", decl.ShapePositional, elems))
	assert.Equal(t, "Foo{}", Literal("Foo", decl.ShapeUnit, nil))
	assert.Equal(t, "Box[T]{V: v}", Literal("Box[T]", decl.ShapeNamed, []Element{{Key: "V", Value: "v"}}))
}
