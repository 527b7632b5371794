// Package decl holds the declaration model consumed by the generator: a
// subject type, its constructible variants and their fields, as read from Go
// source by the parser.
package decl

import (
	"go/ast"
	"go/token"
	"strings"
)

// Kind is the structural category of a subject type.
type Kind int

const (
	KindStruct Kind = iota
	KindConstEnum
	KindSumEnum
	KindUnion
	KindUnsupported
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindConstEnum:
		return "const enum"
	case KindSumEnum:
		return "sum type"
	case KindUnion:
		return "union"
	default:
		return "unsupported"
	}
}

// IsEnum reports whether the kind has named variants.
func (k Kind) IsEnum() bool {
	return k == KindConstEnum || k == KindSumEnum
}

// TypeDeclaration is one subject type.
type TypeDeclaration struct {
	Name       string
	Pkg        Package
	TypeParams []TypeParam
	Kind       Kind
	// Detail explains an unsupported kind ("map type", "type union", ...).
	Detail   string
	Attrs    []Attribute
	Variants []Variant
	Imports  []Import
	// Scope lists the package-level identifiers of the declaring package.
	// Generated parameters must not shadow them.
	Scope []string
	Pos   token.Position
}

// Package identifies the package declaring a subject type.
type Package struct {
	Path string
	Name string
	Dir  string
}

// TypeParam is one type parameter with its constraint source text.
type TypeParam struct {
	Name       string
	Constraint string
}

// Import is one import spec of a declaring file.
type Import struct {
	// Name is the explicit import name, if any.
	Name string
	Path string
	// PkgName is the package name the import binds in the file.
	PkgName string
}

// Variant is one constructible shape: the struct itself or one enum arm.
type Variant struct {
	// Name is empty for the struct case.
	Name string
	// TypeName is the Go type constructed by the variant, or the constant
	// identifier for const-enum variants.
	TypeName string
	// TypeArgs are the variant type's own parameter names, used to instantiate it.
	TypeArgs []string
	Fields   []Field
	// Pointer is set for sum variants whose marker method has a pointer receiver.
	Pointer bool
	// Const is set for const-enum variants.
	Const bool
	// Discriminant is the source text of an explicit constant value.
	Discriminant string
	Pos          token.Position
}

// Field is one member of a variant.
type Field struct {
	Name     string
	Embedded bool
	Type     string
	Expr     ast.Expr
	Detail   TypeDetail
	Attrs    []Attribute
	Pos      token.Position
}

// Attribute is one comment line attached to a type or a field.
type Attribute struct {
	Text string
	Pos  token.Position
}

// Directive returns the comment text without the leading "//" and whether the
// line is a Go directive comment ("//name:..." with no space).
func (a Attribute) Directive() (string, bool) {
	body, ok := strings.CutPrefix(a.Text, "//")
	if !ok || body == "" || body[0] == ' ' || body[0] == '\t' {
		return body, false
	}
	return body, true
}

// TypeDetail keeps simplified type metadata for classification.
type TypeDetail struct {
	Kind TypeKind
	// Basic narrows TypeKindBasic.
	Basic BasicKind
	// ArrayLen is set for TypeKindArray.
	ArrayLen int64
	// Underlying is the qualified source text of the underlying type.
	Underlying string
	// Named is set when the declared type is a defined (named) type.
	Named bool
}

// TypeKind is coarse-grained type category.
type TypeKind int

const (
	TypeKindUnknown TypeKind = iota
	TypeKindBasic
	TypeKindPointer
	TypeKindStruct
	TypeKindSlice
	TypeKindMap
	TypeKindArray
	TypeKindChan
	TypeKindFunc
	TypeKindInterface
	TypeKindTypeParam
)

// BasicKind narrows basic types by zero value.
type BasicKind int

const (
	BasicOther BasicKind = iota
	BasicBool
	BasicNumeric
	BasicString
)

// Shape is the structural layout of a variant's fields.
type Shape int

const (
	ShapeUnit Shape = iota
	ShapePositional
	ShapeNamed
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapePositional:
		return "positional"
	default:
		return "named"
	}
}
