package classifier

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/seitarof/gen-demo/internal/decl"
)

// IsMarker reports whether a field is a placeholder marker: a zero-length
// array, or a defined type whose underlying type is one.
func IsMarker(f decl.Field) bool {
	if f.Detail.Kind == decl.TypeKindArray {
		return f.Detail.ArrayLen == 0
	}
	if f.Detail.Kind != decl.TypeKindUnknown {
		return false
	}
	arr, ok := f.Expr.(*ast.ArrayType)
	if !ok || arr.Len == nil {
		return false
	}
	lit, ok := arr.Len.(*ast.BasicLit)
	return ok && lit.Kind == token.INT && strings.Trim(lit.Value, "0_") == "" && lit.Value != ""
}

// ZeroValue returns the zero value expression of a field's type.
func ZeroValue(f decl.Field) string {
	switch f.Detail.Kind {
	case decl.TypeKindBasic:
		switch f.Detail.Basic {
		case decl.BasicBool:
			return "false"
		case decl.BasicNumeric:
			return "0"
		case decl.BasicString:
			return `""`
		}
	case decl.TypeKindPointer, decl.TypeKindSlice, decl.TypeKindMap, decl.TypeKindChan,
		decl.TypeKindFunc, decl.TypeKindInterface:
		return "nil"
	case decl.TypeKindStruct, decl.TypeKindArray:
		return compositeZero(f.Type)
	case decl.TypeKindUnknown:
		if z, ok := syntacticZero(f.Expr, f.Type); ok {
			return z
		}
	}
	return genericZero(f.Type)
}

// syntacticZero derives a zero value from the type expression alone, used
// when the package did not type-check.
func syntacticZero(expr ast.Expr, typ string) (string, bool) {
	switch e := expr.(type) {
	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return "nil", true
	case *ast.ArrayType:
		if e.Len == nil {
			return "nil", true
		}
		return compositeZero(typ), true
	case *ast.StructType:
		return compositeZero(typ), true
	case *ast.Ident:
		switch e.Name {
		case "bool":
			return "false", true
		case "string":
			return `""`, true
		case "int", "int8", "int16", "int32", "int64",
			"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
			"float32", "float64", "complex64", "complex128", "byte", "rune":
			return "0", true
		case "error", "any":
			return "nil", true
		}
	}
	return "", false
}

func compositeZero(typ string) string {
	return typ + "{}"
}

func genericZero(typ string) string {
	return "*new(" + typ + ")"
}
