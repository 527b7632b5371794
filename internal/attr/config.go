package attr

import (
	"fmt"
	"strings"
)

// FieldConfig is the validated outcome of a field's //demo: directive.
//
//sumtype:decl
type FieldConfig interface {
	isFieldConfig()
}

// None marks a field without directive: the constructor takes it as is.
type None struct{}

// Default fills the field with its zero value.
type Default struct{}

// Into accepts any value convertible to the field type.
type Into struct{}

// IntoIter accepts an iterator over Elems and collects it into the field.
// Elems holds one element type, or a key and a value type for maps.
type IntoIter struct {
	Elems []string
}

// Value splices Expr as the field initializer.
type Value struct {
	Expr string
}

func (None) isFieldConfig()     {}
func (Default) isFieldConfig()  {}
func (Into) isFieldConfig()     {}
func (IntoIter) isFieldConfig() {}
func (Value) isFieldConfig()    {}

// Visibility of the generated constructor.
type Visibility int

const (
	Exported Visibility = iota
	Unexported
)

// String returns the visibility spec that selects v.
func (v Visibility) String() string {
	if v == Unexported {
		return `""`
	}
	return `"pub"`
}

// TypeConfig is the validated outcome of a type's //demo: directive.
type TypeConfig struct {
	Visibility Visibility
}

// DefaultTypeConfig returns the configuration used when a type has no directive.
func DefaultTypeConfig() TypeConfig {
	return TypeConfig{Visibility: Exported}
}

// ParseVisibility parses a visibility spec: "pub" exports the constructor,
// the empty string keeps it private to the package.
func ParseVisibility(spec string) (Visibility, error) {
	switch strings.TrimSpace(spec) {
	case "":
		return Unexported, nil
	case "pub":
		return Exported, nil
	default:
		return Exported, fmt.Errorf("expected %q or %q", "pub", "")
	}
}
