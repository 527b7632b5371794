// Package diagnostic defines the generation-time errors reported by gen-demo.
//
// Every error is fatal for the subject type it was raised on: no constructor
// is emitted for that type. Errors print compiler style, prefixed with the
// source position of the offending declaration or directive.
package diagnostic

import (
	"fmt"
	"go/token"
)

// Kind classifies a diagnostic. A Kind is itself an error so callers can
// match with errors.Is(err, diagnostic.EmptyEnum).
type Kind int

const (
	UnsupportedShape Kind = iota + 1
	EmptyEnum
	DiscriminantUnsupported
	MultipleConfigAttributes
	UnrecognizedOption
	EmbeddedExpressionSyntaxError
	ImportConflict
)

// Code returns a stable identifier for the kind.
func (k Kind) Code() string {
	switch k {
	case UnsupportedShape:
		return "unsupported-shape"
	case EmptyEnum:
		return "empty-enum"
	case DiscriminantUnsupported:
		return "discriminant-unsupported"
	case MultipleConfigAttributes:
		return "multiple-config-attributes"
	case UnrecognizedOption:
		return "unrecognized-option"
	case EmbeddedExpressionSyntaxError:
		return "embedded-expression-syntax"
	case ImportConflict:
		return "import-conflict"
	default:
		return "unknown"
	}
}

func (k Kind) Error() string {
	return k.Code()
}

// Error is one diagnostic bound to a source position.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
	// Err is the underlying cause, e.g. a go/parser error.
	Err error
}

// New returns a diagnostic of the given kind at pos.
func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns a diagnostic that keeps cause reachable through errors.Unwrap.
func Wrap(kind Kind, pos token.Position, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
