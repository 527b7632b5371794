package classifier

import (
	"fmt"
	"strings"

	"github.com/seitarof/gen-demo/internal/attr"
	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/logger"
)

// DefaultRules returns built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		&BlankRule{},
		&MarkerRule{},
		&ConfigRule{},
	}
}

// BlankRule: a blank field cannot be keyed and is left out of the literal.
type BlankRule struct{}

func (r *BlankRule) Name() string { return "blank" }

func (r *BlankRule) Try(in Input) (Descriptor, bool) {
	if in.Field.Name != "_" {
		return Descriptor{}, false
	}
	return Descriptor{Field: in.Field, Key: in.Key, Omit: true}, true
}

// MarkerRule: placeholder markers ([0]T) are initialized automatically and
// never become parameters, whatever their directive says.
type MarkerRule struct {
	log logger.Logger
}

func (r *MarkerRule) Name() string { return "marker" }

func (r *MarkerRule) SetLogger(log logger.Logger) { r.log = log }

func (r *MarkerRule) Try(in Input) (Descriptor, bool) {
	if !IsMarker(in.Field) {
		return Descriptor{}, false
	}
	if _, ok := in.Config.(attr.None); !ok && r.log != nil {
		r.log.Debug("ignoring directive on placeholder field", "pos", in.Field.Pos, "field", in.Key)
	}
	return Descriptor{Field: in.Field, Key: in.Key, Init: compositeZero(in.Field.Type)}, true
}

// ConfigRule applies the field's directive.
type ConfigRule struct{}

func (r *ConfigRule) Name() string { return "config" }

func (r *ConfigRule) Try(in Input) (Descriptor, bool) {
	d := Descriptor{Field: in.Field, Key: in.Key}
	typ := in.Field.Type

	switch cfg := in.Config.(type) {
	case attr.None:
		name := in.Names.Param(in)
		d.Param = &Param{Name: name, Type: typ}
		d.Init = name
	case attr.Default:
		d.Init = ZeroValue(in.Field)
	case attr.Into:
		name := in.Names.Param(in)
		if !convertible(in.Field.Detail) {
			d.Param = &Param{Name: name, Type: typ}
			d.Init = name
			break
		}
		tp := in.Names.TypeParam(in)
		d.TypeParam = &decl.TypeParam{Name: tp, Constraint: "~" + in.Field.Detail.Underlying}
		d.Param = &Param{Name: name, Type: tp}
		d.Init = Convert(typ, name)
	case attr.IntoIter:
		name := in.Names.Param(in)
		d.Param, d.Init, d.Imports = collect(name, typ, cfg.Elems)
	case attr.Value:
		d.Init = cfg.Expr
	default:
		panic(fmt.Sprintf("classifier: unhandled field config %T", cfg))
	}
	return d, true
}

// convertible reports whether an Into field can accept a ~Underlying type
// parameter.
func convertible(detail decl.TypeDetail) bool {
	if detail.Underlying == "" {
		return false
	}
	switch detail.Kind {
	case decl.TypeKindBasic, decl.TypeKindPointer, decl.TypeKindSlice, decl.TypeKindMap,
		decl.TypeKindArray, decl.TypeKindChan, decl.TypeKindFunc:
		return true
	default:
		return false
	}
}

func collect(name, typ string, elems []string) (*Param, string, []string) {
	if len(elems) == 2 {
		param := &Param{Name: name, Type: "iter.Seq2[" + elems[0] + ", " + elems[1] + "]"}
		init := "maps.Collect(" + name + ")"
		if compact(typ) != compact("map["+elems[0]+"]"+elems[1]) {
			init = Convert(typ, init)
		}
		return param, init, []string{"iter", "maps"}
	}
	elem := elems[0]
	param := &Param{Name: name, Type: "iter.Seq[" + elem + "]"}
	init := "slices.Collect(" + name + ")"
	if compact(typ) != compact("[]"+elem) {
		init = Convert(typ, init)
	}
	return param, init, []string{"iter", "slices"}
}

// Convert renders the conversion of expr to typ, parenthesizing types that
// would otherwise bind wrongly.
func Convert(typ, expr string) string {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "<-") || strings.HasPrefix(typ, "func") {
		return "(" + typ + ")(" + expr + ")"
	}
	return typ + "(" + expr + ")"
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
