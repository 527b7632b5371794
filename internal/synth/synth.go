// Package synth assembles generated constructors from a subject type's
// declaration: one constructor per struct, one per enum variant.
package synth

import (
	"slices"
	"strings"

	"github.com/seitarof/gen-demo/internal/attr"
	"github.com/seitarof/gen-demo/internal/casing"
	"github.com/seitarof/gen-demo/internal/classifier"
	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/diagnostic"
	"github.com/seitarof/gen-demo/internal/lint"
	"github.com/seitarof/gen-demo/internal/logger"
	"github.com/seitarof/gen-demo/internal/shape"
)

// Constructor is one generated constructor function.
type Constructor struct {
	Name string
	// Doc is the documentation line, without comment markers.
	Doc string
	// Lints are linter directives placed between the doc and the function.
	Lints      []string
	TypeParams []decl.TypeParam
	Params     []classifier.Param
	Result     string
	// Body is the returned expression.
	Body     string
	Imports  []string
	Exported bool
	// Type and Variant name what the constructor builds.
	Type    string
	Variant string
}

// Synthesizer turns declarations into constructors.
type Synthesizer struct {
	attrs      *attr.Parser
	classifier *classifier.Classifier
	log        logger.Logger
}

// New builds a synthesizer. Nil collaborators fall back to defaults.
func New(attrs *attr.Parser, c *classifier.Classifier, log logger.Logger) *Synthesizer {
	if attrs == nil {
		attrs = attr.NewParser(nil)
	}
	if log == nil {
		log = logger.Discard()
	}
	if c == nil {
		c = classifier.New(attrs, log, classifier.DefaultRules()...)
	}
	return &Synthesizer{attrs: attrs, classifier: c, log: log}
}

// Synthesize returns the constructors of td in variant order. Any error
// aborts the whole type.
func (s *Synthesizer) Synthesize(td decl.TypeDeclaration) ([]Constructor, error) {
	cfg, err := s.attrs.ParseType(td.Attrs)
	if err != nil {
		return nil, err
	}

	switch td.Kind {
	case decl.KindUnion:
		return nil, diagnostic.New(diagnostic.UnsupportedShape, td.Pos,
			"Demo cannot be derived for %s: unions are not supported", td.Name)
	case decl.KindUnsupported:
		detail := td.Detail
		if detail == "" {
			detail = "unsupported type"
		}
		return nil, diagnostic.New(diagnostic.UnsupportedShape, td.Pos,
			"Demo cannot be derived for %s: %s", td.Name, detail)
	}
	if td.Kind.IsEnum() && len(td.Variants) == 0 {
		return nil, diagnostic.New(diagnostic.EmptyEnum, td.Pos,
			"Demo cannot be implemented for enums with zero variants: %s", td.Name)
	}

	lints := lint.Collect(td.Attrs)
	out := make([]Constructor, 0, len(td.Variants))
	for _, v := range td.Variants {
		if v.Discriminant != "" {
			return nil, diagnostic.New(diagnostic.DiscriminantUnsupported, v.Pos,
				"Demo cannot be implemented for enums with discriminants: %s = %s", v.TypeName, v.Discriminant)
		}
		c, err := s.variant(td, v, cfg, lints)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	s.log.Debug("synthesized constructors", "type", td.Name, "count", len(out), "visibility", cfg.Visibility)
	return out, nil
}

func (s *Synthesizer) variant(td decl.TypeDeclaration, v decl.Variant, cfg attr.TypeConfig, lints []string) (Constructor, error) {
	names := classifier.NewNames(reserved(td)...)
	descs, err := s.classifier.Classify(v, names)
	if err != nil {
		return Constructor{}, err
	}

	c := Constructor{
		Name:       Name(td, v, cfg.Visibility),
		Lints:      slices.Clone(lints),
		TypeParams: slices.Clone(td.TypeParams),
		Result:     instance(td.Name, paramNames(td.TypeParams)),
		Exported:   cfg.Visibility == attr.Exported,
		Type:       td.Name,
		Variant:    v.Name,
	}
	c.Doc = c.Name + " constructs a demo " + subject(td, v) + "."

	elems := make([]shape.Element, 0, len(descs))
	for _, d := range descs {
		if d.TypeParam != nil {
			c.TypeParams = append(c.TypeParams, *d.TypeParam)
		}
		if d.Param != nil {
			c.Params = append(c.Params, *d.Param)
		}
		for _, imp := range d.Imports {
			if !slices.Contains(c.Imports, imp) {
				c.Imports = append(c.Imports, imp)
			}
		}
		if !d.Omit {
			elems = append(elems, shape.Element{Key: d.Key, Value: d.Init})
		}
	}
	c.Body = construction(td, v, elems)
	return c, nil
}

// Name returns the constructor name of a variant: Demo<Type> for structs,
// Demo<Type>_<snake_variant> for enum variants.
func Name(td decl.TypeDeclaration, v decl.Variant, vis attr.Visibility) string {
	name := "Demo" + casing.UpperFirst(td.Name)
	if v.Name != "" {
		name += "_" + casing.ToSnake(v.Name)
	}
	if vis == attr.Unexported {
		name = "d" + strings.TrimPrefix(name, "D")
	}
	return name
}

func subject(td decl.TypeDeclaration, v decl.Variant) string {
	if v.Name == "" {
		return td.Name
	}
	return td.Name + "." + v.Name
}

func construction(td decl.TypeDeclaration, v decl.Variant, elems []shape.Element) string {
	if v.Const {
		return v.TypeName
	}
	typ := instance(td.Name, paramNames(td.TypeParams))
	if td.Kind == decl.KindSumEnum {
		typ = instance(v.TypeName, v.TypeArgs)
	}
	lit := shape.Literal(typ, shape.Of(v), elems)
	if v.Pointer {
		return "&" + lit
	}
	return lit
}

func instance(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + "[" + strings.Join(args, ", ") + "]"
}

func paramNames(params []decl.TypeParam) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names
}

// reserved lists identifiers a parameter must not shadow.
func reserved(td decl.TypeDeclaration) []string {
	names := []string{"iter", "maps", "slices", td.Name}
	names = append(names, paramNames(td.TypeParams)...)
	names = append(names, td.Scope...)
	for _, imp := range td.Imports {
		if name := importName(imp); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func importName(imp decl.Import) string {
	switch imp.Name {
	case "_", ".":
		return ""
	case "":
		if imp.PkgName != "" {
			return imp.PkgName
		}
		if i := strings.LastIndexByte(imp.Path, '/'); i >= 0 {
			return imp.Path[i+1:]
		}
		return imp.Path
	default:
		return imp.Name
	}
}
