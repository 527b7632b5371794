// Package classifier decides, field by field, how a generated constructor
// obtains each value: from a parameter, a zero value, a conversion, a
// collected iterator or a spliced expression.
package classifier

import (
	"fmt"

	"github.com/seitarof/gen-demo/internal/attr"
	"github.com/seitarof/gen-demo/internal/decl"
	"github.com/seitarof/gen-demo/internal/logger"
	"github.com/seitarof/gen-demo/internal/shape"
)

// Param is one constructor parameter.
type Param struct {
	Name string
	Type string
}

// Descriptor is the classification of one field.
type Descriptor struct {
	Field decl.Field
	// Key addresses the field inside a keyed literal.
	Key string
	// Param is nil when the field does not become a parameter.
	Param *Param
	// TypeParam is the fresh type parameter introduced for the field, if any.
	TypeParam *decl.TypeParam
	// Init is the initializer expression.
	Init string
	// Imports lists packages Init or the parameter type refer to.
	Imports []string
	// Omit drops the field from the literal.
	Omit bool
	// Rule names the rule that classified the field.
	Rule string
}

// Input is one field presented to the rule chain.
type Input struct {
	Field  decl.Field
	Index  int
	Shape  decl.Shape
	Config attr.FieldConfig
	Key    string
	// Names allocates parameter and type parameter names.
	Names *Names
}

// Rule tries to classify one field.
type Rule interface {
	Name() string
	Try(in Input) (Descriptor, bool)
}

// Classifier runs the rule chain over the fields of a variant.
type Classifier struct {
	attrs *attr.Parser
	rules []Rule
	log   logger.Logger
}

// New builds a classifier with the given rule chain.
func New(attrs *attr.Parser, log logger.Logger, rules ...Rule) *Classifier {
	if attrs == nil {
		attrs = attr.NewParser(nil)
	}
	if log == nil {
		log = logger.Discard()
	}
	for _, rule := range rules {
		if aware, ok := rule.(LogAware); ok {
			aware.SetLogger(log)
		}
	}
	return &Classifier{attrs: attrs, rules: rules, log: log}
}

// LogAware rules receive the classifier's logger.
type LogAware interface {
	SetLogger(logger.Logger)
}

// Classify returns one descriptor per field in declaration order. Every
// field directive is validated before any field is classified, so a bad
// directive on a marker field still fails. Identifiers read by value
// expressions are reserved before any parameter is named.
func (c *Classifier) Classify(v decl.Variant, names *Names) ([]Descriptor, error) {
	s := shape.Of(v)
	configs := make([]attr.FieldConfig, len(v.Fields))
	for i, f := range v.Fields {
		cfg, err := c.attrs.ParseField(f.Attrs)
		if err != nil {
			return nil, err
		}
		configs[i] = cfg
		if v, ok := cfg.(attr.Value); ok {
			for _, name := range exprIdents(v.Expr) {
				names.Reserve(name)
			}
		}
	}

	out := make([]Descriptor, 0, len(v.Fields))
	for i, f := range v.Fields {
		in := Input{
			Field:  f,
			Index:  i,
			Shape:  s,
			Config: configs[i],
			Key:    shape.Name(f, i, s),
			Names:  names,
		}
		d, err := c.classifyOne(in)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *Classifier) classifyOne(in Input) (Descriptor, error) {
	for _, rule := range c.rules {
		if d, ok := rule.Try(in); ok {
			d.Rule = rule.Name()
			c.log.Debug("classified field", "field", in.Key, "rule", d.Rule)
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%s: no rule classifies field %s", in.Field.Pos, in.Key)
}
