package compiler

import (
	"reflect"
	"regexp"

	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
)

// ValueSpec is a declared default: a literal or a substitution expression.
type ValueSpec struct {
	Text string
	Expr bool
}

// SeparatorSpec is a declared separator. A nil Literal with an empty Expr means the default.
type SeparatorSpec struct {
	Literal *regexp.Regexp
	Expr    string
}

// Accessor is the compiled conversion plan of one contract field.
type Accessor struct {
	Index int    // Field index in the contract struct
	Name  string // Field name
	Key   string
	Func  reflect.Type

	Shape     domain.Shape
	Converter convert.Converter
	Default   *ValueSpec
	Separator SeparatorSpec
	Verbatim  bool

	// Positional accessors take arguments that format the raw value as a template.
	Positional bool
	// ReturnsError is set for func(...) (T, error) accessors.
	ReturnsError bool
	// Diagnostic marks the String() accessor, which describes the binding.
	Diagnostic bool
}

// Schema is the immutable compiled form of one accessor contract.
type Schema struct {
	Contract  reflect.Type
	Accessors []Accessor
	byKey     map[string]int
}

// Name is the contract's qualified type name.
func (s *Schema) Name() string {
	return s.Contract.String()
}

// Lookup returns the accessor bound to key.
func (s *Schema) Lookup(key string) (*Accessor, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return nil, false
	}
	return &s.Accessors[i], true
}

// Keys returns every key of the schema in declaration order.
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.byKey))
	for _, a := range s.Accessors {
		if !a.Diagnostic {
			keys = append(keys, a.Key)
		}
	}
	return keys
}
