package convert

import (
	"reflect"
	"regexp"
)

// DefaultSeparator splits aggregate values when no separator is declared.
const DefaultSeparator = ","

var defaultSeparator = regexp.MustCompile(DefaultSeparator)

// Call carries the per-bind inputs of one conversion.
type Call struct {
	// Separator splits aggregate values. Nil means DefaultSeparator.
	Separator *regexp.Regexp
}

func (c Call) separator() *regexp.Regexp {
	if c.Separator == nil {
		return defaultSeparator
	}
	return c.Separator
}

// Converter turns one raw value into one typed value.
type Converter interface {
	// Convert returns a value of Type().
	Convert(raw any, call Call) (reflect.Value, error)

	// Nil returns the value used when neither a live value nor a default exists:
	// the zero value for scalars, an empty container for arrays and lists,
	// the empty Optional for optionals.
	Nil() reflect.Value

	// Type is the Go type produced by Convert and Nil.
	Type() reflect.Type
}

// parseFunc converts a raw value into a value of one scalar type.
type parseFunc func(raw any) (reflect.Value, error)
