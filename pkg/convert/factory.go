package convert

import (
	"fmt"
	"reflect"

	"github.com/aretw0/propbind/pkg/domain"
)

// Meta is the declaration metadata that influences converter selection.
type Meta struct {
	// Layouts are time layouts tried in order for time.Time elements and
	// named types convertible to it.
	Layouts []string
	// HasDefault is set when the accessor declares a default value.
	HasDefault bool
	// CustomSeparator is set when the accessor declares a non-default separator.
	CustomSeparator bool
}

// Converter resolves the converter for a shape. It is called once per accessor
// during schema compilation.
func (r *Registry) Converter(shape domain.Shape, meta Meta) (Converter, error) {
	switch shape.Kind {
	case domain.ShapeOptional:
		inner, err := r.Converter(*shape.Inner, meta)
		if err != nil {
			return nil, err
		}
		return &optionalConverter{t: shape.Type, inner: inner}, nil

	case domain.ShapeArray, domain.ShapeList:
		parse, found, err := r.scalar(shape.Elem, meta.Layouts)
		if err != nil {
			return nil, err
		}
		if !found {
			if meta.HasDefault || meta.CustomSeparator {
				return nil, fmt.Errorf("%w: no conversion for element type %s", domain.ErrUnsupportedType, shape.Elem)
			}
			return &passThrough{t: shape.Type}, nil
		}
		return &sliceConverter{t: shape.Type, elem: parse}, nil
	}

	parse, found, err := r.scalar(shape.Elem, meta.Layouts)
	if err != nil {
		return nil, err
	}
	if !found {
		if meta.HasDefault || meta.CustomSeparator {
			return nil, fmt.Errorf("%w: no conversion for %s", domain.ErrUnsupportedType, shape.Elem)
		}
		return &passThrough{t: shape.Type}, nil
	}
	if shape.Nullable {
		return &nullableConverter{t: shape.Type, parse: parse}, nil
	}
	return &scalarConverter{t: shape.Type, parse: parse}, nil
}

// scalar walks the resolution order for one element type.
func (r *Registry) scalar(t reflect.Type, layouts []string) (parseFunc, bool, error) {
	if fn, ok := r.lookupFunc(t); ok {
		return funcParser(t, fn), true, nil
	}
	if cases, ok := r.lookupEnum(t); ok {
		return enumParser(t, cases), true, nil
	}
	if len(layouts) > 0 {
		if !t.ConvertibleTo(timeType) {
			return nil, false, fmt.Errorf("%w: layouts declared for %s", domain.ErrMalformed, t)
		}
		return layoutParser(t, layouts), true, nil
	}
	parse, ok := constructor(t)
	return parse, ok, nil
}
