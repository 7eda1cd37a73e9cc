package convert

import (
	"fmt"
	"reflect"

	"github.com/aretw0/propbind/pkg/domain"
)

// sliceConverter splits a raw string and converts every piece with the element parser.
// It serves both arrays ([]E) and lists (named slice types).
type sliceConverter struct {
	t    reflect.Type
	elem parseFunc
}

func (c *sliceConverter) Type() reflect.Type { return c.t }

func (c *sliceConverter) Nil() reflect.Value {
	return reflect.MakeSlice(c.t, 0, 0)
}

func (c *sliceConverter) Convert(raw any, call Call) (reflect.Value, error) {
	switch v := raw.(type) {
	case nil:
		return c.Nil(), nil
	case string:
		if v == "" {
			return c.Nil(), nil
		}
		parts := call.separator().Split(v, -1)
		out := reflect.MakeSlice(c.t, len(parts), len(parts))
		for i, part := range parts {
			ev, err := c.elem(part)
			if err != nil {
				return reflect.Value{}, c.elementError(raw, i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil
	}

	if v, ok := assignable(raw, c.t); ok {
		return v, nil
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, &domain.ConversionError{
			Value:  raw,
			Target: c.t.String(),
			Err:    fmt.Errorf("expected a string or a slice, got %T", raw),
		}
	}
	out := reflect.MakeSlice(c.t, rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev, err := c.elem(rv.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, c.elementError(raw, i, err)
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func (c *sliceConverter) elementError(raw any, i int, err error) error {
	return &domain.ConversionError{
		Value:  raw,
		Target: c.t.String(),
		Err:    fmt.Errorf("element %d: %w", i, err),
	}
}
