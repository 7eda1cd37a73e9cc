package convert

import (
	"reflect"

	"github.com/aretw0/propbind/pkg/domain"
)

// optionalConverter wraps another converter's result in Some; its nil value is None.
type optionalConverter struct {
	t     reflect.Type
	inner Converter
}

func (c *optionalConverter) Type() reflect.Type { return c.t }

func (c *optionalConverter) Nil() reflect.Value { return reflect.Zero(c.t) }

func (c *optionalConverter) Convert(raw any, call Call) (reflect.Value, error) {
	if v, ok := assignable(raw, c.t); ok {
		return v, nil
	}
	v, err := c.inner.Convert(raw, call)
	if err != nil {
		return reflect.Value{}, err
	}
	return domain.WrapOptional(c.t, v), nil
}
