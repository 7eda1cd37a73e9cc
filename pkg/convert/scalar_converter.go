package convert

import "reflect"

type scalarConverter struct {
	t     reflect.Type
	parse parseFunc
}

func (c *scalarConverter) Type() reflect.Type { return c.t }

func (c *scalarConverter) Nil() reflect.Value { return reflect.Zero(c.t) }

func (c *scalarConverter) Convert(raw any, _ Call) (reflect.Value, error) {
	return c.parse(raw)
}

// nullableConverter produces *E; its nil value is the nil pointer.
type nullableConverter struct {
	t     reflect.Type // *E
	parse parseFunc
}

func (c *nullableConverter) Type() reflect.Type { return c.t }

func (c *nullableConverter) Nil() reflect.Value { return reflect.Zero(c.t) }

func (c *nullableConverter) Convert(raw any, _ Call) (reflect.Value, error) {
	if v, ok := assignable(raw, c.t); ok {
		return v, nil
	}
	v, err := c.parse(raw)
	if err != nil {
		return reflect.Value{}, err
	}
	ptr := reflect.New(c.t.Elem())
	ptr.Elem().Set(v)
	return ptr, nil
}
