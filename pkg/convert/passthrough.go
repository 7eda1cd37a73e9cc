package convert

import (
	"fmt"
	"reflect"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// passThrough returns values the source already holds in the requested type.
// Loose programmatic values (maps, []any) are decoded with mapstructure.
type passThrough struct {
	t reflect.Type
}

func (c *passThrough) Type() reflect.Type { return c.t }

func (c *passThrough) Nil() reflect.Value {
	switch c.t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(c.t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(c.t)
	}
	return reflect.Zero(c.t)
}

func (c *passThrough) Convert(raw any, _ Call) (reflect.Value, error) {
	if raw == nil {
		return c.Nil(), nil
	}
	if v, ok := assignable(raw, c.t); ok {
		return v, nil
	}
	if _, isString := raw.(string); isString {
		return reflect.Value{}, &domain.ConversionError{
			Value:  raw,
			Target: c.t.String(),
			Err:    fmt.Errorf("%w: no conversion from string", domain.ErrUnsupportedType),
		}
	}

	out := reflect.New(c.t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return reflect.Value{}, &domain.ConversionError{Value: raw, Target: c.t.String(), Err: err}
	}
	if err := dec.Decode(raw); err != nil {
		return reflect.Value{}, &domain.ConversionError{Value: raw, Target: c.t.String(), Err: err}
	}
	return out.Elem(), nil
}
