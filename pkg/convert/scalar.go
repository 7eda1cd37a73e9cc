package convert

import (
	"encoding"
	"flag"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/spf13/cast"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	timeType            = reflect.TypeFor[time.Time]()
	urlType             = reflect.TypeFor[url.URL]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	flagValueType       = reflect.TypeFor[flag.Value]()
)

// builtins are constructors for standard types whose string form is not
// covered by a capability interface.
var builtins = map[reflect.Type]func(s string) (any, error){
	durationType: func(s string) (any, error) {
		return time.ParseDuration(s)
	},
	urlType: func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			return nil, err
		}
		return *u, nil
	},
}

// constructor returns the recognized-constructor parser for t, if any.
func constructor(t reflect.Type) (parseFunc, bool) {
	if fn, ok := builtins[t]; ok {
		return funcParser(t, fn), true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return textParser(t), true
	}
	if reflect.PointerTo(t).Implements(flagValueType) {
		return flagParser(t), true
	}
	return primitive(t)
}

func textParser(t reflect.Type) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, notString(raw, t)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, &domain.ConversionError{Value: s, Target: t.String(), Err: err}
		}
		return ptr.Elem(), nil
	}
}

func flagParser(t reflect.Type) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, notString(raw, t)
		}
		ptr := reflect.New(t)
		if err := ptr.Interface().(flag.Value).Set(s); err != nil {
			return reflect.Value{}, &domain.ConversionError{Value: s, Target: t.String(), Err: err}
		}
		return ptr.Elem(), nil
	}
}

// primitive handles the builtin kinds, named types included.
// Non-string raw values are coerced with cast; strings are parsed strictly.
func primitive(t reflect.Type) (parseFunc, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			b, err := strconv.ParseBool(s)
			out.SetBool(b)
			return err
		}, func(raw any, out reflect.Value) error {
			b, err := cast.ToBoolE(raw)
			out.SetBool(b)
			return err
		}), true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			n, err := strconv.ParseInt(s, 10, t.Bits())
			out.SetInt(n)
			return err
		}, func(raw any, out reflect.Value) error {
			n, err := cast.ToInt64E(raw)
			if err != nil {
				return err
			}
			if out.OverflowInt(n) {
				return fmt.Errorf("value %d overflows %s", n, t)
			}
			out.SetInt(n)
			return nil
		}), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			n, err := strconv.ParseUint(s, 10, t.Bits())
			out.SetUint(n)
			return err
		}, func(raw any, out reflect.Value) error {
			n, err := cast.ToUint64E(raw)
			if err != nil {
				return err
			}
			if out.OverflowUint(n) {
				return fmt.Errorf("value %d overflows %s", n, t)
			}
			out.SetUint(n)
			return nil
		}), true

	case reflect.Float32, reflect.Float64:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			f, err := strconv.ParseFloat(s, t.Bits())
			out.SetFloat(f)
			return err
		}, func(raw any, out reflect.Value) error {
			f, err := cast.ToFloat64E(raw)
			if err != nil {
				return err
			}
			if out.OverflowFloat(f) {
				return fmt.Errorf("value %g overflows %s", f, t)
			}
			out.SetFloat(f)
			return nil
		}), true

	case reflect.Complex64, reflect.Complex128:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			c, err := strconv.ParseComplex(s, t.Bits())
			out.SetComplex(c)
			return err
		}, nil), true

	case reflect.String:
		return primitiveParser(t, func(s string, out reflect.Value) error {
			out.SetString(s)
			return nil
		}, nil), true

	case reflect.Interface:
		if t.NumMethod() > 0 {
			return nil, false
		}
		// Wildcard: the (substituted) raw value itself.
		return func(raw any) (reflect.Value, error) {
			out := reflect.New(t).Elem()
			if raw != nil {
				out.Set(reflect.ValueOf(raw))
			}
			return out, nil
		}, true
	}
	return nil, false
}

func primitiveParser(t reflect.Type, fromString func(string, reflect.Value) error, coerce func(any, reflect.Value) error) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		out := reflect.New(t).Elem()
		if s, ok := raw.(string); ok {
			if err := fromString(s, out); err != nil {
				return reflect.Value{}, &domain.ConversionError{Value: s, Target: t.String(), Err: unwrapNum(err)}
			}
			return out, nil
		}
		if coerce == nil {
			return reflect.Value{}, notString(raw, t)
		}
		if err := coerce(raw, out); err != nil {
			return reflect.Value{}, &domain.ConversionError{Value: raw, Target: t.String(), Err: err}
		}
		return out, nil
	}
}

// unwrapNum drops the redundant "strconv.ParseInt: parsing ..." prefix.
func unwrapNum(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}
