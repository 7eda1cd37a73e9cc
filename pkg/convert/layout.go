package convert

import (
	"errors"
	"reflect"
	"time"

	"github.com/aretw0/propbind/pkg/domain"
)

// layoutParser tries each layout in order and keeps the first that parses.
func layoutParser(t reflect.Type, layouts []string) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, notString(raw, t)
		}
		var errs []error
		for _, layout := range layouts {
			ts, err := time.Parse(layout, s)
			if err == nil {
				return reflect.ValueOf(ts).Convert(t), nil
			}
			errs = append(errs, err)
		}
		return reflect.Value{}, &domain.ConversionError{
			Value:  s,
			Target: t.String(),
			Tried:  layouts,
			Err:    errors.Join(errs...),
		}
	}
}
