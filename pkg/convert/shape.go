package convert

import (
	"fmt"
	"reflect"

	"github.com/aretw0/propbind/pkg/domain"
)

// Deduce computes the Shape requested by a declared result type, consulting
// the registry so that registered slice types stay scalars.
func (r *Registry) Deduce(t reflect.Type) (domain.Shape, error) {
	return deduceShape(t, r.Registered)
}

// Deduce computes the Shape requested by a declared result type.
// Failures wrap domain.ErrUnsupportedType.
func Deduce(t reflect.Type) (domain.Shape, error) {
	return deduceShape(t, func(reflect.Type) bool { return false })
}

func deduceShape(t reflect.Type, registered func(reflect.Type) bool) (domain.Shape, error) {
	if elem, ok := domain.OptionalElem(t); ok {
		inner, err := deduce(elem, registered)
		if err != nil {
			return domain.Shape{}, err
		}
		if inner.Kind == domain.ShapeOptional {
			return domain.Shape{}, unsupported("optional of optional %s", t)
		}
		return domain.Shape{Kind: domain.ShapeOptional, Type: t, Elem: inner.Elem, Inner: &inner}, nil
	}
	return deduce(t, registered)
}

func deduce(t reflect.Type, registered func(reflect.Type) bool) (domain.Shape, error) {
	if _, ok := domain.OptionalElem(t); ok {
		return domain.Shape{Kind: domain.ShapeOptional, Type: t}, nil
	}

	if registered(t) || parsable(t) {
		return domain.Shape{Kind: domain.ShapeScalar, Type: t, Elem: t}, nil
	}

	switch t.Kind() {
	case reflect.Slice:
		elem := t.Elem()
		if err := checkElement(t, elem, registered); err != nil {
			return domain.Shape{}, err
		}
		kind := domain.ShapeArray
		if t.Name() != "" {
			kind = domain.ShapeList
		}
		return domain.Shape{Kind: kind, Type: t, Elem: elem}, nil

	case reflect.Array:
		return domain.Shape{}, unsupported("fixed-size array %s", t)

	case reflect.Pointer:
		elem := t.Elem()
		switch elem.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array:
			return domain.Shape{}, unsupported("pointer to %s", elem)
		}
		if _, ok := domain.OptionalElem(elem); ok {
			return domain.Shape{}, unsupported("pointer to optional %s", elem)
		}
		return domain.Shape{Kind: domain.ShapeScalar, Type: t, Elem: elem, Nullable: true}, nil

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return domain.Shape{}, unsupported("%s result", t.Kind())
	}

	return domain.Shape{Kind: domain.ShapeScalar, Type: t, Elem: t}, nil
}

func checkElement(container, elem reflect.Type, registered func(reflect.Type) bool) error {
	if registered(elem) || parsable(elem) {
		return nil
	}
	switch elem.Kind() {
	case reflect.Slice, reflect.Array:
		return unsupported("%s: aggregates of aggregates", container)
	case reflect.Pointer:
		return unsupported("%s: pointer elements", container)
	case reflect.Interface:
		if elem.NumMethod() > 0 {
			return unsupported("%s: bounded element type %s", container, elem)
		}
	}
	if _, ok := domain.OptionalElem(elem); ok {
		return unsupported("%s: optional elements", container)
	}
	return nil
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, fmt.Sprintf(format, args...))
}

// parsable reports whether t parses itself from a string (net.IP, for instance,
// is a slice that must not be split).
func parsable(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	pt := reflect.PointerTo(t)
	return pt.Implements(textUnmarshalerType) || pt.Implements(flagValueType)
}
