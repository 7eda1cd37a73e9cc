package domain

import (
	"fmt"
	"reflect"
)

// Optional holds a value that may be absent.
// Accessors declared as returning Optional never report a missing value;
// they return the empty Optional instead.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns the empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.ok
}

// OrElse returns the held value, or fallback when empty.
func (o Optional[T]) OrElse(fallback T) T {
	if o.ok {
		return o.value
	}
	return fallback
}

func (o Optional[T]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

func (Optional[T]) elemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Optional[T]) wrap(v reflect.Value) any {
	t, _ := v.Interface().(T)
	return Optional[T]{value: t, ok: true}
}

type optionalType interface {
	elemType() reflect.Type
	wrap(v reflect.Value) any
}

// OptionalElem reports whether t is an Optional instantiation and returns its element type.
func OptionalElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	o, ok := reflect.Zero(t).Interface().(optionalType)
	if !ok {
		return nil, false
	}
	return o.elemType(), true
}

// WrapOptional builds a present Optional of type t around v.
// t must satisfy OptionalElem.
func WrapOptional(t reflect.Type, v reflect.Value) reflect.Value {
	o := reflect.Zero(t).Interface().(optionalType)
	return reflect.ValueOf(o.wrap(v))
}
