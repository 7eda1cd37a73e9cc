package domain

import (
	"fmt"
	"reflect"
)

// ShapeKind is the container/optionality shape of an accessor result.
type ShapeKind int

const (
	ShapeScalar ShapeKind = iota
	ShapeArray
	ShapeList
	ShapeOptional
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "scalar"
	case ShapeArray:
		return "array"
	case ShapeList:
		return "list"
	case ShapeOptional:
		return "optional"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Shape describes the requested result of one accessor.
//
// Array is an unnamed slice ([]E), List a named slice type (type Ports []int).
// Both carry a separator. Optional wraps any other shape except Optional.
type Shape struct {
	Kind ShapeKind
	Type reflect.Type // Declared result type
	Elem reflect.Type // Scalar element type, pointers stripped
	// Nullable marks a scalar declared through a pointer (*E); its nil value is nil.
	Nullable bool
	Inner    *Shape // Set for ShapeOptional only
}

// Aggregate reports whether the shape (or the shape it wraps) is split by a separator.
func (s Shape) Aggregate() bool {
	switch s.Kind {
	case ShapeArray, ShapeList:
		return true
	case ShapeOptional:
		return s.Inner != nil && s.Inner.Aggregate()
	}
	return false
}

// Required reports whether an absent value must be reported as an error.
// Only plain scalars without a nil representation are required: interfaces
// and maps resolve to nil and an empty map.
func (s Shape) Required() bool {
	if s.Kind != ShapeScalar || s.Nullable {
		return false
	}
	switch s.Type.Kind() {
	case reflect.Interface, reflect.Map:
		return false
	}
	return true
}

func (s Shape) String() string {
	switch s.Kind {
	case ShapeOptional:
		return fmt.Sprintf("optional(%s)", s.Inner)
	case ShapeArray, ShapeList:
		return fmt.Sprintf("%s(%s)", s.Kind, s.Elem)
	}
	return fmt.Sprintf("scalar(%s)", s.Type)
}
