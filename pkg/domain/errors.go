package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFlat is returned when a contract embeds another contract.
	ErrNotFlat = errors.New("contract is not flat")

	// ErrDuplicateKey is returned when two accessors map to the same key.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrUnsupportedType is returned when no conversion path exists for a declared type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConflict is returned when mutually exclusive declarations are combined.
	ErrConflict = errors.New("conflicting declarations")

	// ErrMisplacedSeparator is returned when a separator is declared on a non-aggregate accessor.
	ErrMisplacedSeparator = errors.New("separator declared on non-aggregate accessor")

	// ErrMalformed is returned for declarations that cannot be parsed (bad regexp, bad signature).
	ErrMalformed = errors.New("malformed declaration")
)

// SchemaError reports a structurally invalid accessor contract.
// It is raised once, during compilation, and is never retried.
type SchemaError struct {
	Contract string // Contract type name
	Field    string // Offending accessor, empty for contract-level failures
	Reason   string
	Err      error // One of the sentinel errors above
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %s: %s", e.Contract, e.Reason)
	}
	return fmt.Sprintf("schema %s.%s: %s", e.Contract, e.Field, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ConversionError reports a raw value that could not be turned into the requested type.
type ConversionError struct {
	Key    string
	Value  any
	Target string   // Requested type
	Tried  []string // Layouts or case names attempted, if any
	Err    error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot convert %q to %s", fmt.Sprint(e.Value), e.Target)
	if e.Key != "" {
		fmt.Fprintf(&b, " for key %q", e.Key)
	}
	if len(e.Tried) > 0 {
		fmt.Fprintf(&b, " (tried %s)", strings.Join(e.Tried, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConversionError) Unwrap() error { return e.Err }

// MissingRequiredValueError is returned on invocation of a required scalar accessor
// whose key is absent from the source and which declares no default.
type MissingRequiredValueError struct {
	Key    string
	Target string
}

func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("missing required value for key %q (%s)", e.Key, e.Target)
}

// CyclicReferenceError is returned when substitution does not reach a fixed point
// within the configured pass or length limits.
type CyclicReferenceError struct {
	Value  string // Original input
	Passes int
	Limit  string // Which limit was exceeded
}

func (e *CyclicReferenceError) Error() string {
	return fmt.Sprintf("cyclic reference while substituting %q: %s exceeded after %d passes", e.Value, e.Limit, e.Passes)
}
