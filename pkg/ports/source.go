package ports

// Source is the opaque key to raw-value lookup consumed by the engine.
// Raw values are usually strings; programmatic sources may hold any value.
type Source interface {
	// Lookup returns the raw value for key and whether it is present.
	Lookup(key string) (any, bool)

	// String describes the source for diagnostics.
	String() string
}

// Keyer is implemented by sources that can enumerate their keys.
// The substitution resolver uses it to size its iteration cap; the CLI uses it to list entries.
type Keyer interface {
	Keys() []string
}

// SourceFunc adapts a plain lookup function to Source.
type SourceFunc func(key string) (any, bool)

// Lookup calls f(key).
func (f SourceFunc) Lookup(key string) (any, bool) { return f(key) }

func (f SourceFunc) String() string { return "func source" }
