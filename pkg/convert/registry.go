package convert

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/aretw0/propbind/pkg/domain"
)

// Func converts the string form of a value into a value assignable to the registered type.
type Func func(s string) (any, error)

// Module contributes conversions to a Registry.
type Module func(r *Registry)

type enumCase struct {
	name  string
	value reflect.Value
}

// Registry is the extensible Type -> conversion table.
type Registry struct {
	mu     sync.RWMutex
	funcs  map[reflect.Type]Func
	enums  map[reflect.Type][]enumCase
	logger *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		funcs:  make(map[reflect.Type]Func),
		enums:  make(map[reflect.Type][]enumCase),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Install applies modules in order. Earlier modules win on conflicts.
func (r *Registry) Install(mods ...Module) {
	for _, mod := range mods {
		mod(r)
	}
}

// Register adds a conversion for exactly t.
// It returns false, leaving the first registration in place, if t is already registered.
func (r *Registry) Register(t reflect.Type, fn Func) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[t]; exists {
		r.logger.Warn("duplicate conversion ignored", "type", t.String())
		return false
	}
	r.funcs[t] = fn
	return true
}

// RegisterFunc adds a typed conversion for T.
func RegisterFunc[T any](r *Registry, fn func(string) (T, error)) bool {
	return r.Register(reflect.TypeFor[T](), func(s string) (any, error) {
		return fn(s)
	})
}

// RegisterEnum declares the complete set of cases of an enumerated type.
// Raw values are matched against each case's String().
func RegisterEnum[T fmt.Stringer](r *Registry, values ...T) bool {
	t := reflect.TypeFor[T]()
	cases := make([]enumCase, 0, len(values))
	for _, v := range values {
		cases = append(cases, enumCase{name: v.String(), value: reflect.ValueOf(v)})
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.enums[t]; exists {
		r.logger.Warn("duplicate enum ignored", "type", t.String())
		return false
	}
	r.enums[t] = cases
	return true
}

// Registered reports whether t has a registered conversion or enumeration.
func (r *Registry) Registered(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, fn := r.funcs[t]
	_, enum := r.enums[t]
	return fn || enum
}

func (r *Registry) lookupFunc(t reflect.Type) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[t]
	return fn, ok
}

func (r *Registry) lookupEnum(t reflect.Type) ([]enumCase, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cases, ok := r.enums[t]
	return cases, ok
}

func funcParser(t reflect.Type, fn Func) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, notString(raw, t)
		}
		out, err := fn(s)
		if err != nil {
			return reflect.Value{}, &domain.ConversionError{Value: s, Target: t.String(), Err: err}
		}
		v, ok := assignable(out, t)
		if !ok {
			return reflect.Value{}, &domain.ConversionError{
				Value:  s,
				Target: t.String(),
				Err:    fmt.Errorf("registered conversion returned %T", out),
			}
		}
		return v, nil
	}
}

func enumParser(t reflect.Type, cases []enumCase) parseFunc {
	return func(raw any) (reflect.Value, error) {
		if v, ok := assignable(raw, t); ok {
			return v, nil
		}
		s, ok := raw.(string)
		if !ok {
			return reflect.Value{}, notString(raw, t)
		}
		for _, c := range cases {
			if c.name == s {
				return c.value, nil
			}
		}
		for _, c := range cases {
			if strings.EqualFold(c.name, s) {
				return c.value, nil
			}
		}
		names := make([]string, len(cases))
		for i, c := range cases {
			names[i] = c.name
		}
		return reflect.Value{}, &domain.ConversionError{Value: s, Target: t.String(), Tried: names}
	}
}

// assignable returns raw as a value of exactly t when the source already holds that type.
func assignable(raw any, t reflect.Type) (reflect.Value, bool) {
	if raw == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(raw)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	out := reflect.New(t).Elem()
	out.Set(rv)
	return out, true
}

func notString(raw any, t reflect.Type) error {
	return &domain.ConversionError{
		Value:  raw,
		Target: t.String(),
		Err:    fmt.Errorf("expected a string, got %T", raw),
	}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, with the Standard module installed.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		defaultRegistry.Install(Standard)
	})
	return defaultRegistry
}
