package propbind

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/aretw0/propbind/internal/compiler"
	"github.com/aretw0/propbind/internal/runtime"
	"github.com/aretw0/propbind/pkg/adapters/file"
	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
)

// KeyStyle derives keys from accessor names that declare none.
type KeyStyle = compiler.KeyStyle

const (
	KeyLowerCamel = compiler.KeyLowerCamel
	KeySnake      = compiler.KeySnake
	KeyDotted     = compiler.KeyDotted
	KeyExact      = compiler.KeyExact
)

type config struct {
	logger    *slog.Logger
	registry  *convert.Registry
	hooks     domain.LifecycleHooks
	style     KeyStyle
	maxPasses int
	maxLength int
}

// Option defines a functional option for configuring a Binder.
type Option func(*config)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRegistry replaces the process-wide conversion registry.
func WithRegistry(r *convert.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithKeyStyle sets how keys are derived from accessor names (default: KeyLowerCamel).
func WithKeyStyle(style KeyStyle) Option {
	return func(c *config) {
		c.style = style
	}
}

// WithMaxPasses bounds reference substitution. See substitute.DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(c *config) {
		c.maxPasses = n
	}
}

// WithMaxLength bounds the size of a substituted value. See substitute.DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if c.registry == nil {
		c.registry = convert.Default()
	}
	return c
}

// Binder binds sources to the accessor contract T.
// A Binder is safe for concurrent use; each Bind produces an independent accessor object.
type Binder[T any] struct {
	schema  *compiler.Schema
	options []runtime.Option
	logger  *slog.Logger
}

// New compiles the contract T, reusing the cached schema when T was compiled before.
func New[T any](opts ...Option) (*Binder[T], error) {
	c := newConfig(opts)

	contract := reflect.TypeFor[T]()
	schema, err := compiler.Shared.Compile(contract, c.registry, c.style)
	if err != nil {
		c.logger.Error("contract rejected", "contract", contract.String(), "error", err)
		return nil, err
	}

	logger := c.logger.With("contract", schema.Name())
	resolver := substitute.New(substitute.WithMaxPasses(c.maxPasses), substitute.WithMaxLength(c.maxLength))
	return &Binder[T]{
		schema: schema,
		logger: logger,
		options: []runtime.Option{
			runtime.WithLogger(logger),
			runtime.WithLifecycleHooks(c.hooks),
			runtime.WithResolver(resolver),
		},
	}, nil
}

// Bind returns a T whose accessors resolve against src.
func (b *Binder[T]) Bind(src Source) (*T, error) {
	if src == nil {
		return nil, fmt.Errorf("bind %s: nil source", b.schema.Name())
	}
	d, err := runtime.Bind(b.schema, src, b.options...)
	if err != nil {
		return nil, err
	}
	target := new(T)
	d.Populate(reflect.ValueOf(target).Elem())
	return target, nil
}

// MustBind is like Bind but panics on error.
func (b *Binder[T]) MustBind(src Source) *T {
	t, err := b.Bind(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Keys returns the keys read by the contract, in declaration order.
func (b *Binder[T]) Keys() []string {
	return b.schema.Keys()
}

// Bind compiles T and binds it to src in one call.
func Bind[T any](src Source, opts ...Option) (*T, error) {
	b, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	return b.Bind(src)
}

// MustBind is like Bind but panics on error.
func MustBind[T any](src Source, opts ...Option) *T {
	t, err := Bind[T](src, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads a properties, YAML or JSON file and binds T to its snapshot.
func Load[T any](path string, opts ...Option) (*T, error) {
	src, err := file.Open(path)
	if err != nil {
		return nil, err
	}
	return Bind[T](src, opts...)
}

// Source is the key to raw-value lookup consumed by Bind.
type Source = ports.Source

// Optional holds a value that may be absent.
type Optional[T any] = domain.Optional[T]

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] { return domain.Some(v) }

// None returns the empty Optional.
func None[T any]() Optional[T] { return domain.None[T]() }

type (
	SchemaError               = domain.SchemaError
	ConversionError           = domain.ConversionError
	MissingRequiredValueError = domain.MissingRequiredValueError
	CyclicReferenceError      = domain.CyclicReferenceError
)

var (
	ErrNotFlat            = domain.ErrNotFlat
	ErrDuplicateKey       = domain.ErrDuplicateKey
	ErrUnsupportedType    = domain.ErrUnsupportedType
	ErrConflict           = domain.ErrConflict
	ErrMisplacedSeparator = domain.ErrMisplacedSeparator
	ErrMalformed          = domain.ErrMalformed
)
