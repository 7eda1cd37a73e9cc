package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/propbind/internal/compiler"
	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/spf13/cast"
)

var errorType = reflect.TypeFor[error]()

// binding is the per-bind resolved state of one accessor.
type binding struct {
	call convert.Call

	hasDefault bool
	// defaultValue is the converted default of a non-positional accessor.
	defaultValue reflect.Value
	// template is the substituted default of a positional accessor, formatted at invocation.
	template string
}

// Dispatcher resolves accessor invocations for one schema against one source.
// Its resolved state is private to the bind that created it.
type Dispatcher struct {
	schema   *compiler.Schema
	source   ports.Source
	resolver *substitute.Resolver
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	bindings []binding
}

// Bind resolves separator and default expressions of schema against src.
// A default that cannot be converted, or a separator expression that is not a
// valid pattern, fails the bind.
func Bind(schema *compiler.Schema, src ports.Source, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		schema:   schema,
		source:   src,
		resolver: substitute.New(),
		logger:   defaultLogger(),
		bindings: make([]binding, len(schema.Accessors)),
	}
	for _, opt := range opts {
		opt(d)
	}

	start := time.Now()
	err := d.resolve()
	if d.hooks.OnBind != nil {
		d.hooks.OnBind(&domain.BindEvent{
			Contract: schema.Name(),
			Source:   src.String(),
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		d.logger.Debug("bind failed", "contract", schema.Name(), "source", src.String(), "error", err)
		return nil, err
	}
	d.logger.Debug("bound", "contract", schema.Name(), "source", src.String(), "accessors", len(schema.Accessors))
	return d, nil
}

func (d *Dispatcher) resolve() error {
	for i := range d.schema.Accessors {
		acc := &d.schema.Accessors[i]
		if acc.Diagnostic {
			continue
		}
		b := &d.bindings[i]

		sep, err := d.separator(acc)
		if err != nil {
			return err
		}
		b.call = convert.Call{Separator: sep}

		if acc.Default == nil {
			continue
		}
		text := acc.Default.Text
		if acc.Default.Expr {
			if text, err = d.resolver.Substitute(d.source, text); err != nil {
				return fmt.Errorf("default of %q: %w", acc.Key, err)
			}
		}
		b.hasDefault = true
		if acc.Positional {
			b.template = text
			continue
		}
		if b.defaultValue, err = acc.Converter.Convert(text, b.call); err != nil {
			return withKey(err, acc.Key)
		}
	}
	return nil
}

func (d *Dispatcher) separator(acc *compiler.Accessor) (*regexp.Regexp, error) {
	if acc.Separator.Literal != nil {
		return acc.Separator.Literal, nil
	}
	if acc.Separator.Expr == "" {
		return nil, nil
	}
	pattern, err := d.resolver.Substitute(d.source, acc.Separator.Expr)
	if err != nil {
		return nil, fmt.Errorf("separator of %q: %w", acc.Key, err)
	}
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &domain.ConversionError{Key: acc.Key, Value: pattern, Target: "separator", Err: err}
	}
	return re, nil
}

// Invoke resolves the accessor at position index with the given positional arguments.
func (d *Dispatcher) Invoke(index int, args ...any) (reflect.Value, error) {
	acc := &d.schema.Accessors[index]
	if acc.Diagnostic {
		return reflect.ValueOf(d.String()), nil
	}

	start := time.Now()
	v, origin, err := d.invoke(acc, &d.bindings[index], args)
	if err != nil {
		err = withKey(err, acc.Key)
	}
	if d.hooks.OnAccess != nil {
		d.hooks.OnAccess(&domain.AccessEvent{
			Contract: d.schema.Name(),
			Accessor: acc.Name,
			Key:      acc.Key,
			Origin:   origin,
			Duration: time.Since(start),
			Err:      err,
		})
	}
	if err != nil {
		d.logger.Debug("access failed", "key", acc.Key, "error", err)
		return reflect.Zero(acc.Converter.Type()), err
	}
	d.logger.Debug("access", "key", acc.Key, "origin", origin)
	return v, nil
}

func (d *Dispatcher) invoke(acc *compiler.Accessor, b *binding, args []any) (reflect.Value, domain.Origin, error) {
	raw, ok := d.source.Lookup(acc.Key)
	if ok && raw != nil {
		if s, isString := raw.(string); isString && !acc.Verbatim {
			expanded, err := d.resolver.Substitute(d.source, s)
			if err != nil {
				return reflect.Value{}, domain.OriginSource, err
			}
			raw = expanded
		}
		if acc.Positional {
			formatted, err := format(raw, acc.Converter.Type(), args)
			if err != nil {
				return reflect.Value{}, domain.OriginSource, err
			}
			raw = formatted
		}
		v, err := acc.Converter.Convert(raw, b.call)
		return v, domain.OriginSource, err
	}

	if b.hasDefault {
		if !acc.Positional {
			return b.defaultValue, domain.OriginDefault, nil
		}
		formatted, err := format(b.template, acc.Converter.Type(), args)
		if err != nil {
			return reflect.Value{}, domain.OriginDefault, err
		}
		v, err := acc.Converter.Convert(formatted, b.call)
		return v, domain.OriginDefault, err
	}

	if acc.Shape.Required() {
		return reflect.Value{}, domain.OriginNil, &domain.MissingRequiredValueError{Key: acc.Key, Target: acc.Shape.Type.String()}
	}
	return acc.Converter.Nil(), domain.OriginNil, nil
}

// format applies positional arguments to a raw template.
func format(raw any, target reflect.Type, args []any) (string, error) {
	template, err := cast.ToStringE(raw)
	if err != nil {
		return "", &domain.ConversionError{Value: raw, Target: target.String(), Err: err}
	}
	if mismatched(template, args) {
		return "", &domain.ConversionError{Value: template, Target: target.String(), Err: fmt.Errorf("ill-typed format arguments %v", args)}
	}
	return fmt.Sprintf(template, args...), nil
}

// mismatched reports whether the verbs of template disagree with args in
// count or kind. Arguments are replaced by zero values of their types, so
// their own text never reads as a fmt error marker.
func mismatched(template string, args []any) bool {
	stand := make([]any, len(args))
	for i, arg := range args {
		stand[i] = zeroOf(arg)
	}
	out := fmt.Sprintf(template, stand...)
	return strings.Count(out, "%!") > strings.Count(template, "%%!")
}

// zeroOf returns the zero value of arg's type. Values with their own
// formatting methods are kept: their zero value may not be printable.
func zeroOf(arg any) any {
	switch arg.(type) {
	case nil, fmt.Formatter, fmt.Stringer, fmt.GoStringer, error:
		return arg
	}
	return reflect.Zero(reflect.TypeOf(arg)).Interface()
}

func withKey(err error, key string) error {
	var convErr *domain.ConversionError
	if errors.As(err, &convErr) && convErr.Key == "" {
		convErr.Key = key
	}
	return err
}

// Populate installs one dispatch closure per accessor on target, which must be
// an addressable value of the schema's contract type.
// Accessors returning (T, error) report failures; accessors returning T panic.
func (d *Dispatcher) Populate(target reflect.Value) {
	for i := range d.schema.Accessors {
		acc := &d.schema.Accessors[i]
		index := i
		fn := reflect.MakeFunc(acc.Func, func(in []reflect.Value) []reflect.Value {
			v, err := d.Invoke(index, arguments(acc.Func, in)...)
			if !acc.ReturnsError {
				if err != nil {
					panic(err)
				}
				return []reflect.Value{v}
			}
			errValue := reflect.Zero(errorType)
			if err != nil {
				errValue = reflect.ValueOf(&err).Elem()
			}
			return []reflect.Value{v, errValue}
		})
		target.Field(acc.Index).Set(fn)
	}
}

// arguments flattens call arguments, expanding a trailing variadic slice.
func arguments(ft reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if ft.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

// Schema returns the compiled schema this dispatcher serves.
func (d *Dispatcher) Schema() *compiler.Schema {
	return d.schema
}

// Source returns the bound source.
func (d *Dispatcher) Source() ports.Source {
	return d.source
}

func (d *Dispatcher) String() string {
	return fmt.Sprintf("%s bound to %s", d.schema.Name(), d.source.String())
}
