package compiler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/aretw0/propbind/pkg/convert"
	"github.com/aretw0/propbind/pkg/domain"
)

// Struct tags understood by the compiler.
const (
	TagKey         = "prop"
	TagDefault     = "default"
	TagDefaultExpr = "defaultExpr"
	TagSep         = "sep"
	TagSepExpr     = "sepExpr"
	TagLayout      = "layout"

	// LayoutSeparator splits the layout tag into alternatives.
	LayoutSeparator = "|"
)

var errorType = reflect.TypeFor[error]()

// Namespacer is implemented by contracts whose derived keys share a prefix.
type Namespacer interface {
	Namespace() string
}

// Compile builds the schema of contract, which must be a struct type.
func Compile(contract reflect.Type, registry *convert.Registry, style KeyStyle) (*Schema, error) {
	c := &compilation{contract: contract, registry: registry, style: style}
	return c.run()
}

type compilation struct {
	contract reflect.Type
	registry *convert.Registry
	style    KeyStyle
}

func (c *compilation) fail(field string, err error, format string, args ...any) error {
	return &domain.SchemaError{
		Contract: c.contract.String(),
		Field:    field,
		Reason:   fmt.Sprintf(format, args...),
		Err:      err,
	}
}

func (c *compilation) run() (*Schema, error) {
	if c.contract.Kind() != reflect.Struct {
		return nil, c.fail("", domain.ErrMalformed, "contract must be a struct, got %s", c.contract.Kind())
	}

	namespace := namespaceOf(c.contract)
	schema := &Schema{Contract: c.contract, byKey: make(map[string]int)}
	owners := make(map[string]string)

	for i := 0; i < c.contract.NumField(); i++ {
		field := c.contract.Field(i)
		if field.Anonymous {
			return nil, c.fail(field.Name, domain.ErrNotFlat, "embedded contract %s", field.Type)
		}
		if !field.IsExported() {
			continue
		}
		tag, hasTag := field.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}

		acc, err := c.accessor(i, field, namespace, tag, hasTag)
		if err != nil {
			return nil, err
		}
		if !acc.Diagnostic {
			if owner, dup := owners[acc.Key]; dup {
				return nil, c.fail(field.Name, domain.ErrDuplicateKey, "key %q already mapped by %s", acc.Key, owner)
			}
			owners[acc.Key] = field.Name
			schema.byKey[acc.Key] = len(schema.Accessors)
		}
		schema.Accessors = append(schema.Accessors, acc)
	}
	return schema, nil
}

func (c *compilation) accessor(index int, field reflect.StructField, namespace, tag string, hasTag bool) (Accessor, error) {
	ft := field.Type
	if ft.Kind() != reflect.Func {
		return Accessor{}, c.fail(field.Name, domain.ErrMalformed, "exported field of type %s is not an accessor", ft)
	}

	acc := Accessor{Index: index, Name: field.Name, Func: ft}

	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
		acc.ReturnsError = true
	default:
		return Accessor{}, c.fail(field.Name, domain.ErrMalformed, "accessor must return T or (T, error), got %s", ft)
	}
	acc.Positional = ft.NumIn() > 0

	if field.Name == "String" && !hasTag && ft.NumIn() == 0 && ft.NumOut() == 1 && ft.Out(0).Kind() == reflect.String {
		acc.Diagnostic = true
		return acc, nil
	}

	name, opts, _ := strings.Cut(tag, ",")
	acc.Key = name
	if acc.Key == "" {
		acc.Key = c.style.Key(field.Name)
		if namespace != "" {
			acc.Key = namespace + "." + acc.Key
		}
	}
	if opts != "" {
		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "verbatim":
				acc.Verbatim = true
			default:
				return Accessor{}, c.fail(field.Name, domain.ErrMalformed, "unknown %s option %q", TagKey, opt)
			}
		}
	}

	shape, err := c.registry.Deduce(ft.Out(0))
	if err != nil {
		return Accessor{}, c.fail(field.Name, err, "%v", err)
	}
	acc.Shape = shape

	if acc.Default, err = c.defaultSpec(field); err != nil {
		return Accessor{}, err
	}
	if acc.Separator, err = c.separatorSpec(field, shape); err != nil {
		return Accessor{}, err
	}

	meta := convert.Meta{
		Layouts:         layouts(field.Tag.Get(TagLayout)),
		HasDefault:      acc.Default != nil,
		CustomSeparator: acc.Separator.Literal != nil || acc.Separator.Expr != "",
	}
	acc.Converter, err = c.registry.Converter(shape, meta)
	if err != nil {
		return Accessor{}, c.fail(field.Name, rootCause(err), "%v", err)
	}
	return acc, nil
}

func (c *compilation) defaultSpec(field reflect.StructField) (*ValueSpec, error) {
	literal, hasLiteral := field.Tag.Lookup(TagDefault)
	expr, hasExpr := field.Tag.Lookup(TagDefaultExpr)
	switch {
	case hasLiteral && hasExpr:
		return nil, c.fail(field.Name, domain.ErrConflict, "both %s and %s declared", TagDefault, TagDefaultExpr)
	case hasLiteral:
		return &ValueSpec{Text: literal}, nil
	case hasExpr:
		return &ValueSpec{Text: expr, Expr: true}, nil
	}
	return nil, nil
}

func (c *compilation) separatorSpec(field reflect.StructField, shape domain.Shape) (SeparatorSpec, error) {
	literal, hasLiteral := field.Tag.Lookup(TagSep)
	expr, hasExpr := field.Tag.Lookup(TagSepExpr)
	if !hasLiteral && !hasExpr {
		return SeparatorSpec{}, nil
	}
	if !shape.Aggregate() {
		return SeparatorSpec{}, c.fail(field.Name, domain.ErrMisplacedSeparator, "%s is not an array or list", shape)
	}

	customLiteral := hasLiteral && literal != convert.DefaultSeparator
	customExpr := hasExpr && expr != ""
	if customLiteral && customExpr {
		return SeparatorSpec{}, c.fail(field.Name, domain.ErrConflict, "both %s and %s declared", TagSep, TagSepExpr)
	}
	if customExpr {
		return SeparatorSpec{Expr: expr}, nil
	}
	if customLiteral {
		if literal == "" {
			return SeparatorSpec{}, c.fail(field.Name, domain.ErrMalformed, "empty separator")
		}
		re, err := regexp.Compile(literal)
		if err != nil {
			return SeparatorSpec{}, c.fail(field.Name, domain.ErrMalformed, "separator %q: %v", literal, err)
		}
		return SeparatorSpec{Literal: re}, nil
	}
	return SeparatorSpec{}, nil
}

func layouts(tag string) []string {
	if tag == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(tag, LayoutSeparator) {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func namespaceOf(t reflect.Type) string {
	if ns, ok := reflect.Zero(t).Interface().(Namespacer); ok {
		return ns.Namespace()
	}
	if reflect.PointerTo(t).Implements(reflect.TypeFor[Namespacer]()) {
		return reflect.New(t).Interface().(Namespacer).Namespace()
	}
	return ""
}

// rootCause returns the schema sentinel wrapped by err, if any.
func rootCause(err error) error {
	for _, sentinel := range []error{domain.ErrUnsupportedType, domain.ErrMalformed} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return err
}

type cacheKey struct {
	contract reflect.Type
	registry *convert.Registry
	style    KeyStyle
}

type cacheEntry struct {
	once   sync.Once
	schema *Schema
	err    error
}

// Cache memoizes compiled schemas per contract type, registry and key style.
// Compilation happens at most once per key, even under concurrent first use.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*cacheEntry)}
}

// Compile returns the memoized schema for contract, compiling it on first use.
// Failures are memoized too: a contract that does not compile never will.
func (c *Cache) Compile(contract reflect.Type, registry *convert.Registry, style KeyStyle) (*Schema, error) {
	key := cacheKey{contract: contract, registry: registry, style: style}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.schema, entry.err = Compile(contract, registry, style)
	})
	return entry.schema, entry.err
}

// Shared is the process-wide schema cache.
var Shared = NewCache()
