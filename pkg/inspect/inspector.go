package inspect

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/aretw0/propbind/pkg/substitute"
	"github.com/spf13/cast"
)

// Contract is the contract name reported in lifecycle events fired by an Inspector.
const Contract = "inspect"

// ErrNotEnumerable is returned when the source does not implement ports.Keyer.
var ErrNotEnumerable = errors.New("source does not enumerate its keys")

// Problem kinds reported by Check.
const (
	ProblemMissingReference = "missing reference"
	ProblemCycle            = "cycle"
)

// Entry is one key of a source, before and after reference expansion.
type Entry struct {
	Key   string
	Raw   any
	Value string
	// Err is set when the value could not be expanded; Value is empty then.
	Err error
}

// Problem is one issue found in a source.
type Problem struct {
	Key    string
	Kind   string
	Detail string
}

// Inspector gives untyped, read-only access to a source.
type Inspector struct {
	source   ports.Source
	resolver *substitute.Resolver
	hooks    domain.LifecycleHooks
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithResolver replaces the default substitution resolver.
func WithResolver(r *substitute.Resolver) Option {
	return func(i *Inspector) {
		i.resolver = r
	}
}

// WithLifecycleHooks registers hooks fired once per inspected key.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(i *Inspector) {
		i.hooks = hooks
	}
}

// New creates an Inspector over src.
func New(src ports.Source, opts ...Option) *Inspector {
	i := &Inspector{source: src, resolver: substitute.New()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Source returns the inspected source.
func (i *Inspector) Source() ports.Source {
	return i.source
}

// Get looks key up and expands its references unless verbatim is set.
// Non-string raw values are stringified and never expanded.
func (i *Inspector) Get(key string, verbatim bool) (Entry, bool) {
	start := time.Now()
	raw, ok := i.source.Lookup(key)
	if !ok {
		i.fire(key, "get", domain.OriginNil, start, nil)
		return Entry{Key: key}, false
	}
	e := i.expand(key, raw, verbatim)
	i.fire(key, "get", domain.OriginSource, start, e.Err)
	return e, true
}

// List returns every key of an enumerable source, in the source's order.
func (i *Inspector) List() ([]Entry, error) {
	keyer, ok := i.source.(ports.Keyer)
	if !ok {
		return nil, ErrNotEnumerable
	}
	keys := keyer.Keys()
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		start := time.Now()
		raw, _ := i.source.Lookup(key)
		e := i.expand(key, raw, false)
		i.fire(key, "list", domain.OriginSource, start, e.Err)
		entries = append(entries, e)
	}
	return entries, nil
}

// Check expands every value of an enumerable source and reports references
// to absent keys and values that never reach a fixed point, sorted by key.
func (i *Inspector) Check() ([]Problem, error) {
	keyer, ok := i.source.(ports.Keyer)
	if !ok {
		return nil, ErrNotEnumerable
	}
	return Check(i.source, keyer.Keys(), i.resolver), nil
}

func (i *Inspector) expand(key string, raw any, verbatim bool) Entry {
	e := Entry{Key: key, Raw: raw}
	text, isString := raw.(string)
	if !isString {
		s, err := cast.ToStringE(raw)
		if err != nil {
			e.Err = &domain.ConversionError{Key: key, Value: raw, Target: "string", Err: err}
			return e
		}
		e.Value = s
		return e
	}
	if verbatim {
		e.Value = text
		return e
	}
	value, err := i.resolver.Substitute(i.source, text)
	if err != nil {
		e.Err = fmt.Errorf("expand %q: %w", key, err)
		return e
	}
	e.Value = value
	return e
}

func (i *Inspector) fire(key, accessor string, origin domain.Origin, start time.Time, err error) {
	if i.hooks.OnAccess == nil {
		return
	}
	i.hooks.OnAccess(&domain.AccessEvent{
		Contract: Contract,
		Accessor: accessor,
		Key:      key,
		Origin:   origin,
		Duration: time.Since(start),
		Err:      err,
	})
}

// Check reports reference problems of the given keys of src.
func Check(src ports.Source, keys []string, resolver *substitute.Resolver) []Problem {
	var problems []Problem
	for _, key := range keys {
		raw, ok := src.Lookup(key)
		if !ok {
			continue
		}
		value, err := cast.ToStringE(raw)
		if err != nil {
			continue
		}

		for _, ref := range resolver.References(value) {
			if _, found := src.Lookup(ref); !found {
				problems = append(problems, Problem{Key: key, Kind: ProblemMissingReference, Detail: ref})
			}
		}

		if _, err := resolver.Substitute(src, value); err != nil {
			var cyclic *domain.CyclicReferenceError
			if errors.As(err, &cyclic) {
				problems = append(problems, Problem{Key: key, Kind: ProblemCycle, Detail: cyclic.Limit})
			}
		}
	}
	slices.SortStableFunc(problems, func(a, b Problem) int {
		return strings.Compare(a.Key, b.Key)
	})
	return problems
}
