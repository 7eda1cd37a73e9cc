package substitute

import (
	"regexp"
	"strings"

	"github.com/aretw0/propbind/pkg/domain"
	"github.com/aretw0/propbind/pkg/ports"
	"github.com/spf13/cast"
)

const (
	// DefaultMaxPasses bounds the fixed-point iteration. Sources that enumerate
	// their keys raise it to len(keys)+2 when that is larger, which is enough
	// for any acyclic chain.
	DefaultMaxPasses = 256

	// DefaultMaxLength bounds the size of an expanded value in bytes.
	DefaultMaxLength = 1 << 20
)

// referencePattern matches the innermost [name] references.
var referencePattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Resolver expands references against a source.
// A Resolver is immutable and safe for concurrent use.
type Resolver struct {
	maxPasses int
	maxLength int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxPasses overrides DefaultMaxPasses.
func WithMaxPasses(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxPasses = n
		}
	}
}

// WithMaxLength overrides DefaultMaxLength.
func WithMaxLength(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxLength = n
		}
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		maxPasses: DefaultMaxPasses,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Substitute expands every reference in value to a fixed point.
func (r *Resolver) Substitute(src ports.Source, value string) (string, error) {
	if !strings.Contains(value, "[") {
		return value, nil
	}

	limit := r.passLimit(src)
	current := value
	for pass := 1; ; pass++ {
		next := referencePattern.ReplaceAllStringFunc(current, func(match string) string {
			return lookupString(src, match[1:len(match)-1])
		})
		if next == current {
			return next, nil
		}
		if len(next) > r.maxLength {
			return "", &domain.CyclicReferenceError{Value: value, Passes: pass, Limit: "length limit"}
		}
		if pass >= limit {
			return "", &domain.CyclicReferenceError{Value: value, Passes: pass, Limit: "pass limit"}
		}
		current = next
	}
}

// References returns the distinct key names referenced directly by value, in order of appearance.
func (r *Resolver) References(value string) []string {
	matches := referencePattern.FindAllStringSubmatch(value, -1)
	seen := make(map[string]bool, len(matches))
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		refs = append(refs, m[1])
	}
	return refs
}

func (r *Resolver) passLimit(src ports.Source) int {
	limit := r.maxPasses
	if k, ok := src.(ports.Keyer); ok {
		if n := len(k.Keys()) + 2; n > limit {
			limit = n
		}
	}
	return limit
}

func lookupString(src ports.Source, key string) string {
	raw, ok := src.Lookup(key)
	if !ok || raw == nil {
		return ""
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return ""
	}
	return s
}

var defaultResolver = New()

// Substitute expands value against src with the default limits.
func Substitute(src ports.Source, value string) (string, error) {
	return defaultResolver.Substitute(src, value)
}
