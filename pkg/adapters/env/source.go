package env

import (
	"os"
	"slices"
	"strings"
	"unicode"
)

// Source implements ports.Source over process environment variables.
// The key "server.maxConns" with prefix "APP" reads APP_SERVER_MAX_CONNS.
type Source struct {
	prefix  string
	lookup  func(string) (string, bool)
	environ func() []string
}

// Option configures a Source.
type Option func(*Source)

// WithLookup replaces os.LookupEnv and os.Environ, mostly for tests.
func WithLookup(lookup func(string) (string, bool), environ func() []string) Option {
	return func(s *Source) {
		s.lookup = lookup
		s.environ = environ
	}
}

// New creates an environment source. An empty prefix maps keys without one.
func New(prefix string, opts ...Option) *Source {
	s := &Source{
		prefix:  strings.ToUpper(strings.TrimSuffix(prefix, "_")),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Variable returns the environment variable name read for key.
func (s *Source) Variable(key string) string {
	var b strings.Builder
	if s.prefix != "" {
		b.WriteString(s.prefix)
		b.WriteByte('_')
	}
	var prev rune
	for i, r := range key {
		switch {
		case r == '.' || r == '-' || r == '_':
			b.WriteByte('_')
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteByte('_')
			b.WriteRune(r)
		default:
			b.WriteRune(unicode.ToUpper(r))
		}
		prev = r
	}
	return b.String()
}

// Lookup reads the variable mapped from key.
func (s *Source) Lookup(key string) (any, bool) {
	v, ok := s.lookup(s.Variable(key))
	if !ok {
		return nil, false
	}
	return v, true
}

// Keys returns the prefixed variables as lower-case dotted keys.
// The mapping is lossy: camel case keys come back separated by dots.
func (s *Source) Keys() []string {
	var keys []string
	for _, kv := range s.environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if s.prefix != "" {
			var found bool
			if name, found = strings.CutPrefix(name, s.prefix+"_"); !found {
				continue
			}
		}
		if name == "" {
			continue
		}
		keys = append(keys, strings.ToLower(strings.ReplaceAll(name, "_", ".")))
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

func (s *Source) String() string {
	if s.prefix == "" {
		return "env"
	}
	return "env:" + s.prefix
}
