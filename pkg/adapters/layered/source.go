package layered

import (
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/propbind/pkg/ports"
)

// Source resolves each key against an ordered list of sources; the first hit wins.
// A typical stack is environment over file over built-in defaults.
type Source struct {
	layers []ports.Source
}

// New stacks sources, highest priority first. Nil sources are skipped.
func New(layers ...ports.Source) *Source {
	s := &Source{}
	for _, l := range layers {
		if l != nil {
			s.layers = append(s.layers, l)
		}
	}
	return s
}

// Lookup returns the value of the first layer holding key.
func (s *Source) Lookup(key string) (any, bool) {
	for _, l := range s.layers {
		if v, ok := l.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Origin returns the description of the layer that answers key.
func (s *Source) Origin(key string) (string, bool) {
	for _, l := range s.layers {
		if _, ok := l.Lookup(key); ok {
			return l.String(), true
		}
	}
	return "", false
}

// Keys returns the union of the keys of every enumerable layer.
func (s *Source) Keys() []string {
	set := make(map[string]struct{})
	for _, l := range s.layers {
		k, ok := l.(ports.Keyer)
		if !ok {
			continue
		}
		for _, key := range k.Keys() {
			set[key] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func (s *Source) String() string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.String()
	}
	return "layered(" + strings.Join(names, ", ") + ")"
}
