package memory

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Store implements ports.Source over an in-memory map.
// Safe for concurrent use. Values set after a bind are visible to the next
// accessor invocation.
type Store struct {
	data map[string]any
	name string
	mu   sync.RWMutex
}

// NewStore creates a store seeded with a copy of data.
func NewStore(data map[string]any) *Store {
	s := &Store{data: make(map[string]any, len(data)), name: "memory"}
	maps.Copy(s.data, data)
	return s
}

// FromStrings creates a store from string values, the common case for tests and fixtures.
func FromStrings(data map[string]string) *Store {
	s := NewStore(nil)
	for k, v := range data {
		s.data[k] = v
	}
	return s
}

// Named sets the label reported by String.
func (s *Store) Named(name string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	return s
}

// Lookup returns the raw value for key.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a raw value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// Delete removes key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data))
}

// Snapshot returns a copy of the current entries.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.data)
}

func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("%s(%d keys)", s.name, len(s.data))
}
