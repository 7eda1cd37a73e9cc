package redis

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	backend "github.com/redis/go-redis/v9"
)

// DefaultHash is the hash read when none is configured.
const DefaultHash = "propbind:properties"

// Source implements ports.Source over a snapshot of one Redis hash.
// Lookups never touch the network; Refresh re-reads the hash.
type Source struct {
	client  *backend.Client
	hash    string
	mu      sync.RWMutex
	entries map[string]string
}

type Option func(*Source)

// WithHash sets the hash holding the properties.
func WithHash(hash string) Option {
	return func(s *Source) {
		s.hash = hash
	}
}

// New creates a source with its own client. Call Refresh before binding.
func New(address, password string, db int, opts ...Option) *Source {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a source from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Source {
	s := &Source{
		client:  client,
		hash:    DefaultHash,
		entries: map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a source from client and reads the hash once.
func Load(ctx context.Context, client *backend.Client, opts ...Option) (*Source, error) {
	s := NewFromClient(client, opts...)
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Refresh replaces the snapshot with the current content of the hash.
func (s *Source) Refresh(ctx context.Context) error {
	entries, err := s.client.HGetAll(ctx, s.hash).Result()
	if err != nil {
		return fmt.Errorf("failed to read hash %s: %w", s.hash, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

// Publish writes values into the hash. The snapshot is not refreshed.
func (s *Source) Publish(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, 0, len(values)*2)
	for k, v := range values {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, s.hash, args...).Err(); err != nil {
		return fmt.Errorf("failed to write hash %s: %w", s.hash, err)
	}
	return nil
}

// Lookup returns the snapshot value for key.
func (s *Source) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return v, true
}

// Keys returns the snapshot keys in sorted order.
func (s *Source) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.entries))
}

// Close releases the underlying client.
func (s *Source) Close() error {
	return s.client.Close()
}

func (s *Source) String() string {
	return "redis:" + s.hash
}
