package loam

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/adapters/fs"
	"github.com/aretw0/loam/pkg/core"
	"github.com/spf13/cast"
)

// Source implements ports.Source over the metadata of one Loam document.
// Frontmatter mappings are flattened into dotted keys and scalars are read as
// text, matching the file adapter.
type Source struct {
	id      string
	entries map[string]any
}

// Option configures a Source.
type Option func(*options)

type options struct {
	contentKey string
}

// WithContentKey exposes the document body under key.
func WithContentKey(key string) Option {
	return func(o *options) {
		o.contentKey = key
	}
}

// Open initializes a read-only Loam repository at dir and loads document id.
func Open(ctx context.Context, dir, id string, opts ...Option) (*Source, error) {
	repo, err := loam.Init(dir,
		loam.WithReadOnly(true),
		loam.WithSerializer(".json", fs.NewJSONSerializer(true)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return Load(ctx, repo, id, opts...)
}

// Load reads document id from repo.
func Load(ctx context.Context, repo core.Repository, id string, opts ...Option) (*Source, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	doc, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	s := &Source{id: id, entries: make(map[string]any)}
	if err := s.flatten("", doc.Metadata); err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}
	if o.contentKey != "" {
		s.entries[o.contentKey] = doc.Content
	}
	return s, nil
}

func (s *Source) flatten(prefix string, meta map[string]any) error {
	for k, v := range meta {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case nil:
		case map[string]any:
			if err := s.flatten(key, val); err != nil {
				return err
			}
		case []any:
			items := make([]any, len(val))
			for i, item := range val {
				if text, err := cast.ToStringE(item); err == nil {
					items[i] = text
				} else {
					items[i] = item
				}
			}
			s.entries[key] = items
		default:
			text, err := cast.ToStringE(val)
			if err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			s.entries[key] = text
		}
	}
	return nil
}

// Lookup returns the raw value for key.
func (s *Source) Lookup(key string) (any, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Keys returns all keys in sorted order.
func (s *Source) Keys() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

func (s *Source) String() string {
	return "loam:" + s.id
}
