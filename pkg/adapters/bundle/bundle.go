package bundle

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/propbind/pkg/adapters/file"
	"github.com/aretw0/propbind/pkg/ports"
	"golang.org/x/text/language"
)

// Bundle is a family of sources keyed by locale.
// A lookup for fr-CA tries fr-CA, then fr, then the root source.
type Bundle struct {
	name    string
	mu      sync.RWMutex
	locales map[language.Tag]ports.Source
}

// New creates a bundle whose root (language.Und) source is root.
func New(name string, root ports.Source) *Bundle {
	b := &Bundle{name: name, locales: make(map[language.Tag]ports.Source)}
	if root != nil {
		b.locales[language.Und] = root
	}
	return b
}

// Add registers the source for tag. A later Add for the same tag replaces the source.
func (b *Bundle) Add(tag language.Tag, src ports.Source) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locales[tag] = src
}

// Tags returns the registered locales, root excluded.
func (b *Bundle) Tags() []language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	tags := make([]language.Tag, 0, len(b.locales))
	for tag := range b.locales {
		if tag != language.Und {
			tags = append(tags, tag)
		}
	}
	slices.SortFunc(tags, func(a, c language.Tag) int { return strings.Compare(a.String(), c.String()) })
	return tags
}

// For returns the source resolving keys for tag through its parent chain.
func (b *Bundle) For(tag language.Tag) ports.Source {
	b.mu.RLock()
	defer b.mu.RUnlock()

	l := &Localized{bundle: b.name, tag: tag}
	seen := make(map[language.Tag]bool)
	for t := tag; ; t = t.Parent() {
		if src, ok := b.locales[t]; ok && !seen[t] {
			l.chain = append(l.chain, src)
			seen[t] = true
		}
		if t.IsRoot() {
			break
		}
	}
	if root, ok := b.locales[language.Und]; ok && !seen[language.Und] {
		l.chain = append(l.chain, root)
	}
	return l
}

// Match picks the best registered locale for an Accept-Language header value
// and returns its source.
func (b *Bundle) Match(accept string) (ports.Source, language.Tag) {
	tags := b.Tags()
	if len(tags) == 0 {
		return b.For(language.Und), language.Und
	}
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return b.For(language.Und), language.Und
	}

	supported := append([]language.Tag{language.Und}, tags...)
	matcher := language.NewMatcher(supported)
	_, index, confidence := matcher.Match(prefs...)
	if confidence == language.No {
		return b.For(language.Und), language.Und
	}
	tag := supported[index]
	return b.For(tag), tag
}

// Load reads name.properties (or .yaml/.json) and name_<locale>.<ext> files from dir.
// Locale suffixes use underscores or dashes: messages_fr_CA.properties.
func Load(dir, name string) (*Bundle, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle dir: %w", err)
	}

	b := New(name, nil)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		base := strings.TrimSuffix(entry.Name(), ext)
		if base != name && !strings.HasPrefix(base, name+"_") {
			continue
		}

		tag := language.Und
		if suffix := strings.TrimPrefix(base, name); suffix != "" {
			tag, err = language.Parse(strings.ReplaceAll(suffix[1:], "_", "-"))
			if err != nil {
				return nil, fmt.Errorf("bad locale in %s: %w", entry.Name(), err)
			}
		}

		src, err := file.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		b.Add(tag, src)
	}
	return b, nil
}

// Localized is the view of a bundle for one locale.
type Localized struct {
	bundle string
	tag    language.Tag
	chain  []ports.Source
}

// Tag returns the requested locale.
func (l *Localized) Tag() language.Tag {
	return l.tag
}

// Lookup walks the fallback chain from the most specific locale to the root.
func (l *Localized) Lookup(key string) (any, bool) {
	for _, src := range l.chain {
		if v, ok := src.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// Keys returns the union of the keys along the chain.
func (l *Localized) Keys() []string {
	set := make(map[string]struct{})
	for _, src := range l.chain {
		if k, ok := src.(ports.Keyer); ok {
			for _, key := range k.Keys() {
				set[key] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func (l *Localized) String() string {
	return fmt.Sprintf("bundle:%s[%s]", l.bundle, l.tag)
}
