package file

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Format identifies a file syntax.
type Format string

const (
	FormatProperties Format = "properties"
	FormatYAML       Format = "yaml"
	FormatJSON       Format = "json"
)

// FormatOf infers the format from a file extension. Unknown extensions read as properties.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatProperties
}

// Source implements ports.Source over a file snapshot.
// Nested YAML and JSON mappings are flattened into dotted keys; scalars keep
// their literal text so that conversion happens at the accessor, not here.
type Source struct {
	name    string
	entries map[string]any
}

// Open reads and parses the file at path.
func Open(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	src, err := Parse(bytes.NewReader(data), FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	src.name = "file:" + path
	return src, nil
}

// Parse reads a document of the given format.
func Parse(r io.Reader, format Format) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	src := &Source{name: string(format), entries: make(map[string]any)}
	switch format {
	case FormatProperties:
		err = src.readProperties(data)
	case FormatYAML, FormatJSON:
		err = src.readTree(data)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *Source) readProperties(data []byte) error {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return err
	}
	for k, v := range p.Map() {
		s.entries[k] = v
	}
	return nil
}

func (s *Source) readTree(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("document root must be a mapping, got %s", kindName(root.Kind))
	}
	return s.flatten("", root)
}

func (s *Source) flatten(prefix string, node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if prefix != "" {
			key = prefix + "." + key
		}
		value := resolve(node.Content[i+1])

		switch value.Kind {
		case yaml.MappingNode:
			if err := s.flatten(key, value); err != nil {
				return err
			}
		case yaml.SequenceNode:
			seq, err := sequence(value)
			if err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			s.entries[key] = seq
		case yaml.ScalarNode:
			if value.Tag == "!!null" {
				continue
			}
			s.entries[key] = value.Value
		}
	}
	return nil
}

// sequence keeps scalar items as their literal text and decodes anything else
// as a plain value for pass-through conversion.
func sequence(node *yaml.Node) ([]any, error) {
	out := make([]any, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolve(item)
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
			continue
		}
		var v any
		if err := item.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	}
	return "document"
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
	return s.name
}
