package compiler

import (
	"strings"
	"unicode"
)

// KeyStyle derives a key from an accessor name when no explicit key is declared.
type KeyStyle int

const (
	// KeyLowerCamel maps MaxConns to maxConns and URLPath to urlPath.
	KeyLowerCamel KeyStyle = iota
	// KeySnake maps MaxConns to max_conns.
	KeySnake
	// KeyDotted maps MaxConns to max.conns.
	KeyDotted
	// KeyExact uses the accessor name unchanged.
	KeyExact
)

// Key applies the style to an accessor name.
func (s KeyStyle) Key(name string) string {
	switch s {
	case KeySnake:
		return strings.ToLower(strings.Join(splitWords(name), "_"))
	case KeyDotted:
		return strings.ToLower(strings.Join(splitWords(name), "."))
	case KeyExact:
		return name
	}
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	words[0] = strings.ToLower(words[0])
	return strings.Join(words, "")
}

// splitWords splits a Go identifier at case changes, keeping acronyms together.
func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case cur == '_':
			boundary = true
		case unicode.IsUpper(cur) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			boundary = true
		case unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			boundary = true
		}
		if boundary {
			if w := strings.Trim(string(runes[start:i]), "_"); w != "" {
				words = append(words, w)
			}
			start = i
		}
	}
	if w := strings.Trim(string(runes[start:]), "_"); w != "" {
		words = append(words, w)
	}
	return words
}
