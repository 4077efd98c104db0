package emulator

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Styles maps a style category (lower-cased widget name or form chrome key)
// to CSS properties. Property names may be camelCase or kebab-case.
type Styles map[string]map[string]string

// Clone returns a deep copy.
func (s Styles) Clone() Styles {
	if len(s) == 0 {
		return nil
	}
	out := make(Styles, len(s))
	for category, props := range s {
		copied := make(map[string]string, len(props))
		for key, value := range props {
			copied[key] = value
		}
		out[strings.ToLower(strings.TrimSpace(category))] = copied
	}
	return out
}

// For returns the properties registered for category.
func (s Styles) For(category string) map[string]string {
	if len(s) == 0 {
		return nil
	}
	return s[strings.ToLower(strings.TrimSpace(category))]
}

// Style is an ordered set of CSS declarations, serialised in insertion order.
type Style struct {
	keys   []string
	values map[string]string
}

// Set assigns a property. An empty value removes it.
func (s *Style) Set(property, value string) {
	property = CSSProperty(property)
	if property == "" {
		return
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		if _, ok := s.values[property]; ok {
			delete(s.values, property)
			s.keys = removeKey(s.keys, property)
		}
		return
	}
	if _, ok := s.values[property]; !ok {
		s.keys = append(s.keys, property)
	}
	s.values[property] = value
}

// Get returns a property value.
func (s *Style) Get(property string) string {
	return s.values[CSSProperty(property)]
}

// Apply merges props over the current declarations. Keys are applied in
// sorted order so output stays deterministic.
func (s *Style) Apply(props map[string]string) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		s.Set(key, props[key])
	}
}

// String renders the declarations as an inline style attribute value.
func (s *Style) String() string {
	parts := make([]string, 0, len(s.keys))
	for _, key := range s.keys {
		parts = append(parts, key+": "+s.values[key])
	}
	return strings.Join(parts, "; ")
}

// WriteTo stores the declarations on node's style attribute.
func (s *Style) WriteTo(node *html.Node) {
	SetAttr(node, "style", s.String())
}

// CSSProperty converts camelCase property names (backgroundColor) into CSS
// names (background-color). Kebab-case input is returned lower-cased.
func CSSProperty(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var builder strings.Builder
	builder.Grow(len(name) + 4)
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r + ('a' - 'A'))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

func removeKey(keys []string, key string) []string {
	out := keys[:0]
	for _, existing := range keys {
		if existing != key {
			out = append(out, existing)
		}
	}
	return out
}
