// Package placeholder resolves `{{key}}` tokens in a serialised layout
// template against FormState values and parses the result.
//
// A pass runs in a fixed order: the visibility rule first (it reads the key
// names, not substituted values), then literal replacement of every known
// key, then removal of any token left over, then JSON parsing.
package placeholder

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/goliatone/go-richcard/pkg/formstate"
	"github.com/goliatone/go-richcard/pkg/layout"
)

var (
	visibilityPattern = regexp.MustCompile(`"visibility":\s*"\{\{(.*?)\}\}"`)
	tokenPattern      = regexp.MustCompile(`\{\{(.*?)\}\}`)
)

// Substituter resolves templates. It is immutable after construction.
type Substituter struct {
	cfg config
}

// New constructs a Substituter.
func New(options ...Option) *Substituter {
	cfg := config{
		defaultImage:  DefaultImage,
		titleMediaKey: DefaultTitleMediaKey,
		encoder:       EncodeValue,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Substituter{cfg: cfg}
}

// DefaultImage reports the configured fallback image reference.
func (s *Substituter) DefaultImage() string {
	return s.cfg.defaultImage
}

// Token returns the placeholder token for key.
func Token(key string) string {
	return "{{" + key + "}}"
}

// Tokens lists the distinct keys referenced by text, sorted.
func Tokens(text string) []string {
	var keys []string
	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !slices.Contains(keys, match[1]) {
			keys = append(keys, match[1])
		}
	}
	slices.Sort(keys)
	return keys
}

// Resolve performs substitution on template text and returns the resolved
// text. The result contains no `{{...}}` tokens.
func (s *Substituter) Resolve(values formstate.View, text string) string {
	text = s.applyVisibility(values, text)

	if values != nil {
		for _, key := range values.Keys() {
			value, _ := values.Lookup(key)
			text = strings.ReplaceAll(text, Token(key), s.valueFor(key, value))
		}
	}

	return tokenPattern.ReplaceAllLiteralString(text, "")
}

// Render resolves and parses text into a layout tree. Parse failures are
// reported as *RenderError with KindMalformedLayout.
func (s *Substituter) Render(values formstate.View, text string) (layout.Node, error) {
	resolved := s.Resolve(values, text)
	node, err := layout.Parse(resolved)
	if err != nil {
		return layout.Node{}, &RenderError{Kind: KindMalformedLayout, Text: resolved, Err: err}
	}
	return node, nil
}

// RenderValue serialises a parsed template before rendering it.
func (s *Substituter) RenderValue(values formstate.View, template any) (layout.Node, error) {
	text, err := layout.Serialize(template)
	if err != nil {
		return layout.Node{}, &RenderError{Kind: KindTemplate, Err: err}
	}
	return s.Render(values, text)
}

func (s *Substituter) applyVisibility(values formstate.View, text string) string {
	return visibilityPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := visibilityPattern.FindStringSubmatch(match)
		state := layout.Gone
		if len(groups) == 2 && values != nil {
			if value, ok := values.Lookup(groups[1]); ok && value.Truthy() {
				state = layout.Visible
			}
		}
		return fmt.Sprintf(`"visibility": "%s"`, state)
	})
}

func (s *Substituter) valueFor(key string, value formstate.Value) string {
	if value.IsHandle() {
		return value.Handle.URL
	}
	text := value.Text
	if key == s.cfg.titleMediaKey && (text == "" || text == Token(key)) {
		return s.cfg.defaultImage
	}
	if text == "" {
		return ""
	}
	return s.cfg.encoder(text)
}
