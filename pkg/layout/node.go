// Package layout models the rich card widget tree. Templates and resolved
// layouts share the same shape: a node carries a `widget` name, free-form
// attributes and an ordered `children` list.
package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/oj"
)

const (
	keyWidget   = "widget"
	keyChildren = "children"
)

// Common attribute names read by the preview renderer.
const (
	AttrText        = "text"
	AttrTextColor   = "textColor"
	AttrTextSize    = "textSize"
	AttrOrientation = "orientation"
	AttrVisibility  = "visibility"
	AttrMediaURL    = "mediaUrl"
	AttrWidth       = "width"
	AttrHeight      = "height"
	AttrBackground  = "background"
)

// Visibility values produced by the substitution pass.
const (
	Visible = "visible"
	Gone    = "gone"
)

// Node is one widget in the tree.
type Node struct {
	Widget   string
	Attrs    map[string]any
	Children []Node
}

// Parse decodes JSON text into a Node tree.
func Parse(text string) (Node, error) {
	value, err := oj.ParseString(text)
	if err != nil {
		return Node{}, fmt.Errorf("layout: parse: %w", err)
	}
	return FromValue(value)
}

// FromValue converts generic JSON data (maps, slices, scalars) into a Node.
// The root must be an object; non-object children become nodes without a
// widget name so the renderer can report and skip them.
func FromValue(value any) (Node, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return Node{}, fmt.Errorf("layout: expected object at root, got %T", value)
	}
	return fromObject(obj), nil
}

func fromObject(obj map[string]any) Node {
	node := Node{Attrs: make(map[string]any, len(obj))}
	for key, raw := range obj {
		switch key {
		case keyWidget:
			node.Widget = scalarString(raw)
		case keyChildren:
			items, _ := raw.([]any)
			node.Children = make([]Node, 0, len(items))
			for _, item := range items {
				child, ok := item.(map[string]any)
				if !ok {
					node.Children = append(node.Children, Node{})
					continue
				}
				node.Children = append(node.Children, fromObject(child))
			}
		default:
			node.Attrs[key] = raw
		}
	}
	return node
}

// Attr returns an attribute rendered as a string. Numbers and booleans are
// formatted; objects, arrays and null report false.
func (n Node) Attr(name string) (string, bool) {
	raw, ok := n.Attrs[name]
	if !ok || raw == nil {
		return "", false
	}
	switch raw.(type) {
	case map[string]any, []any:
		return "", false
	}
	return scalarString(raw), true
}

// AttrOr returns the attribute or fallback when the attribute is missing or
// empty.
func (n Node) AttrOr(name, fallback string) string {
	if value, ok := n.Attr(name); ok && value != "" {
		return value
	}
	return fallback
}

// Hidden reports whether the node resolved to visibility "gone".
func (n Node) Hidden() bool {
	value, _ := n.Attr(AttrVisibility)
	return value == Gone
}

// AttrNames returns attribute names in sorted order.
func (n Node) AttrNames() []string {
	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Serialize renders generic JSON data as compact text without HTML escaping,
// the form placeholder substitution operates on.
func Serialize(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("layout: serialize: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func scalarString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
