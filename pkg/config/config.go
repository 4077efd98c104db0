package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/layout"
)

// DefaultLayoutPath locates the layout template inside a document.
const DefaultLayoutPath = "$.formattedString.RCSMessage.openrichcardMessage.layout"

var (
	// ErrEmpty is returned for blank documents.
	ErrEmpty = errors.New("config: document is empty")
	// ErrLayoutMissing is returned when the layout path matches nothing.
	ErrLayoutMissing = errors.New("config: layout not found")
)

// Option configures document loading.
type Option func(*options)

type options struct {
	layoutPath string
}

// WithLayoutPath overrides DefaultLayoutPath. The path is a JSONPath
// expression evaluated against the whole document.
func WithLayoutPath(path string) Option {
	return func(o *options) {
		if path = strings.TrimSpace(path); path != "" {
			o.layoutPath = path
		}
	}
}

// Document is a loaded configuration. Layout holds the template exactly as
// parsed, with its placeholder tokens intact.
type Document struct {
	Source     string
	LayoutPath string
	Params     []descriptor.Field
	Layout     map[string]any
}

// LayoutNode converts the template into a node tree without resolving
// tokens.
func (d Document) LayoutNode() (layout.Node, error) {
	return layout.FromValue(d.Layout)
}

// Template serialises the layout template to compact JSON.
func (d Document) Template() (string, error) {
	return layout.Serialize(d.Layout)
}

// Field returns the descriptor for param.
func (d Document) Field(param string) (descriptor.Field, bool) {
	for _, field := range d.Params {
		if field.Param == param {
			return field, true
		}
	}
	return descriptor.Field{}, false
}

// LoadFile reads a document from disk.
func LoadFile(path string, opts ...Option) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// LoadFS reads a document from fsys.
func LoadFS(fsys fs.FS, name string, opts ...Option) (Document, error) {
	if fsys == nil {
		return Document{}, fmt.Errorf("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Document{}, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name, opts...)
}

// Parse decodes a JSON or YAML document and validates its params.
func Parse(data []byte, source string, opts ...Option) (Document, error) {
	o := options{layoutPath: DefaultLayoutPath}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrEmpty, source)
	}

	root, file, err := decode(data, source)
	if err != nil {
		return Document{}, err
	}

	if err := descriptor.Validate(file.Params); err != nil {
		return Document{}, fmt.Errorf("config: %s: %w", source, err)
	}

	template, err := extractLayout(root, o.layoutPath, source)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Source:     source,
		LayoutPath: o.layoutPath,
		Params:     file.Params,
		Layout:     template,
	}, nil
}

type documentFile struct {
	Params []descriptor.Field `json:"params" yaml:"params"`
}

func decode(data []byte, source string) (any, documentFile, error) {
	var file documentFile
	if err := json.Unmarshal(data, &file); err == nil {
		if root, err := oj.Parse(data); err == nil {
			return root, file, nil
		}
	}

	file = documentFile{}
	if err := yaml.Unmarshal(data, &file); err == nil {
		var root any
		if err := yaml.Unmarshal(data, &root); err == nil {
			return normaliseYAML(root), file, nil
		}
	}

	return nil, documentFile{}, fmt.Errorf("config: parse %s: invalid JSON or YAML", source)
}

func extractLayout(root any, path, source string) (map[string]any, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("config: layout path %q: %w", path, err)
	}

	matches := expr.Get(root)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w at %s (%s)", ErrLayoutMissing, path, source)
	}
	template, ok := matches[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: layout at %s is %T, want an object (%s)", path, matches[0], source)
	}
	return template, nil
}

// normaliseYAML converts map[any]any nodes into map[string]any so the tree
// matches what the JSON decoder produces.
func normaliseYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = normaliseYAML(item)
		}
		return typed
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normaliseYAML(item)
		}
		return out
	case []any:
		for idx, item := range typed {
			typed[idx] = normaliseYAML(item)
		}
		return typed
	default:
		return typed
	}
}

// IsDocumentFile reports whether path has a supported extension.
func IsDocumentFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
