package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-richcard/pkg/emulator"
)

// LoadStylesFile reads style overrides from disk.
func LoadStylesFile(path string) (emulator.Styles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read styles %s: %w", path, err)
	}
	return ParseStyles(data, path)
}

// LoadStyles reads style overrides from fsys.
func LoadStyles(fsys fs.FS, name string) (emulator.Styles, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("config: read styles %s: %w", name, err)
	}
	return ParseStyles(data, name)
}

// ParseStyles decodes a category → property map from JSON or YAML. Scalar
// property values are formatted as strings; nested values are rejected.
func ParseStyles(data []byte, source string) (emulator.Styles, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = nil
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil {
			return nil, fmt.Errorf("config: parse styles %s: invalid JSON or YAML", source)
		}
	}

	styles := make(emulator.Styles, len(raw))
	for category, props := range raw {
		converted := make(map[string]string, len(props))
		for property, value := range props {
			switch value.(type) {
			case map[string]any, map[any]any, []any:
				return nil, fmt.Errorf("config: styles %s: %s.%s must be a scalar", source, category, property)
			case nil:
				converted[property] = ""
			default:
				converted[property] = fmt.Sprint(value)
			}
		}
		styles[category] = converted
	}
	return styles.Clone(), nil
}
