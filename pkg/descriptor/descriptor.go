package descriptor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldType is the control kind requested by a descriptor.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeButton FieldType = "button"
	FieldTypeFile   FieldType = "file"
)

var (
	errParamMissing = errors.New("descriptor: param is required")
	errNegativeSize = errors.New("descriptor: strSize must not be negative")
)

// Field describes one form control. Label, Help and Placeholder are optional
// presentation hints; the label falls back to Param.
type Field struct {
	Param       string    `json:"param" yaml:"param"`
	Type        FieldType `json:"type" yaml:"type"`
	StrSize     int       `json:"strSize,omitempty" yaml:"strSize,omitempty"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// DisplayLabel returns the label rendered next to the control.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Param
}

// IsFile reports whether the field collects a file instead of text.
func (f Field) IsFile() bool {
	return f.Type == FieldTypeFile
}

// MaxLength returns the enforced input length, zero meaning unbounded.
func (f Field) MaxLength() int {
	if f.Type != FieldTypeString || f.StrSize <= 0 {
		return 0
	}
	return f.StrSize
}

// Clamp truncates value to the field's maximum length, counted in characters.
func (f Field) Clamp(value string) string {
	limit := f.MaxLength()
	if limit == 0 || utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit])
}

// Validate checks a descriptor list for empty keys, negative sizes and
// duplicate params.
func Validate(fields []Field) error {
	seen := make(map[string]int, len(fields))
	for idx, field := range fields {
		if strings.TrimSpace(field.Param) == "" {
			return fmt.Errorf("%w (index %d)", errParamMissing, idx)
		}
		if field.StrSize < 0 {
			return fmt.Errorf("%w (param %q)", errNegativeSize, field.Param)
		}
		if prev, exists := seen[field.Param]; exists {
			return fmt.Errorf("descriptor: duplicate param %q (index %d and %d)", field.Param, prev, idx)
		}
		seen[field.Param] = idx
	}
	return nil
}

// Index returns the descriptors keyed by param.
func Index(fields []Field) map[string]Field {
	out := make(map[string]Field, len(fields))
	for _, field := range fields {
		out[field.Param] = field
	}
	return out
}
