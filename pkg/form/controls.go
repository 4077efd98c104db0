package form

import (
	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/formstate"
)

// Style categories for form chrome overrides.
const (
	StyleForm         = "form"
	StyleFormGroup    = "form-group"
	StyleLabel        = "label"
	StyleInput        = "input"
	StyleSubmitButton = "submit-button"
)

// Control defaults.
const (
	DefaultSubmitLabel = "Submit"
	ButtonPlaceholder  = "Enter button label"
	ImageAccept        = "image/*"
)

// Control is the template-facing view of one field.
type Control struct {
	ID          string
	Name        string
	Kind        descriptor.FieldType
	InputType   string
	Label       string
	Help        string
	Placeholder string
	Accept      string
	MaxLength   int
	Value       string

	GroupStyle string
	LabelStyle string
	InputStyle string
}

// NewControl maps a descriptor onto a control. value is the current text for
// non-file fields; file inputs never echo a value.
func NewControl(field descriptor.Field, value string) Control {
	control := Control{
		ID:          field.Param,
		Name:        field.Param,
		Kind:        field.Type,
		InputType:   "text",
		Label:       field.DisplayLabel(),
		Help:        SanitizeHelp(field.Help),
		Placeholder: field.Placeholder,
		Value:       value,
	}

	switch field.Type {
	case descriptor.FieldTypeString:
		control.MaxLength = field.MaxLength()
		control.Value = field.Clamp(value)
	case descriptor.FieldTypeButton:
		if control.Placeholder == "" {
			control.Placeholder = ButtonPlaceholder
		}
	case descriptor.FieldTypeFile:
		control.InputType = "file"
		control.Accept = ImageAccept
		control.Value = ""
	}
	return control
}

// Controls maps fields in declaration order, reading current values from
// values when provided. Handle values are not echoed back.
func Controls(fields []descriptor.Field, values formstate.View, styles emulator.Styles) []Control {
	groupStyle := inlineStyle(styles.For(StyleFormGroup))
	labelStyle := inlineStyle(styles.For(StyleLabel))
	inputStyle := inlineStyle(styles.For(StyleInput))

	controls := make([]Control, 0, len(fields))
	for _, field := range fields {
		var current string
		if values != nil {
			if value, ok := values.Lookup(field.Param); ok && !value.IsHandle() {
				current = value.Text
			}
		}
		control := NewControl(field, current)
		control.GroupStyle = groupStyle
		control.LabelStyle = labelStyle
		control.InputStyle = inputStyle
		controls = append(controls, control)
	}
	return controls
}

func (c Control) context() map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"kind":        string(c.Kind),
		"input_type":  c.InputType,
		"label":       c.Label,
		"help":        c.Help,
		"placeholder": c.Placeholder,
		"accept":      c.Accept,
		"max_length":  c.MaxLength,
		"value":       c.Value,
		"group_style": c.GroupStyle,
		"label_style": c.LabelStyle,
		"input_style": c.InputStyle,
	}
}

func inlineStyle(props map[string]string) string {
	if len(props) == 0 {
		return ""
	}
	var style emulator.Style
	style.Apply(props)
	return style.String()
}
