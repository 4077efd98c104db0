package emulator

import (
	"regexp"
	"strconv"

	"github.com/goliatone/go-richcard/pkg/layout"
)

// Canonical widget names.
const (
	WidgetLinearLayout = "LinearLayout"
	WidgetTextView     = "TextView"
	WidgetImageView    = "ImageView"
	WidgetButton       = "Button"
	WidgetView         = "View"
)

// Defaults holds the fallbacks used when a node omits an attribute.
type Defaults struct {
	TextColor        string
	TextSize         string
	ButtonCaption    string
	ButtonBackground string
	ButtonColor      string
	Image            string
	ImageWidth       int
	ImageHeight      int
}

// DefaultValues returns the stock defaults.
func DefaultValues() Defaults {
	return Defaults{
		TextColor:        "#000",
		TextSize:         "16px",
		ButtonCaption:    "Button",
		ButtonBackground: "#ddd",
		ButtonColor:      "#000",
		Image:            "default.png",
		ImageWidth:       50,
		ImageHeight:      50,
	}
}

// Merge overlays the non-zero fields of other.
func (d Defaults) Merge(other Defaults) Defaults {
	if other.TextColor != "" {
		d.TextColor = other.TextColor
	}
	if other.TextSize != "" {
		d.TextSize = other.TextSize
	}
	if other.ButtonCaption != "" {
		d.ButtonCaption = other.ButtonCaption
	}
	if other.ButtonBackground != "" {
		d.ButtonBackground = other.ButtonBackground
	}
	if other.ButtonColor != "" {
		d.ButtonColor = other.ButtonColor
	}
	if other.Image != "" {
		d.Image = other.Image
	}
	if other.ImageWidth > 0 {
		d.ImageWidth = other.ImageWidth
	}
	if other.ImageHeight > 0 {
		d.ImageHeight = other.ImageHeight
	}
	return d
}

// NewDefaultRegistry returns a registry with the built-in widgets and their
// generic aliases.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()

	registry.MustRegister(WidgetLinearLayout, Descriptor{Builder: buildLinearLayout})
	registry.MustRegister(WidgetTextView, Descriptor{Builder: buildTextView})
	registry.MustRegister(WidgetImageView, Descriptor{Builder: buildImageView})
	registry.MustRegister(WidgetButton, Descriptor{Builder: buildButton})
	registry.MustRegister(WidgetView, Descriptor{Builder: buildView})

	for alias, target := range map[string]string{
		"Container": WidgetLinearLayout,
		"Text":      WidgetTextView,
		"Image":     WidgetImageView,
		"Spacer":    WidgetView,
	} {
		if err := registry.Alias(alias, target); err != nil {
			panic(err)
		}
	}
	return registry
}

func buildLinearLayout(node layout.Node, _ BuildContext) (Output, error) {
	out := Output{Element: Element("div")}
	out.Style.Set("display", "flex")
	direction := "column"
	if orientation, _ := node.Attr(layout.AttrOrientation); orientation == "horizontal" {
		direction = "row"
	}
	out.Style.Set("flex-direction", direction)
	return out, nil
}

func buildTextView(node layout.Node, ctx BuildContext) (Output, error) {
	out := Output{Element: Element("p")}
	text, _ := node.Attr(layout.AttrText)
	SetText(out.Element, text)
	out.Style.Set("color", node.AttrOr(layout.AttrTextColor, ctx.Defaults.TextColor))
	out.Style.Set("font-size", cssLength(node.AttrOr(layout.AttrTextSize, ctx.Defaults.TextSize)))
	return out, nil
}

func buildImageView(node layout.Node, ctx BuildContext) (Output, error) {
	out := Output{Element: Element("img")}
	SetAttr(out.Element, "src", node.AttrOr(layout.AttrMediaURL, ctx.Defaults.Image))
	SetAttr(out.Element, "width", strconv.Itoa(leadingInt(node.AttrOr(layout.AttrWidth, ""), ctx.Defaults.ImageWidth)))
	SetAttr(out.Element, "height", strconv.Itoa(leadingInt(node.AttrOr(layout.AttrHeight, ""), ctx.Defaults.ImageHeight)))
	return out, nil
}

func buildButton(node layout.Node, ctx BuildContext) (Output, error) {
	out := Output{Element: Element("button")}
	SetText(out.Element, node.AttrOr(layout.AttrText, ctx.Defaults.ButtonCaption))
	out.Style.Set("background-color", node.AttrOr(layout.AttrBackground, ctx.Defaults.ButtonBackground))
	out.Style.Set("color", node.AttrOr(layout.AttrTextColor, ctx.Defaults.ButtonColor))
	return out, nil
}

func buildView(node layout.Node, _ BuildContext) (Output, error) {
	out := Output{Element: Element("div")}
	out.Style.Set("height", node.AttrOr(layout.AttrHeight, ""))
	out.Style.Set("background", node.AttrOr(layout.AttrBackground, ""))
	return out, nil
}

var leadingIntPattern = regexp.MustCompile(`^\s*([+-]?\d+)`)

// leadingInt parses the integer prefix of value ("120px" → 120). Missing,
// zero or negative values yield fallback.
func leadingInt(value string, fallback int) int {
	match := leadingIntPattern.FindStringSubmatch(value)
	if len(match) != 2 {
		return fallback
	}
	parsed, err := strconv.Atoi(match[1])
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

// cssLength appends px to bare numbers.
func cssLength(value string) string {
	if value == "" {
		return value
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return value + "px"
	}
	return value
}
