package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/form"
)

// Token names.
const (
	TokenTextColor        = "text.color"
	TokenTextSize         = "text.size"
	TokenButtonBackground = "button.background"
	TokenButtonColor      = "button.color"
	TokenButtonCaption    = "button.caption"
	TokenImageDefault     = "image.default"
	TokenImageWidth       = "image.width"
	TokenImageHeight      = "image.height"
	TokenSubmitLabel      = "form.submit"

	stylePrefix = "style."
)

// Template keys looked up in the manifest.
const (
	TemplateForm  = "richcard.form"
	TemplateField = "richcard.field"
)

// AssetImageDefault names the asset used as fallback image when the
// image.default token is absent.
const AssetImageDefault = "image.default"

// ErrNoSelection is returned when the selector yields nothing.
var ErrNoSelection = errors.New("theme: selector returned no selection")

// Resolved is a theme flattened for the renderers.
type Resolved struct {
	Theme       string
	Variant     string
	Tokens      map[string]string
	Templates   map[string]string
	Defaults    emulator.Defaults
	Styles      emulator.Styles
	SubmitLabel string
	Config      *gotheme.RendererConfig
}

// FormTemplates maps the manifest template keys onto the form builder's
// logical template names.
func (r Resolved) FormTemplates() map[string]string {
	out := make(map[string]string, 2)
	if name := r.Templates[TemplateForm]; name != "" {
		out[form.TemplateForm] = name
	}
	if name := r.Templates[TemplateField]; name != "" {
		out[form.TemplateField] = name
	}
	return out
}

// CSSVars returns the custom properties derived from tokens.
func (r Resolved) CSSVars() map[string]string {
	if r.Config == nil {
		return nil
	}
	return copyMap(r.Config.CSSVars)
}

// Resolve asks selector for name/variant and flattens the result.
func Resolve(selector gotheme.ThemeSelector, name, variant string, opts ...gotheme.QueryOption) (Resolved, error) {
	if selector == nil {
		return Resolved{}, fmt.Errorf("theme: selector is nil")
	}
	selection, err := selector.Select(name, variant, opts...)
	if err != nil {
		return Resolved{}, fmt.Errorf("theme: select %q/%q: %w", name, variant, err)
	}
	if selection == nil {
		return Resolved{}, ErrNoSelection
	}
	return FromSelection(selection), nil
}

// FromSelection merges manifest and variant values. Variant tokens,
// templates and assets win over the manifest's.
func FromSelection(selection *gotheme.Selection) Resolved {
	resolved := Resolved{
		Theme:     selection.Theme,
		Variant:   selection.Variant,
		Tokens:    map[string]string{},
		Templates: map[string]string{},
	}

	prefix := ""
	files := map[string]string{}
	if manifest := selection.Manifest; manifest != nil {
		merge(resolved.Tokens, manifest.Tokens)
		merge(resolved.Templates, manifest.Templates)
		merge(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			merge(resolved.Tokens, variant.Tokens)
			merge(resolved.Templates, variant.Templates)
			merge(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	assetURL := func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}

	resolved.Config = &gotheme.RendererConfig{
		Theme:    resolved.Theme,
		Variant:  resolved.Variant,
		Partials: copyMap(resolved.Templates),
		Tokens:   copyMap(resolved.Tokens),
		CSSVars:  cssVars(resolved.Tokens),
		AssetURL: assetURL,
	}
	resolved.Defaults = defaultsFrom(resolved.Tokens, assetURL)
	resolved.Styles = stylesFrom(resolved.Tokens)
	resolved.SubmitLabel = resolved.Tokens[TokenSubmitLabel]
	return resolved
}

func defaultsFrom(tokens map[string]string, assetURL func(string) string) emulator.Defaults {
	defaults := emulator.Defaults{
		TextColor:        tokens[TokenTextColor],
		TextSize:         tokens[TokenTextSize],
		ButtonCaption:    tokens[TokenButtonCaption],
		ButtonBackground: tokens[TokenButtonBackground],
		ButtonColor:      tokens[TokenButtonColor],
		Image:            tokens[TokenImageDefault],
		ImageWidth:       atoi(tokens[TokenImageWidth]),
		ImageHeight:      atoi(tokens[TokenImageHeight]),
	}
	if defaults.Image == "" {
		defaults.Image = assetURL(AssetImageDefault)
	}
	return defaults
}

// stylesFrom collects style.<category>.<property> tokens.
func stylesFrom(tokens map[string]string) emulator.Styles {
	styles := emulator.Styles{}
	for key, value := range tokens {
		rest, ok := strings.CutPrefix(key, stylePrefix)
		if !ok {
			continue
		}
		category, property, ok := strings.Cut(rest, ".")
		if !ok || category == "" || property == "" {
			continue
		}
		category = strings.ToLower(category)
		if styles[category] == nil {
			styles[category] = map[string]string{}
		}
		styles[category][property] = value
	}
	if len(styles) == 0 {
		return nil
	}
	return styles
}

// cssVars exposes non-style tokens as custom properties: text.color becomes
// --text-color.
func cssVars(tokens map[string]string) map[string]string {
	replacer := strings.NewReplacer(".", "-", "_", "-", " ", "-")
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		if strings.HasPrefix(key, stylePrefix) {
			continue
		}
		out["--"+replacer.Replace(key)] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func merge(dst, src map[string]string) {
	for key, value := range src {
		if key = strings.TrimSpace(key); key != "" {
			dst[key] = value
		}
	}
}

func copyMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
