package session

import (
	"log/slog"
	"strings"

	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-richcard/pkg/emulator"
	rendertemplate "github.com/goliatone/go-richcard/pkg/render/template"
)

// Option configures a Session.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	styles        emulator.Styles
	defaultImage  string
	titleMediaKey string
	registry      *emulator.Registry
	defaults      emulator.Defaults

	selector     gotheme.ThemeSelector
	themeName    string
	themeVariant string

	templates    rendertemplate.TemplateRenderer
	templatesDir string
	submitLabel  string
	prefill      map[string]string
}

// WithLogger sets the logger used for diagnostics and submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *options) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStyles supplies style overrides for widgets and form chrome. They win
// over theme styles.
func WithStyles(styles emulator.Styles) Option {
	return func(cfg *options) {
		cfg.styles = styles.Clone()
	}
}

// WithDefaultImage overrides the fallback image for the title media slot and
// for image widgets without a source.
func WithDefaultImage(ref string) Option {
	return func(cfg *options) {
		cfg.defaultImage = strings.TrimSpace(ref)
	}
}

// WithTitleMediaKey overrides the key treated as the title media slot.
func WithTitleMediaKey(key string) Option {
	return func(cfg *options) {
		cfg.titleMediaKey = strings.TrimSpace(key)
	}
}

// WithRegistry swaps the widget registry used by the preview.
func WithRegistry(registry *emulator.Registry) Option {
	return func(cfg *options) {
		cfg.registry = registry
	}
}

// WithDefaults overlays widget attribute fallbacks. Theme defaults apply
// first.
func WithDefaults(defaults emulator.Defaults) Option {
	return func(cfg *options) {
		cfg.defaults = defaults
	}
}

// WithThemeSelector resolves name/variant through selector when the session
// is created.
func WithThemeSelector(selector gotheme.ThemeSelector, name, variant string) Option {
	return func(cfg *options) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// WithTemplateRenderer injects the engine used for form markup.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *options) {
		cfg.templates = renderer
	}
}

// WithTemplatesDir layers a template directory over the embedded form
// templates. Theme template paths resolve against it.
func WithTemplatesDir(dir string) Option {
	return func(cfg *options) {
		cfg.templatesDir = strings.TrimSpace(dir)
	}
}

// WithSubmitLabel overrides the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *options) {
		cfg.submitLabel = strings.TrimSpace(label)
	}
}

// WithValues prefills form state. Keys without a matching param are ignored.
func WithValues(values map[string]string) Option {
	return func(cfg *options) {
		if len(values) == 0 {
			return
		}
		if cfg.prefill == nil {
			cfg.prefill = make(map[string]string, len(values))
		}
		for key, value := range values {
			cfg.prefill[key] = value
		}
	}
}
