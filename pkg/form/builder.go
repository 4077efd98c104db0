package form

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/formstate"
	rendertemplate "github.com/goliatone/go-richcard/pkg/render/template"
)

// DefaultFormID is the id attribute of the generated form.
const DefaultFormID = "richcard-form"

// Option configures a Builder.
type Option func(*config)

type config struct {
	templateDir string
	renderer    rendertemplate.TemplateRenderer
	templates   map[string]string
	styles      emulator.Styles
	submitLabel string
	formID      string
	logger      *slog.Logger
}

// WithTemplatesDir layers a directory of templates over the embedded bundle.
// Files missing from dir fall back to the embedded copies.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(dir)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// WithTemplates maps the logical names TemplateForm and TemplateField onto
// other template names.
func WithTemplates(names map[string]string) Option {
	return func(cfg *config) {
		for logical, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				cfg.templates[logical] = name
			}
		}
	}
}

// WithStyles applies form chrome overrides (form, form-group, label, input,
// submit-button).
func WithStyles(styles emulator.Styles) Option {
	return func(cfg *config) {
		cfg.styles = styles.Clone()
	}
}

// WithSubmitLabel overrides DefaultSubmitLabel.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.submitLabel = label
		}
	}
}

// WithFormID overrides DefaultFormID.
func WithFormID(id string) Option {
	return func(cfg *config) {
		if id = strings.TrimSpace(id); id != "" {
			cfg.formID = id
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Builder renders descriptor lists into form markup.
type Builder struct {
	templates   rendertemplate.TemplateRenderer
	names       map[string]string
	styles      emulator.Styles
	submitLabel string
	formID      string
	logger      *slog.Logger
}

// NewBuilder constructs a Builder backed by the embedded templates unless a
// renderer is supplied.
func NewBuilder(options ...Option) (*Builder, error) {
	cfg := config{
		templates: map[string]string{
			TemplateForm:  TemplateForm,
			TemplateField: TemplateField,
		},
		submitLabel: DefaultSubmitLabel,
		formID:      DefaultFormID,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.renderer
	if renderer == nil {
		engineOpts := []rendertemplate.Option{}
		if cfg.templateDir != "" {
			engineOpts = append(engineOpts, rendertemplate.WithBaseDir(cfg.templateDir))
		}
		engineOpts = append(engineOpts, rendertemplate.WithFS(TemplatesFS()))
		engine, err := rendertemplate.NewEngine(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("form: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Builder{
		templates:   renderer,
		names:       cfg.templates,
		styles:      cfg.styles,
		submitLabel: cfg.submitLabel,
		formID:      cfg.formID,
		logger:      cfg.logger,
	}, nil
}

// RenderHTML returns the form markup for fields, prefilled from values.
func (b *Builder) RenderHTML(fields []descriptor.Field, values formstate.View) (string, error) {
	controls := Controls(fields, values, b.styles)

	rendered := make([]string, 0, len(controls))
	for _, control := range controls {
		markup, err := b.templates.RenderTemplate(b.names[TemplateField], map[string]any{
			"field": control.context(),
		})
		if err != nil {
			return "", fmt.Errorf("form: render field %q: %w", control.Name, err)
		}
		rendered = append(rendered, strings.TrimSpace(markup))
	}

	markup, err := b.templates.RenderTemplate(b.names[TemplateForm], map[string]any{
		"form": map[string]any{
			"id":           b.formID,
			"style":        inlineStyle(b.styles.For(StyleForm)),
			"submit_label": b.submitLabel,
			"submit_style": inlineStyle(b.styles.For(StyleSubmitButton)),
		},
		"fields": rendered,
	})
	if err != nil {
		return "", fmt.Errorf("form: render form: %w", err)
	}
	return strings.TrimSpace(markup), nil
}

// Mount renders the form and replaces mount's children with it.
func (b *Builder) Mount(mount *html.Node, fields []descriptor.Field, values formstate.View) error {
	if mount == nil {
		return fmt.Errorf("form: mount is nil")
	}
	markup, err := b.RenderHTML(fields, values)
	if err != nil {
		return err
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), mount)
	if err != nil {
		return fmt.Errorf("form: parse markup: %w", err)
	}
	emulator.Replace(mount, nodes)

	b.logger.Debug("form: mounted", "fields", len(fields))
	return nil
}
