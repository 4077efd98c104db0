package richcard

import (
	"fmt"
	"strings"

	rendertemplate "github.com/goliatone/go-richcard/pkg/render/template"
)

// DefaultPageTitle is used when WithTitle is not given.
const DefaultPageTitle = "Rich card preview"

// PageOption configures Editor.Page.
type PageOption func(*pageConfig)

type pageConfig struct {
	title        string
	inline       bool
	noStylesheet bool
	script       string
	templatesDir string
	renderer     rendertemplate.TemplateRenderer
}

// WithTitle sets the document title.
func WithTitle(title string) PageOption {
	return func(cfg *pageConfig) {
		if title = strings.TrimSpace(title); title != "" {
			cfg.title = title
		}
	}
}

// WithInlineMedia embeds selected images as data: URLs so the page is
// self-contained.
func WithInlineMedia() PageOption {
	return func(cfg *pageConfig) {
		cfg.inline = true
	}
}

// WithoutStylesheet omits the embedded stylesheet.
func WithoutStylesheet() PageOption {
	return func(cfg *pageConfig) {
		cfg.noStylesheet = true
	}
}

// WithScript appends an inline script to the page body.
func WithScript(js string) PageOption {
	return func(cfg *pageConfig) {
		cfg.script = js
	}
}

// WithPageTemplatesDir layers a directory whose page.tmpl shadows the
// embedded one.
func WithPageTemplatesDir(dir string) PageOption {
	return func(cfg *pageConfig) {
		cfg.templatesDir = strings.TrimSpace(dir)
	}
}

// WithPageRenderer renders the page through renderer instead of the default
// engine.
func WithPageRenderer(renderer rendertemplate.TemplateRenderer) PageOption {
	return func(cfg *pageConfig) {
		cfg.renderer = renderer
	}
}

// Page renders a standalone HTML document holding the form and the current
// preview.
func (e *Editor) Page(options ...PageOption) ([]byte, error) {
	cfg := pageConfig{title: DefaultPageTitle}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.renderer
	if renderer == nil {
		engine, err := rendertemplate.NewEngine(
			rendertemplate.WithBaseDir(cfg.templatesDir),
			rendertemplate.WithFS(EmbeddedTemplates()),
		)
		if err != nil {
			return nil, fmt.Errorf("richcard: page engine: %w", err)
		}
		renderer = engine
	}

	formHTML, err := e.FormHTML()
	if err != nil {
		return nil, fmt.Errorf("richcard: serialise form: %w", err)
	}
	previewHTML, err := e.PreviewHTML()
	if cfg.inline {
		previewHTML, err = e.InlinePreviewHTML()
	}
	if err != nil {
		return nil, fmt.Errorf("richcard: serialise preview: %w", err)
	}

	css := ""
	if !cfg.noStylesheet {
		if css, err = stylesheet(); err != nil {
			return nil, fmt.Errorf("richcard: stylesheet: %w", err)
		}
	}

	out, err := renderer.Render(TemplatePage, map[string]any{
		"title":      cfg.title,
		"stylesheet": css,
		"form_id":    FormMountID,
		"form":       formHTML,
		"preview_id": PreviewMountID,
		"preview":    previewHTML,
		"script":     cfg.script,
	})
	if err != nil {
		return nil, fmt.Errorf("richcard: render page: %w", err)
	}
	return []byte(out), nil
}
