package emulator

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/layout"
)

// DiagnosticKind classifies non-fatal render problems.
type DiagnosticKind string

const (
	// KindUnknownWidget means no descriptor matched the node's widget name.
	KindUnknownWidget DiagnosticKind = "unknown_widget"
	// KindBuildFailed means a builder returned an error for the node.
	KindBuildFailed DiagnosticKind = "build_failed"
)

// Diagnostic records a node that was skipped.
type Diagnostic struct {
	Kind    DiagnosticKind
	Path    string
	Widget  string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %s (widget %q): %s", d.Kind, d.Path, d.Widget, d.Message)
}

// Result summarises a render pass.
type Result struct {
	Elements    int
	Hidden      int
	Diagnostics []Diagnostic
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRegistry swaps the widget registry.
func WithRegistry(registry *Registry) Option {
	return func(r *Renderer) {
		if registry != nil {
			r.registry = registry
		}
	}
}

// WithStyles registers per-category style overrides. They are applied after
// the widget's own styles.
func WithStyles(styles Styles) Option {
	return func(r *Renderer) {
		r.styles = styles.Clone()
	}
}

// WithDefaults overlays attribute fallbacks on the stock defaults.
func WithDefaults(defaults Defaults) Option {
	return func(r *Renderer) {
		r.defaults = r.defaults.Merge(defaults)
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer walks layout trees. It holds no per-pass state and can be reused.
type Renderer struct {
	registry *Registry
	styles   Styles
	defaults Defaults
	logger   *slog.Logger
}

// New constructs a Renderer with the default registry.
func New(options ...Option) *Renderer {
	r := &Renderer{
		registry: NewDefaultRegistry(),
		defaults: DefaultValues(),
		logger:   slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Defaults reports the effective attribute fallbacks.
func (r *Renderer) Defaults() Defaults {
	return r.defaults
}

// Render materialises root's children under mount, replacing whatever the
// mount held before.
func (r *Renderer) Render(root layout.Node, mount *html.Node) Result {
	elements, result := r.Build(root)
	if mount != nil {
		Replace(mount, elements)
	}
	return result
}

// Build materialises root's children into detached elements.
func (r *Renderer) Build(root layout.Node) ([]*html.Node, Result) {
	var result Result
	holder := Element("div")
	r.walk(root, holder, "", &result)

	elements := Children(holder)
	Clear(holder)
	return elements, result
}

func (r *Renderer) walk(parent layout.Node, target *html.Node, prefix string, result *Result) {
	ctx := BuildContext{Defaults: r.defaults}
	for idx, child := range parent.Children {
		path := fmt.Sprintf("%schildren[%d]", prefix, idx)

		descriptor, ok := r.registry.Lookup(child.Widget)
		if !ok {
			r.report(result, Diagnostic{
				Kind:    KindUnknownWidget,
				Path:    path,
				Widget:  child.Widget,
				Message: "unsupported widget type",
			})
			continue
		}

		out, err := descriptor.Builder(child, ctx)
		if err != nil || out.Element == nil {
			message := "builder returned no element"
			if err != nil {
				message = err.Error()
			}
			r.report(result, Diagnostic{Kind: KindBuildFailed, Path: path, Widget: child.Widget, Message: message})
			continue
		}

		element := r.finish(out, child, result)
		target.AppendChild(element)
		result.Elements++

		if len(child.Children) > 0 {
			r.walk(child, element, path+".", result)
		}
	}
}

// finish applies style overrides and then visibility, so a gone node stays
// hidden whatever the overrides say.
func (r *Renderer) finish(out Output, node layout.Node, result *Result) *html.Node {
	style := out.Style
	style.Apply(r.styles.For(strings.ToLower(node.Widget)))
	if node.Hidden() {
		style.Set("display", "none")
		result.Hidden++
	}
	style.WriteTo(out.Element)
	return out.Element
}

func (r *Renderer) report(result *Result, diag Diagnostic) {
	result.Diagnostics = append(result.Diagnostics, diag)
	r.logger.Warn("emulator: node skipped",
		"kind", string(diag.Kind),
		"path", diag.Path,
		"widget", diag.Widget,
		"reason", diag.Message,
	)
}
