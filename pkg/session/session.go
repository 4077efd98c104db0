package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/config"
	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/form"
	"github.com/goliatone/go-richcard/pkg/formstate"
	"github.com/goliatone/go-richcard/pkg/placeholder"
	"github.com/goliatone/go-richcard/pkg/resource"
	"github.com/goliatone/go-richcard/pkg/theme"
)

var (
	// ErrUnknownField is returned for keys that match no param.
	ErrUnknownField = errors.New("session: unknown field")
	// ErrFieldKind is returned when a text value targets a file field or a
	// file targets a text field.
	ErrFieldKind = errors.New("session: wrong field kind")
	// ErrClosed is returned once Close has run.
	ErrClosed = errors.New("session: closed")
)

// Session owns the form state, the resource store and both mounts.
type Session struct {
	mu sync.Mutex

	fields   []descriptor.Field
	index    map[string]descriptor.Field
	template string

	formMount    *html.Node
	previewMount *html.Node

	state    *formstate.State
	store    *resource.Store
	subst    *placeholder.Substituter
	renderer *emulator.Renderer
	builder  *form.Builder
	logger   *slog.Logger

	theme  *theme.Resolved
	last   emulator.Result
	closed bool
}

// New builds the form into formMount and prepares the preview pipeline. The
// preview is not rendered until the first event or an explicit Render.
func New(formMount, previewMount *html.Node, doc config.Document, opts ...Option) (*Session, error) {
	if formMount == nil || previewMount == nil {
		return nil, fmt.Errorf("session: form and preview mounts are required")
	}

	cfg := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if err := descriptor.Validate(doc.Params); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	template, err := doc.Template()
	if err != nil {
		return nil, fmt.Errorf("session: serialise layout: %w", err)
	}

	s := &Session{
		fields:       append([]descriptor.Field(nil), doc.Params...),
		index:        descriptor.Index(doc.Params),
		template:     template,
		formMount:    formMount,
		previewMount: previewMount,
		store:        resource.NewStore(),
		logger:       cfg.logger,
	}

	styles := emulator.Styles{}
	defaults := emulator.Defaults{}
	submitLabel := cfg.submitLabel
	formTemplates := map[string]string{}

	if cfg.selector != nil {
		resolved, err := theme.Resolve(cfg.selector, cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.theme = &resolved
		mergeStyles(styles, resolved.Styles)
		mergeStyles(styles, emulator.Styles{form.StyleForm: resolved.CSSVars()})
		defaults = defaults.Merge(resolved.Defaults)
		if submitLabel == "" {
			submitLabel = resolved.SubmitLabel
		}
		formTemplates = resolved.FormTemplates()
	}
	mergeStyles(styles, cfg.styles)
	defaults = defaults.Merge(cfg.defaults)
	if cfg.defaultImage != "" {
		defaults.Image = cfg.defaultImage
	}

	substOpts := []placeholder.Option{placeholder.WithTitleMediaKey(cfg.titleMediaKey)}
	if defaults.Image != "" {
		substOpts = append(substOpts, placeholder.WithDefaultImage(defaults.Image))
	}
	s.subst = placeholder.New(substOpts...)

	s.renderer = emulator.New(
		emulator.WithRegistry(cfg.registry),
		emulator.WithStyles(styles),
		emulator.WithDefaults(defaults),
		emulator.WithLogger(cfg.logger),
	)

	s.builder, err = form.NewBuilder(
		form.WithTemplateRenderer(cfg.templates),
		form.WithTemplatesDir(cfg.templatesDir),
		form.WithTemplates(formTemplates),
		form.WithStyles(styles),
		form.WithSubmitLabel(submitLabel),
		form.WithLogger(cfg.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s.state = formstate.New(nil)
	for key, value := range cfg.prefill {
		field, ok := s.index[key]
		if !ok || field.IsFile() {
			continue
		}
		s.state.Set(key, field.Clamp(value))
	}

	if err := s.builder.Mount(formMount, s.fields, s.state); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return s, nil
}

// Fields returns the descriptors in declaration order.
func (s *Session) Fields() []descriptor.Field {
	return append([]descriptor.Field(nil), s.fields...)
}

// Theme reports the resolved theme, if one was selected.
func (s *Session) Theme() (theme.Resolved, bool) {
	if s.theme == nil {
		return theme.Resolved{}, false
	}
	return *s.theme, true
}

// Input records a text value for key, truncated to the field's strSize, and
// re-renders the preview. Render failures are logged, not returned.
func (s *Session) Input(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	field, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if field.IsFile() {
		return fmt.Errorf("%w: %q expects a file", ErrFieldKind, key)
	}

	value = field.Clamp(value)
	s.state.Set(key, value)
	if control := findControl(s.formMount, key); control != nil {
		emulator.SetAttr(control, "value", value)
	}

	_, _ = s.renderLocked()
	return nil
}

// SelectFile registers data as the image for key and re-renders. The handle
// it replaces, if any, is revoked.
func (s *Session) SelectFile(key, name, mimeType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	field, ok := s.index[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	if !field.IsFile() {
		return fmt.Errorf("%w: %q expects text", ErrFieldKind, key)
	}

	handle, err := s.store.Create(name, mimeType, data)
	if err != nil {
		return fmt.Errorf("session: select %q: %w", key, err)
	}
	if prev, ok := s.state.SetHandle(key, handle); ok && prev.IsHandle() {
		s.store.Revoke(prev.Handle.URL)
	}
	s.logger.Debug("session: file selected", "field", key, "name", name, "size", handle.Size, "url", handle.URL)

	_, _ = s.renderLocked()
	return nil
}

// Submit logs the collected values and forces a render.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.logger.Info("session: form submitted", "values", s.state.Snapshot())
	_, err := s.renderLocked()
	return err
}

// Render runs a substitution and preview pass. On failure the preview mount
// keeps its previous children and the error is logged and returned.
func (s *Session) Render() (emulator.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return emulator.Result{}, ErrClosed
	}
	return s.renderLocked()
}

func (s *Session) renderLocked() (emulator.Result, error) {
	root, err := s.subst.Render(s.state.Freeze(), s.template)
	if err != nil {
		s.logger.Error("session: render aborted", "error", err)
		return emulator.Result{}, err
	}
	result := s.renderer.Render(root, s.previewMount)
	s.last = result
	s.logger.Debug("session: preview rendered",
		"elements", result.Elements,
		"hidden", result.Hidden,
		"diagnostics", len(result.Diagnostics),
	)
	return result, nil
}

// LastResult returns the summary of the most recent successful render.
func (s *Session) LastResult() emulator.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Values returns the collected values. File fields report their handle URL.
func (s *Session) Values() map[string]string {
	return s.state.Snapshot()
}

// PreviewHTML serialises the preview mount.
func (s *Session) PreviewHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return emulator.InnerHTML(s.previewMount)
}

// InlinePreviewHTML serialises the preview with every live handle URL
// replaced by a data: URL, so the markup survives the session.
func (s *Session) InlinePreviewHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markup, err := emulator.InnerHTML(s.previewMount)
	if err != nil {
		return "", err
	}
	handles := s.state.Handles()
	sort.Slice(handles, func(i, j int) bool { return handles[i].URL < handles[j].URL })
	for _, handle := range handles {
		dataURL, err := s.store.DataURL(handle.URL)
		if err != nil {
			continue
		}
		markup = strings.ReplaceAll(markup, handle.URL, dataURL)
	}
	return markup, nil
}

// FormHTML serialises the form mount.
func (s *Session) FormHTML() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return emulator.InnerHTML(s.formMount)
}

// Close revokes every outstanding handle. Later calls return ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	released := s.store.Close()
	s.logger.Debug("session: closed", "handles_released", released)
	return nil
}

func mergeStyles(dst, src emulator.Styles) {
	for category, props := range src {
		if len(props) == 0 {
			continue
		}
		category = strings.ToLower(category)
		if dst[category] == nil {
			dst[category] = make(map[string]string, len(props))
		}
		for key, value := range props {
			dst[category][key] = value
		}
	}
}

func findControl(root *html.Node, id string) *html.Node {
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "input" && emulator.Attr(child, "id") == id {
			return child
		}
		if found := findControl(child, id); found != nil {
			return found
		}
	}
	return nil
}
