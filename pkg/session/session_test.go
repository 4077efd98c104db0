package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gotheme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-richcard/pkg/config"
	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/placeholder"
	"github.com/goliatone/go-richcard/pkg/resource"
	"github.com/goliatone/go-richcard/pkg/testsupport"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n")

func loadCard(t *testing.T) config.Document {
	t.Helper()
	doc, err := config.LoadFile(filepath.Join("..", "config", "testdata", "card.json"))
	if err != nil {
		t.Fatalf("load card: %v", err)
	}
	return doc
}

func newSession(t *testing.T, doc config.Document, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithLogger(testsupport.DiscardLogger())}, opts...)
	s, err := New(emulator.NewMount("form"), emulator.NewMount("preview"), doc, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func previewTexts(t *testing.T, s *Session) []string {
	t.Helper()
	var out []string
	for _, node := range testsupport.FindAll(s.previewMount, testsupport.ByTag("p")) {
		out = append(out, emulator.TextContent(node))
	}
	return out
}

func TestNewMountsFormWithoutRenderingPreview(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))

	inputs := testsupport.FindAll(s.formMount, testsupport.ByTag("input"))
	if len(inputs) != 5 {
		t.Fatalf("expected 5 inputs, got %d", len(inputs))
	}
	if s.previewMount.FirstChild != nil {
		t.Fatalf("preview should stay empty until the first event")
	}
}

func TestInputUpdatesStateAndPreview(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))

	if err := s.Input("mTitle", "Hello world"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if diff := cmp.Diff([]string{"Hello%20world", ""}, previewTexts(t, s)); diff != "" {
		t.Fatalf("preview texts mismatch (-want +got):\n%s", diff)
	}

	images := testsupport.FindAll(s.previewMount, testsupport.ByTag("img"))
	if len(images) != 1 || emulator.Attr(images[0], "src") != placeholder.DefaultImage {
		t.Fatalf("title media should fall back to the default image")
	}
	if emulator.Attr(images[0], "width") != "300" || emulator.Attr(images[0], "height") != "150" {
		t.Fatalf("unexpected image size")
	}

	buttons := testsupport.FindAll(s.previewMount, testsupport.ByTag("button"))
	if len(buttons) != 1 || !strings.Contains(emulator.Attr(buttons[0], "style"), "display: none") {
		t.Fatalf("button bound to an empty visibility key should be hidden")
	}

	control := testsupport.FindAll(s.formMount, testsupport.ByAttr("id", "mTitle"))[0]
	if emulator.Attr(control, "value") != "Hello world" {
		t.Fatalf("form control should reflect the input value")
	}
}

func TestInputEnforcesStrSize(t *testing.T) {
	t.Parallel()

	doc := loadCard(t)
	doc.Params[0].StrSize = 5
	s := newSession(t, doc)

	if err := s.Input("mTitle", "abcdefgh"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if got := s.Values()["mTitle"]; got != "abcde" {
		t.Fatalf("value should be truncated, got %q", got)
	}
}

func TestVisibilityFollowsValue(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))
	if err := s.Input("mButton", "Buy"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if err := s.Input("mShowButton", "yes"); err != nil {
		t.Fatalf("input: %v", err)
	}

	button := testsupport.FindAll(s.previewMount, testsupport.ByTag("button"))[0]
	if strings.Contains(emulator.Attr(button, "style"), "display: none") {
		t.Fatalf("button should be visible once its key is truthy")
	}
	if emulator.TextContent(button) != "Buy" {
		t.Fatalf("unexpected caption %q", emulator.TextContent(button))
	}
}

func TestSelectFileRevokesSupersededHandle(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))

	if err := s.SelectFile("mTitleMedia", "first.png", "image/png", pngBytes); err != nil {
		t.Fatalf("select first: %v", err)
	}
	first := s.Values()["mTitleMedia"]
	if !resource.IsHandleURL(first) {
		t.Fatalf("expected a handle url, got %q", first)
	}

	if err := s.SelectFile("mTitleMedia", "second.png", "", pngBytes); err != nil {
		t.Fatalf("select second: %v", err)
	}
	second := s.Values()["mTitleMedia"]
	if second == first {
		t.Fatalf("expected a fresh handle")
	}
	if s.store.Len() != 1 {
		t.Fatalf("superseded handle should be revoked, %d live", s.store.Len())
	}

	img := testsupport.FindAll(s.previewMount, testsupport.ByTag("img"))[0]
	if emulator.Attr(img, "src") != second {
		t.Fatalf("handle url must be inserted verbatim, got %q", emulator.Attr(img, "src"))
	}

	inline, err := s.InlinePreviewHTML()
	if err != nil {
		t.Fatalf("inline preview: %v", err)
	}
	if strings.Contains(inline, second) || !strings.Contains(inline, "data:image/png;base64,") {
		t.Fatalf("inline preview should embed the image: %s", inline)
	}

	if err := s.SelectFile("mTitleMedia", "notes.txt", "text/plain", []byte("x")); !errors.Is(err, resource.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if s.Values()["mTitleMedia"] != second {
		t.Fatalf("rejected file must not replace the current handle")
	}
}

func TestFieldErrors(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))

	if err := s.Input("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := s.Input("mTitleMedia", "x"); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind for text into a file field, got %v", err)
	}
	if err := s.SelectFile("mTitle", "a.png", "image/png", pngBytes); !errors.Is(err, ErrFieldKind) {
		t.Fatalf("expected ErrFieldKind for file into a text field, got %v", err)
	}
}

func TestMalformedLayoutKeepsPreviousPreview(t *testing.T) {
	t.Parallel()

	doc := config.Document{
		Params: []descriptor.Field{{Param: "mTitle", Type: descriptor.FieldTypeString}},
		Layout: map[string]any{
			"widget":   "LinearLayout",
			"children": []any{map[string]any{"widget": "TextView", "text": "{{mTitle}}"}},
		},
	}
	logger, logs := testsupport.CaptureLogger()
	s := newSession(t, doc, WithLogger(logger))

	if err := s.Input("mTitle", "first"); err != nil {
		t.Fatalf("input: %v", err)
	}
	before, err := s.PreviewHTML()
	if err != nil {
		t.Fatalf("preview html: %v", err)
	}

	// A raw quote survives only when the encoder is bypassed.
	s.subst = placeholder.New(placeholder.WithEncoder(func(v string) string { return v }))
	if err := s.Input("mTitle", `broken"`); err != nil {
		t.Fatalf("input should not surface render errors: %v", err)
	}

	after, err := s.PreviewHTML()
	if err != nil {
		t.Fatalf("preview html: %v", err)
	}
	if before != after {
		t.Fatalf("preview changed after a failed pass:\n%s\n%s", before, after)
	}
	if !strings.Contains(logs.String(), "render aborted") {
		t.Fatalf("expected the failure to be logged, got %s", logs.String())
	}

	if _, err := s.Render(); !errors.Is(err, placeholder.ErrMalformedLayout) {
		t.Fatalf("expected ErrMalformedLayout from Render, got %v", err)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t), WithValues(map[string]string{"mTitle": "Hi", "mDescription": "Body"}))

	if _, err := s.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	once, _ := s.PreviewHTML()
	if _, err := s.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	twice, _ := s.PreviewHTML()
	if once != twice {
		t.Fatalf("render is not idempotent:\n%s\n%s", once, twice)
	}
	if diff := cmp.Diff([]string{"Hi", "Body"}, previewTexts(t, s)); diff != "" {
		t.Fatalf("prefilled values mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitLogsValues(t *testing.T) {
	t.Parallel()

	logger, logs := testsupport.CaptureLogger()
	s := newSession(t, loadCard(t), WithLogger(logger))
	if err := s.Input("mTitle", "Hello"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if err := s.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.Contains(logs.String(), "form submitted") || !strings.Contains(logs.String(), "mTitle:Hello") {
		t.Fatalf("submit should log the values, got %s", logs.String())
	}
}

func TestCloseRevokesHandles(t *testing.T) {
	t.Parallel()

	s := newSession(t, loadCard(t))
	if err := s.SelectFile("mTitleMedia", "a.png", "image/png", pngBytes); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if s.store.Len() != 0 {
		t.Fatalf("close should release every handle")
	}
	if err := s.Input("mTitle", "x"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStylesAndTheme(t *testing.T) {
	t.Parallel()

	selector := &stubSelector{selection: &gotheme.Selection{
		Theme: "acme",
		Manifest: &gotheme.Manifest{
			Name: "acme",
			Tokens: map[string]string{
				"text.color":            "#333",
				"image.default":         "acme.png",
				"form.submit":           "Preview",
				"style.textview.margin": "0",
			},
		},
	}}
	s := newSession(t, loadCard(t),
		WithThemeSelector(selector, "acme", ""),
		WithStyles(emulator.Styles{"TextView": {"margin": "4px"}, "label": {"color": "red"}}),
	)

	if _, ok := s.Theme(); !ok {
		t.Fatalf("expected a resolved theme")
	}
	if _, err := s.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}

	text := testsupport.FindAll(s.previewMount, testsupport.ByTag("p"))[1]
	if got := emulator.Attr(text, "style"); got != "color: #333; font-size: 16px; margin: 4px" {
		t.Fatalf("explicit styles should win over theme styles, got %q", got)
	}
	img := testsupport.FindAll(s.previewMount, testsupport.ByTag("img"))[0]
	if emulator.Attr(img, "src") != "acme.png" {
		t.Fatalf("theme default image not applied")
	}

	submit := testsupport.FindAll(s.formMount, testsupport.ByAttr("type", "submit"))[0]
	if emulator.TextContent(submit) != "Preview" {
		t.Fatalf("theme submit label not applied")
	}
	formNode := testsupport.FindAll(s.formMount, testsupport.ByTag("form"))[0]
	if !strings.Contains(emulator.Attr(formNode, "style"), "--text-color: #333") {
		t.Fatalf("theme tokens should surface as css vars on the form, got %q", emulator.Attr(formNode, "style"))
	}
	label := testsupport.FindAll(s.formMount, testsupport.ByTag("label"))[0]
	if emulator.Attr(label, "style") != "color: red" {
		t.Fatalf("label style not applied")
	}
}

type stubSelector struct {
	selection *gotheme.Selection
}

func (s *stubSelector) Select(string, string, ...gotheme.QueryOption) (*gotheme.Selection, error) {
	return s.selection, nil
}
