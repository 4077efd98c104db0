package emulator

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/layout"
)

func quietRenderer(opts ...Option) *Renderer {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

func mustParse(t *testing.T, text string) layout.Node {
	t.Helper()
	node, err := layout.Parse(text)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	return node
}

func TestRenderHorizontalLayoutKeepsChildOrder(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[{"widget":"LinearLayout","orientation":"horizontal","children":[
		{"widget":"TextView","text":"A"},
		{"widget":"TextView","text":"B"}
	]}]}`)

	mount := NewMount("preview")
	result := quietRenderer().Render(root, mount)

	if result.Elements != 3 || len(result.Diagnostics) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	top := Children(mount)
	if len(top) != 1 || top[0].Data != "div" {
		t.Fatalf("expected a single div, got %d elements", len(top))
	}
	if got := Attr(top[0], "style"); got != "display: flex; flex-direction: row" {
		t.Fatalf("unexpected container style %q", got)
	}

	var texts []string
	for _, child := range Children(top[0]) {
		if child.Data != "p" {
			t.Fatalf("expected p, got %s", child.Data)
		}
		texts = append(texts, TextContent(child))
	}
	if diff := cmp.Diff([]string{"A", "B"}, texts); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderVerticalIsDefaultOrientation(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[{"widget":"LinearLayout"}]}`)
	mount := NewMount("")
	quietRenderer().Render(root, mount)

	if got := Attr(Children(mount)[0], "style"); !strings.Contains(got, "flex-direction: column") {
		t.Fatalf("expected column direction, got %q", got)
	}
}

func TestRenderAppliesDefaults(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[
		{"widget":"TextView","text":"hello"},
		{"widget":"TextView","text":"sized","textColor":"#f00","textSize":12},
		{"widget":"Button"},
		{"widget":"Button","text":"Buy","background":"blue","textColor":"white"}
	]}`)

	mount := NewMount("")
	quietRenderer().Render(root, mount)
	elements := Children(mount)
	if len(elements) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(elements))
	}

	cases := []struct {
		tag   string
		text  string
		style string
	}{
		{tag: "p", text: "hello", style: "color: #000; font-size: 16px"},
		{tag: "p", text: "sized", style: "color: #f00; font-size: 12px"},
		{tag: "button", text: "Button", style: "background-color: #ddd; color: #000"},
		{tag: "button", text: "Buy", style: "background-color: blue; color: white"},
	}
	for idx, tc := range cases {
		element := elements[idx]
		if element.Data != tc.tag {
			t.Fatalf("element %d: tag %q, want %q", idx, element.Data, tc.tag)
		}
		if got := TextContent(element); got != tc.text {
			t.Fatalf("element %d: text %q, want %q", idx, got, tc.text)
		}
		if got := Attr(element, "style"); got != tc.style {
			t.Fatalf("element %d: style %q, want %q", idx, got, tc.style)
		}
	}
}

func TestRenderImageFallbacks(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[
		{"widget":"ImageView"},
		{"widget":"ImageView","mediaUrl":"blob:richcard/1","width":"120px","height":"80"},
		{"widget":"ImageView","mediaUrl":"a.png","width":"-4","height":"auto"}
	]}`)

	mount := NewMount("")
	quietRenderer(WithDefaults(Defaults{Image: "fallback.png"})).Render(root, mount)

	type image struct{ Src, Width, Height string }
	var got []image
	for _, element := range Children(mount) {
		got = append(got, image{Attr(element, "src"), Attr(element, "width"), Attr(element, "height")})
	}
	want := []image{
		{"fallback.png", "50", "50"},
		{"blob:richcard/1", "120", "80"},
		{"a.png", "50", "50"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("image attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderGoneNodeStaysInTreeHidden(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[
		{"widget":"TextView","text":"shown","visibility":"visible"},
		{"widget":"LinearLayout","visibility":"gone","children":[{"widget":"TextView","text":"inner"}]}
	]}`)

	mount := NewMount("")
	result := quietRenderer(WithStyles(Styles{"linearlayout": {"display": "block"}})).Render(root, mount)

	if result.Hidden != 1 {
		t.Fatalf("expected one hidden node, got %d", result.Hidden)
	}
	elements := Children(mount)
	if len(elements) != 2 {
		t.Fatalf("expected both nodes materialised, got %d", len(elements))
	}
	if style := Attr(elements[0], "style"); strings.Contains(style, "display") {
		t.Fatalf("visible node should not carry display, got %q", style)
	}
	if style := Attr(elements[1], "style"); !strings.Contains(style, "display: none") {
		t.Fatalf("gone node should be hidden, got %q", style)
	}
	if got := TextContent(elements[1]); got != "inner" {
		t.Fatalf("gone subtree should still be built, got %q", got)
	}
}

func TestRenderStyleOverridesReplaceDefaults(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[{"widget":"TextView","text":"x"},{"widget":"Text","text":"y"}]}`)
	styles := Styles{
		"TextView": {"color": "red", "letterSpacing": "2px"},
		"text":     {"fontWeight": "bold"},
	}

	mount := NewMount("")
	quietRenderer(WithStyles(styles)).Render(root, mount)
	elements := Children(mount)

	if got := Attr(elements[0], "style"); got != "color: red; font-size: 16px; letter-spacing: 2px" {
		t.Fatalf("unexpected TextView style %q", got)
	}
	// Aliases pick up overrides keyed by their own name.
	if got := Attr(elements[1], "style"); got != "color: #000; font-size: 16px; font-weight: bold" {
		t.Fatalf("unexpected Text style %q", got)
	}
}

func TestRenderSkipsUnknownWidgets(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[
		{"widget":"Carousel","children":[{"widget":"TextView","text":"lost"}]},
		{"widget":"LinearLayout","children":[7,{"widget":"TextView","text":"kept"}]}
	]}`)

	mount := NewMount("")
	result := quietRenderer().Render(root, mount)

	want := []Diagnostic{
		{Kind: KindUnknownWidget, Path: "children[0]", Widget: "Carousel", Message: "unsupported widget type"},
		{Kind: KindUnknownWidget, Path: "children[1].children[0]", Widget: "", Message: "unsupported widget type"},
	}
	if diff := cmp.Diff(want, result.Diagnostics); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if got := TextContent(mount); got != "kept" {
		t.Fatalf("expected only the kept text, got %q", got)
	}
}

func TestRenderReportsBuilderFailures(t *testing.T) {
	t.Parallel()

	registry := NewDefaultRegistry()
	registry.MustRegister("Broken", Descriptor{Builder: func(layout.Node, BuildContext) (Output, error) {
		return Output{}, errors.New("boom")
	}})

	root := mustParse(t, `{"children":[{"widget":"Broken"},{"widget":"Button"}]}`)
	mount := NewMount("")
	result := quietRenderer(WithRegistry(registry)).Render(root, mount)

	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != KindBuildFailed || result.Diagnostics[0].Message != "boom" {
		t.Fatalf("unexpected diagnostics: %+v", result.Diagnostics)
	}
	if len(Children(mount)) != 1 {
		t.Fatalf("expected the button to render")
	}
}

func TestRenderIsIdempotentAndReplacesMount(t *testing.T) {
	t.Parallel()

	renderer := quietRenderer()
	mount := NewMount("preview")
	mount.AppendChild(Element("span"))

	first := mustParse(t, `{"children":[{"widget":"Container","children":[{"widget":"Image"},{"widget":"Spacer","height":"8px"}]}]}`)
	renderer.Render(first, mount)
	once, err := InnerHTML(mount)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if strings.Contains(once, "<span") {
		t.Fatalf("stale children survived: %s", once)
	}

	renderer.Render(first, mount)
	twice, err := InnerHTML(mount)
	if err != nil {
		t.Fatalf("render html: %v", err)
	}
	if once != twice {
		t.Fatalf("render is not idempotent:\n%s\n%s", once, twice)
	}

	renderer.Render(layout.Node{}, mount)
	if mount.FirstChild != nil {
		t.Fatalf("empty layout should clear the mount")
	}
}

func TestRenderWithNilMountStillBuilds(t *testing.T) {
	t.Parallel()

	root := mustParse(t, `{"children":[{"widget":"View","background":"#eee"}]}`)
	result := quietRenderer().Render(root, nil)
	if result.Elements != 1 {
		t.Fatalf("expected one element, got %d", result.Elements)
	}

	elements, _ := quietRenderer().Build(root)
	if len(elements) != 1 || elements[0].Parent != nil {
		t.Fatalf("expected one detached element")
	}
	if elements[0].Type != html.ElementNode || Attr(elements[0], "style") != "background: #eee" {
		t.Fatalf("unexpected view element: %+v", elements[0])
	}
}
