package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBuildsOrderedTree(t *testing.T) {
	t.Parallel()

	root, err := Parse(`{
		"widget": "LinearLayout",
		"orientation": "vertical",
		"children": [
			{"widget": "TextView", "text": "A", "textSize": 18},
			{"widget": "ImageView", "width": "120px", "children": []},
			"not-an-object"
		]
	}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if root.Widget != "LinearLayout" {
		t.Fatalf("expected root widget LinearLayout, got %q", root.Widget)
	}
	var widgets []string
	for _, child := range root.Children {
		widgets = append(widgets, child.Widget)
	}
	if diff := cmp.Diff([]string{"TextView", "ImageView", ""}, widgets); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	if got := root.Children[0].AttrOr(AttrTextSize, "16px"); got != "18" {
		t.Fatalf("expected numeric attribute to format as 18, got %q", got)
	}
	if got := root.Children[0].AttrOr(AttrTextColor, "#000"); got != "#000" {
		t.Fatalf("expected fallback colour, got %q", got)
	}
}

func TestParseRejectsNonObjectRoot(t *testing.T) {
	t.Parallel()

	if _, err := Parse(`[1,2,3]`); err == nil {
		t.Fatalf("expected error for array root")
	}
	if _, err := Parse(`{"children": [`); err == nil {
		t.Fatalf("expected error for truncated JSON")
	}
}

func TestHiddenReadsVisibility(t *testing.T) {
	t.Parallel()

	node := Node{Attrs: map[string]any{AttrVisibility: Gone}}
	if !node.Hidden() {
		t.Fatalf("expected gone node to be hidden")
	}
	node.Attrs[AttrVisibility] = Visible
	if node.Hidden() {
		t.Fatalf("expected visible node to be shown")
	}
}

func TestSerializeDoesNotEscapeHTML(t *testing.T) {
	t.Parallel()

	text, err := Serialize(map[string]any{"text": "<b>&</b>"})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if text != `{"text":"<b>&</b>"}` {
		t.Fatalf("unexpected serialisation %s", text)
	}
}
