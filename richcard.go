// Package richcard renders a live preview of an RCS rich card next to the form
// that fills it. A configuration document lists the params and the card
// layout; every form edit substitutes the values into the layout and rebuilds
// the preview.
//
// Quick start:
//
//	editor, err := richcard.OpenFile("card.json")
//	if err != nil {
//		return err
//	}
//	defer editor.Close()
//	_ = editor.Input("mTitle", "Summer sale")
//	page, err := editor.Page(richcard.WithTitle("Summer sale"))
package richcard

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-richcard/pkg/config"
	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/session"
)

// Mount ids used for the editor and preview containers.
const (
	FormMountID    = "richcard-editor"
	PreviewMountID = "richcard-preview"
)

// Field aliases descriptor.Field for callers building documents by hand.
type Field = descriptor.Field

// Document aliases config.Document.
type Document = config.Document

// Editor is a session bound to its own detached mount points.
type Editor struct {
	*session.Session

	form    *html.Node
	preview *html.Node
}

// Open creates the mounts and a session over doc.
func Open(doc config.Document, options ...session.Option) (*Editor, error) {
	form := emulator.NewMount(FormMountID)
	preview := emulator.NewMount(PreviewMountID)
	s, err := session.New(form, preview, doc, options...)
	if err != nil {
		return nil, fmt.Errorf("richcard: %w", err)
	}
	return &Editor{Session: s, form: form, preview: preview}, nil
}

// OpenFile loads a JSON or YAML document from path and opens it.
func OpenFile(path string, options ...session.Option) (*Editor, error) {
	doc, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Open(doc, options...)
}

// FormMount returns the node holding the form.
func (e *Editor) FormMount() *html.Node {
	return e.form
}

// PreviewMount returns the node holding the preview.
func (e *Editor) PreviewMount() *html.Node {
	return e.preview
}
