package form

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names resolved through the template renderer.
const (
	TemplateForm  = "form"
	TemplateField = "field"
)

// TemplatesFS exposes the embedded template bundle so themes can start from
// a copy.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
