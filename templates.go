package richcard

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatePage is the page template name.
const TemplatePage = "page"

// EmbeddedTemplates exposes the built-in page template so callers can extend
// or shadow it.
func EmbeddedTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
