// Package template defines the renderer-agnostic template contract used by
// the form builder and ships a pongo2-backed implementation. Templates are
// resolved through layered loaders so a theme directory can shadow the
// embedded defaults file by file.
package template
