// Package form turns field descriptors into an HTML form. Each descriptor
// becomes one labeled control, in declaration order, followed by a submit
// button. Markup comes from pongo2 templates embedded in the package; callers
// can shadow them with a directory (usually a theme) or replace the engine.
package form
