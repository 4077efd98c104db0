// Package emulator materialises a resolved rich card layout as an html node
// tree under a caller-owned mount point.
//
// Each widget name maps to a Descriptor in a Registry. The built-in registry
// covers LinearLayout, TextView, ImageView, Button and View (plus the aliases
// Container, Text, Image and Spacer). Unknown widgets are reported as
// diagnostics and skipped together with their subtree. The mount's children
// are replaced wholesale on every render; nothing is diffed or reused.
package emulator
