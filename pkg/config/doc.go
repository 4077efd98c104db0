// Package config loads rich card configuration documents: a `params` list of
// field descriptors and a layout template nested under
// formattedString.RCSMessage.openrichcardMessage.layout. Documents may be
// JSON or YAML; JSON is tried first.
package config
