// Package openapi imports field descriptors from OpenAPI request bodies.
//
// Each scalar property of an operation's request body becomes one param:
// maxLength maps to strSize, format binary (or base64) marks a file field and
// the x-richcard-type extension overrides the inferred type. Documents are
// fetched through a Loader that reads files, fs.FS entries or HTTP URLs.
package openapi
