// Package prompt fills a session from the terminal. Each param is asked in
// declaration order: text and button params through an input prompt, file
// params through a path that is read and registered as an image. The preview
// re-renders after every answer, exactly as it would on a browser input event.
package prompt
