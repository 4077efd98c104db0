// Package session wires a configuration document to two mount points: the
// generated form and the live preview. Browser events become method calls.
// Input and SelectFile update the form state and re-render the preview. Submit
// logs the collected values and re-renders.
//
// Rendering is fail-soft. A pass that cannot parse the substituted layout is
// logged and leaves the previous preview in place.
package session
