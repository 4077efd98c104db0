package placeholder

import (
	"errors"
	"fmt"
)

// Kind classifies render failures.
type Kind string

const (
	// KindMalformedLayout means the substituted text was not valid JSON.
	KindMalformedLayout Kind = "malformed_layout"
	// KindTemplate means the template itself could not be serialised.
	KindTemplate Kind = "template"
)

// ErrMalformedLayout matches every RenderError of kind KindMalformedLayout
// through errors.Is.
var ErrMalformedLayout = errors.New("placeholder: malformed layout after substitution")

// RenderError reports why a render pass was aborted.
type RenderError struct {
	Kind Kind
	Text string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("placeholder: %s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMalformedLayout) match by kind.
func (e *RenderError) Is(target error) bool {
	return target == ErrMalformedLayout && e.Kind == KindMalformedLayout
}
