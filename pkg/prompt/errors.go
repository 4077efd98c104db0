package prompt

import "errors"

// ErrAborted signals the user interrupted the prompt (Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")
