package prompt

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-richcard/pkg/descriptor"
	"github.com/goliatone/go-richcard/pkg/resource"
	"github.com/goliatone/go-richcard/pkg/session"
)

// Option configures a Runner.
type Option func(*Runner)

// WithPromptDriver swaps the terminal driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReadFile replaces how file params are read from disk.
func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(r *Runner) {
		if read != nil {
			r.readFile = read
		}
	}
}

// WithSkipConfirm submits without asking.
func WithSkipConfirm() Option {
	return func(r *Runner) {
		r.skipConfirm = true
	}
}

// Runner walks the params of a session through a PromptDriver.
type Runner struct {
	driver      PromptDriver
	logger      *slog.Logger
	readFile    func(string) ([]byte, error)
	skipConfirm bool
}

// New returns a Runner using the survey driver unless overridden.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger:   slog.Default(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Run asks every param of s in order, then submits. The bool reports whether
// the preview was submitted; declining the final confirmation is not an
// error.
func (r *Runner) Run(ctx context.Context, s *session.Session) (bool, error) {
	if s == nil {
		return false, errors.New("prompt: session is nil")
	}

	current := s.Values()
	for _, field := range s.Fields() {
		var err error
		if field.IsFile() {
			err = r.askFile(ctx, s, field)
		} else {
			err = r.askText(ctx, s, field, current[field.Param])
		}
		if err != nil {
			return false, err
		}
	}

	if !r.skipConfirm {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Render preview?", Default: true})
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if err := s.Submit(); err != nil {
		_ = r.driver.Info(ctx, "preview failed: "+err.Error())
		return false, fmt.Errorf("prompt: submit: %w", err)
	}
	result := s.LastResult()
	msg := fmt.Sprintf("preview rendered: %d elements, %d hidden", result.Elements, result.Hidden)
	if n := len(result.Diagnostics); n > 0 {
		msg += fmt.Sprintf(", %d skipped", n)
	}
	return true, r.driver.Info(ctx, msg)
}

func (r *Runner) askText(ctx context.Context, s *session.Session, field descriptor.Field, current string) error {
	cfg := InputConfig{
		Message: field.DisplayLabel(),
		Default: current,
		Help:    helpText(field),
	}
	if limit := field.MaxLength(); limit > 0 {
		cfg.Validator = func(value string) error {
			if n := utf8.RuneCountInString(value); n > limit {
				return fmt.Errorf("at most %d characters (got %d)", limit, n)
			}
			return nil
		}
	}

	value, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	if value == current {
		return nil
	}
	if err := s.Input(field.Param, value); err != nil {
		return fmt.Errorf("prompt: %s: %w", field.Param, err)
	}
	return nil
}

// askFile repeats until a readable image is given or the answer is empty.
func (r *Runner) askFile(ctx context.Context, s *session.Session, field descriptor.Field) error {
	help := helpText(field)
	if help == "" {
		help = "Path to an image file. Leave empty to keep the default image."
	}
	for {
		path, err := r.driver.Input(ctx, InputConfig{Message: field.DisplayLabel() + " (path)", Help: help})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}

		data, err := r.readFile(path)
		if err == nil {
			err = s.SelectFile(field.Param, filepath.Base(path), "", data)
		}
		switch {
		case err == nil:
			r.logger.Debug("prompt: image attached", "field", field.Param, "path", path)
			return nil
		case errors.Is(err, resource.ErrNotImage), errors.Is(err, os.ErrNotExist):
			if infoErr := r.driver.Info(ctx, err.Error()); infoErr != nil {
				return infoErr
			}
		default:
			return fmt.Errorf("prompt: %s: %w", field.Param, err)
		}
	}
}

var (
	plainPolicy     *bluemonday.Policy
	plainPolicyOnce sync.Once
)

// helpText returns the help markup as plain text, falling back to the
// placeholder.
func helpText(field descriptor.Field) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	if help := strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(field.Help))); help != "" {
		return help
	}
	return field.Placeholder
}
