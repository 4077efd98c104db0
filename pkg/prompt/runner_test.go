package prompt

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-richcard/pkg/config"
	"github.com/goliatone/go-richcard/pkg/emulator"
	"github.com/goliatone/go-richcard/pkg/session"
	"github.com/goliatone/go-richcard/pkg/testsupport"
)

type stubDriver struct {
	inputs   []string
	confirm  []bool
	configs  []InputConfig
	messages []string
	inputPos int
	confPos  int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.configs = append(s.configs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confPos]
	s.confPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.messages = append(s.messages, msg)
	return nil
}

func newCardSession(t *testing.T) *session.Session {
	t.Helper()
	doc, err := config.LoadFile(filepath.Join("..", "config", "testdata", "card.json"))
	if err != nil {
		t.Fatalf("load card: %v", err)
	}
	s, err := session.New(emulator.NewMount("form"), emulator.NewMount("preview"), doc,
		session.WithLogger(testsupport.DiscardLogger()))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func readStub(path string) ([]byte, error) {
	return []byte("\x89PNG\r\n\x1a\n" + path), nil
}

func TestRunFillsSessionAndSubmits(t *testing.T) {
	t.Parallel()

	s := newCardSession(t)
	driver := &stubDriver{
		inputs:  []string{"Hello", "Body", "notes.txt", "card.png", "Buy", "yes"},
		confirm: []bool{true},
	}
	runner := New(WithPromptDriver(driver), WithReadFile(readStub), WithLogger(testsupport.DiscardLogger()))

	submitted, err := runner.Run(testsupport.Context(), s)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !submitted {
		t.Fatalf("expected the preview to be submitted")
	}

	values := s.Values()
	if values["mTitle"] != "Hello" || values["mButton"] != "Buy" || values["mShowButton"] != "yes" {
		t.Fatalf("unexpected values: %v", values)
	}
	if !strings.HasPrefix(values["mTitleMedia"], "blob:") {
		t.Fatalf("expected an image handle, got %q", values["mTitleMedia"])
	}

	if len(driver.messages) != 2 || !strings.Contains(driver.messages[0], "image") {
		t.Fatalf("expected a rejection then a summary, got %v", driver.messages)
	}
	if driver.messages[1] != "preview rendered: 4 elements, 0 hidden" {
		t.Fatalf("unexpected summary %q", driver.messages[1])
	}

	wantMessages := []string{"mTitle", "mDescription", "Title image (path)", "Title image (path)", "mButton", "mShowButton"}
	var gotMessages []string
	for _, cfg := range driver.configs {
		gotMessages = append(gotMessages, cfg.Message)
	}
	if diff := cmp.Diff(wantMessages, gotMessages); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if driver.configs[0].Help != "Shown in bold" {
		t.Fatalf("help should be plain text, got %q", driver.configs[0].Help)
	}
}

func TestRunValidatesStrSize(t *testing.T) {
	t.Parallel()

	s := newCardSession(t)
	driver := &stubDriver{inputs: []string{"", "", "", "", ""}}
	runner := New(WithPromptDriver(driver), WithSkipConfirm())

	if _, err := runner.Run(testsupport.Context(), s); err != nil {
		t.Fatalf("run: %v", err)
	}
	validate := driver.configs[0].Validator
	if validate == nil {
		t.Fatalf("expected a validator for a sized field")
	}
	if err := validate(strings.Repeat("x", 31)); err == nil {
		t.Fatalf("expected over-length input to be rejected")
	}
	if err := validate(strings.Repeat("é", 30)); err != nil {
		t.Fatalf("30 runes should pass: %v", err)
	}
	if driver.configs[1].Validator != nil {
		t.Fatalf("unsized field should not be validated")
	}
}

func TestRunDeclinedAndAborted(t *testing.T) {
	t.Parallel()

	s := newCardSession(t)
	declined := &stubDriver{inputs: []string{"a", "b", "", "c", "d"}, confirm: []bool{false}}
	submitted, err := New(WithPromptDriver(declined)).Run(testsupport.Context(), s)
	if err != nil || submitted {
		t.Fatalf("declined run: submitted=%v err=%v", submitted, err)
	}
	if len(declined.messages) != 0 {
		t.Fatalf("nothing should be reported when declined")
	}

	aborted := &abortingDriver{}
	if _, err := New(WithPromptDriver(aborted)).Run(testsupport.Context(), s); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortingDriver struct {
	stubDriver
}

func (d *abortingDriver) Input(context.Context, InputConfig) (string, error) {
	return "", ErrAborted
}
