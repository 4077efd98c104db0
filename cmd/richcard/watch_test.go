package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-richcard/pkg/testsupport"
)

func waitRender(t *testing.T, renders <-chan struct{}) {
	t.Helper()
	select {
	case <-renders:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for a render")
	}
}

func TestWatchFilesRerendersOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "card.json")
	if err := os.WriteFile(doc, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	renders := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFiles(ctx, testsupport.DiscardLogger(), []string{doc}, 10*time.Millisecond, func() error {
			n := calls.Add(1)
			renders <- struct{}{}
			if n == 1 {
				return errors.New("broken document")
			}
			return nil
		})
	}()

	waitRender(t, renders)
	if err := os.WriteFile(doc, []byte(`{"params": []}`), 0o600); err != nil {
		t.Fatalf("rewrite doc: %v", err)
	}
	waitRender(t, renders)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
	if calls.Load() < 2 {
		t.Fatalf("expected a re-render after the change, got %d renders", calls.Load())
	}
}

func TestWatchFilesRejectsMissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope", "card.json")
	err := watchFiles(context.Background(), testsupport.DiscardLogger(), []string{missing}, time.Millisecond, func() error {
		t.Fatalf("render must not run")
		return nil
	})
	if err == nil {
		t.Fatalf("expected an error for an unwatchable directory")
	}
}

func TestWatchRequiresOutput(t *testing.T) {
	t.Parallel()

	if _, _, err := execute(t, "watch", configFixture("card.json")); err == nil {
		t.Fatalf("expected watch without --output to fail")
	}
	if _, _, err := execute(t, "watch", configFixture("card.json"), "-o", filepath.Join(t.TempDir(), "p.html"), "--set", "bad"); err == nil {
		t.Fatalf("expected malformed --set to fail before watching")
	}
}
