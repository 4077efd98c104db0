package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-richcard/pkg/resource"
)

func TestStateSetReturnsPreviousValue(t *testing.T) {
	t.Parallel()

	state := New(nil)
	if _, existed := state.Set("title", "Hello"); existed {
		t.Fatalf("expected first write to report no previous value")
	}
	prev, existed := state.Set("title", "World")
	if !existed || prev.Text != "Hello" {
		t.Fatalf("expected previous value Hello, got %#v (existed=%v)", prev, existed)
	}
}

func TestStateHandlesAndSnapshot(t *testing.T) {
	t.Parallel()

	store := resource.NewStore()
	handle, err := store.Create("hero.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("create handle: %v", err)
	}

	state := New(map[string]string{"title": "Hi"})
	state.SetHandle("media", handle)

	want := map[string]string{"title": "Hi", "media": handle.URL}
	if diff := cmp.Diff(want, state.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"media", "title"}, state.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if handles := state.Handles(); len(handles) != 1 || handles[0].URL != handle.URL {
		t.Fatalf("expected single handle %s, got %+v", handle.URL, handles)
	}
}

func TestValueTruthy(t *testing.T) {
	t.Parallel()

	if Text("").Truthy() {
		t.Fatalf("empty text must be falsy")
	}
	if !Text("x").Truthy() {
		t.Fatalf("non-empty text must be truthy")
	}
	if !FromHandle(resource.Handle{URL: resource.Scheme + "id"}).Truthy() {
		t.Fatalf("handles must be truthy")
	}
}

func TestFreezeIsIsolatedFromLaterWrites(t *testing.T) {
	t.Parallel()

	state := New(map[string]string{"title": "before"})
	frozen := state.Freeze()
	state.Set("title", "after")

	value, ok := frozen.Lookup("title")
	if !ok || value.Text != "before" {
		t.Fatalf("expected frozen view to keep %q, got %#v", "before", value)
	}
}
