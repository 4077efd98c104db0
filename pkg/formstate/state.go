// Package formstate holds the key-value store shared between the form and the
// preview renderer. Values are plain strings or resource handles for file
// fields. The renderer only receives the read-only View.
package formstate

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-richcard/pkg/resource"
)

// Value is a single FormState entry.
type Value struct {
	Text   string
	Handle *resource.Handle
}

// Text wraps a string value.
func Text(s string) Value {
	return Value{Text: s}
}

// FromHandle wraps a resource handle.
func FromHandle(h resource.Handle) Value {
	return Value{Handle: &h}
}

// IsHandle reports whether the value references a selected file.
func (v Value) IsHandle() bool {
	return v.Handle != nil
}

// String returns the handle URL for file values and the text otherwise.
func (v Value) String() string {
	if v.Handle != nil {
		return v.Handle.URL
	}
	return v.Text
}

// Truthy mirrors the preview's visibility test: a live handle or a non-empty
// string.
func (v Value) Truthy() bool {
	if v.Handle != nil {
		return true
	}
	return v.Text != ""
}

// View is the read-only contract handed to the template renderer.
type View interface {
	Lookup(key string) (Value, bool)
	Keys() []string
}

// State tracks collected values. It is safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	values map[string]Value
}

// New seeds the state with prefilled text values.
func New(prefill map[string]string) *State {
	s := &State{values: make(map[string]Value, len(prefill))}
	for key, value := range prefill {
		s.values[key] = Text(value)
	}
	return s
}

// Set stores a text value and returns the value it replaced.
func (s *State) Set(key, value string) (Value, bool) {
	return s.put(key, Text(value))
}

// SetHandle stores a resource handle and returns the value it replaced so the
// caller can revoke a superseded handle.
func (s *State) SetHandle(key string, handle resource.Handle) (Value, bool) {
	return s.put(key, FromHandle(handle))
}

func (s *State) put(key string, value Value) (Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		s.values = make(map[string]Value)
	}
	prev, ok := s.values[key]
	s.values[key] = value
	return prev, ok
}

// Lookup returns the value stored under key.
func (s *State) Lookup(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Keys returns the stored keys in sorted order.
func (s *State) Keys() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Handles returns every handle currently referenced by the state.
func (s *State) Handles() []resource.Handle {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []resource.Handle
	for _, value := range s.values {
		if value.Handle != nil {
			out = append(out, *value.Handle)
		}
	}
	return out
}

// Snapshot returns a copy of the values rendered as strings, suitable for
// logging and serialisation.
func (s *State) Snapshot() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for key, value := range s.values {
		out[key] = value.String()
	}
	return out
}

// Freeze returns an immutable copy of the current state.
func (s *State) Freeze() View {
	if s == nil {
		return Map(nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Map, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}

// Map is a plain View, convenient for tests and one-off renders.
type Map map[string]Value

// Lookup implements View.
func (m Map) Lookup(key string) (Value, bool) {
	value, ok := m[key]
	return value, ok
}

// Keys implements View.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Strings builds a Map from text values.
func Strings(values map[string]string) Map {
	out := make(Map, len(values))
	for key, value := range values {
		out[key] = Text(value)
	}
	return out
}

// GoString keeps %#v output readable in test failures.
func (v Value) GoString() string {
	if v.Handle != nil {
		return fmt.Sprintf("formstate.Handle(%q)", v.Handle.URL)
	}
	return fmt.Sprintf("formstate.Text(%q)", v.Text)
}
