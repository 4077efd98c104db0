// Package resource keeps session-scoped handles for files selected through
// file controls. A handle is addressable by URL for the lifetime of the store
// entry; callers must Revoke superseded handles and Close the store when the
// session ends.
package resource

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme prefixes every handle URL.
const Scheme = "blob:richcard/"

var (
	// ErrNotImage is returned when a selected file is not an image.
	ErrNotImage = errors.New("resource: only image/* content is accepted")
	// ErrRevoked is returned when a handle URL is unknown or already revoked.
	ErrRevoked = errors.New("resource: handle revoked or unknown")
	// ErrClosed is returned when the store no longer accepts new handles.
	ErrClosed = errors.New("resource: store closed")
)

// Handle references a selected file. Its URL is what gets substituted into
// layout templates.
type Handle struct {
	ID       uuid.UUID
	URL      string
	Name     string
	MIMEType string
	Size     int
}

type entry struct {
	handle Handle
	data   []byte
}

// Store owns the bytes behind every live handle.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	closed  bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Create registers data under a fresh handle. The MIME type must be image/*;
// when empty it is guessed from the file name extension.
func (s *Store) Create(name, mimeType string, data []byte) (Handle, error) {
	mediaType := strings.TrimSpace(mimeType)
	if mediaType == "" {
		mediaType = mime.TypeByExtension(extension(name))
	}
	if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = parsed
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return Handle{}, fmt.Errorf("%w (got %q for %q)", ErrNotImage, mediaType, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Handle{}, ErrClosed
	}

	id := uuid.New()
	handle := Handle{
		ID:       id,
		URL:      Scheme + id.String(),
		Name:     name,
		MIMEType: mediaType,
		Size:     len(data),
	}
	s.entries[handle.URL] = entry{handle: handle, data: append([]byte(nil), data...)}
	return handle, nil
}

// Open returns the bytes behind a live handle URL.
func (s *Store) Open(url string) ([]byte, Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.entries[url]
	if !ok {
		return nil, Handle{}, ErrRevoked
	}
	return append([]byte(nil), item.data...), item.handle, nil
}

// DataURL inlines a live handle as a data: URL so exported previews stay
// viewable once the store is gone.
func (s *Store) DataURL(url string) (string, error) {
	data, handle, err := s.Open(url)
	if err != nil {
		return "", err
	}
	return "data:" + handle.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Revoke releases a handle. It reports whether the handle was live.
func (s *Store) Revoke(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[url]; !ok {
		return false
	}
	delete(s.entries, url)
	return true
}

// Len reports the number of live handles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close revokes every live handle and rejects further Create calls. It
// returns the number of handles released.
func (s *Store) Close() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	released := len(s.entries)
	s.entries = make(map[string]entry)
	s.closed = true
	return released
}

// IsHandleURL reports whether value looks like a handle URL.
func IsHandleURL(value string) bool {
	return strings.HasPrefix(value, Scheme)
}

func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}
