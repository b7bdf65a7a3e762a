package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/common"
)

// HandlePrefix prefixes every URL minted by a HandleStore.
const HandlePrefix = "blob:oxy/"

// ErrHandleNotFound is returned when a blob: URL names no live handle.
var ErrHandleNotFound = errors.New("ephemeral handle not found")

// HandleStore holds bytes behind short-lived blob: URLs so byte payloads can be fed to
// code that only accepts URLs. Every created handle must be released.
type HandleStore struct {
	mu      sync.Mutex
	entries map[string]*Resource
}

var _ loaderBackend = &HandleStore{}

// NewHandleStore creates an empty store.
func NewHandleStore() *HandleStore {
	return &HandleStore{entries: make(map[string]*Resource)}
}

// Create stores bytes under a fresh handle URL. The MIME type is sniffed from the bytes.
//
// Parameters:
//   - data: the payload
//
// Returns:
//   - string: the handle URL, "blob:oxy/<uuid>"
func (s *HandleStore) Create(data []byte) string {
	url := HandlePrefix + strings.ToLower(common.NewUUID())
	s.mu.Lock()
	s.entries[url] = &Resource{URL: url, Data: data, MimeType: sniffMIME(data, "application/octet-stream")}
	s.mu.Unlock()
	return url
}

// Resolve returns the resource behind a live handle.
//
// Parameters:
//   - url: the handle URL
//
// Returns:
//   - *Resource: the resource
//   - bool: false if the handle is unknown or released
func (s *HandleStore) Resolve(url string) (*Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.entries[url]
	return res, ok
}

// Release frees a handle. Releasing an unknown handle is a no-op.
//
// Parameters:
//   - url: the handle URL
func (s *HandleStore) Release(url string) {
	s.mu.Lock()
	delete(s.entries, url)
	s.mu.Unlock()
}

// Len returns the number of live handles.
func (s *HandleStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *HandleStore) Load(_ context.Context, url string) (*Resource, error) {
	res, ok := s.Resolve(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandleNotFound, url)
	}
	return res, nil
}
