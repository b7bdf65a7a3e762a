package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
)

// Resource is the raw result of loading a URL: the bytes and their MIME type.
type Resource struct {
	URL      string
	Data     []byte
	MimeType string
}

// Primitive is the shared loading operation every image, texture and file fetch in the
// deserializer goes through.
type Primitive interface {
	// Load fetches the resource a URL names.
	//
	// Parameters:
	//   - ctx: bounds the fetch
	//   - url: a data: URI, blob: handle, http(s) URL, API path or filesystem path
	//
	// Returns:
	//   - *Resource: the loaded resource
	//   - error: error if the URL cannot be loaded
	Load(ctx context.Context, url string) (*Resource, error)
}

// PrimitiveFunc adapts a function to the Primitive interface.
type PrimitiveFunc func(ctx context.Context, url string) (*Resource, error)

func (f PrimitiveFunc) Load(ctx context.Context, url string) (*Resource, error) {
	return f(ctx, url)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	cache map[string]*Resource

	data    loaderBackend
	handles loaderBackend
	http    loaderBackend
	fs      loaderBackend

	logger *slog.Logger
}

// Loader is the default Primitive. It dispatches on the URL's shape to a backend and
// caches durable results (filesystem and network) by URL. Embedded data and ephemeral
// handles are never cached.
type Loader interface {
	Primitive

	// Get retrieves a cached resource by URL. Returns nil if not cached.
	//
	// Parameters:
	//   - url: the cache key to look up
	//
	// Returns:
	//   - *Resource: the cached resource or nil
	Get(url string) *Resource

	// Resources returns a copy of the cache.
	//
	// Returns:
	//   - map[string]*Resource: all cached resources keyed by URL
	Resources() map[string]*Resource

	// Purge drops a URL from the cache so the next Load refetches it.
	//
	// Parameters:
	//   - url: the cache key to drop
	Purge(url string)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the options applied. Data URIs are always
// supported; the other backends are enabled by their options.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:     sync.RWMutex{},
		cache:  make(map[string]*Resource),
		data:   newDataLoaderBackend(),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(l)
	}
	l.logger = l.logger.With("component", "loader")
	return l
}

func (l *loader) Load(ctx context.Context, url string) (*Resource, error) {
	l.mu.RLock()
	if cached, ok := l.cache[url]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, cacheable, err := l.resolveBackend(url)
	if err != nil {
		return nil, err
	}

	res, err := backend.Load(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", truncate(url), err)
	}

	if cacheable {
		l.mu.Lock()
		l.cache[url] = res
		l.mu.Unlock()
	}
	l.logger.Debug("loaded resource", "url", truncate(url), "bytes", len(res.Data), "mime", res.MimeType)
	return res, nil
}

func (l *loader) Get(url string) *Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[url]
}

func (l *loader) Resources() map[string]*Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*Resource, len(l.cache))
	for k, v := range l.cache {
		result[k] = v
	}
	return result
}

func (l *loader) Purge(url string) {
	l.mu.Lock()
	delete(l.cache, url)
	l.mu.Unlock()
}

// resolveBackend selects a backend from the URL's shape and reports whether its
// results may be cached.
func (l *loader) resolveBackend(url string) (loaderBackend, bool, error) {
	var backend loaderBackend
	cacheable := true
	switch assetpath.Classify(url) {
	case assetpath.KindNone:
		return nil, false, fmt.Errorf("%w: empty url", ErrUnsupportedURL)
	case assetpath.KindEmbedded:
		backend, cacheable = l.data, false
	case assetpath.KindEphemeral:
		backend, cacheable = l.handles, false
	case assetpath.KindRemote, assetpath.KindAPI:
		backend = l.http
	default:
		backend = l.fs
		if backend == nil {
			backend = l.http
		}
	}
	if backend == nil {
		return nil, false, fmt.Errorf("%w: no backend for %s", ErrUnsupportedURL, truncate(url))
	}
	return backend, cacheable, nil
}

// truncate shortens data URIs for logs and errors.
func truncate(url string) string {
	const limit = 64
	if len(url) <= limit {
		return url
	}
	return url[:limit] + "..."
}
