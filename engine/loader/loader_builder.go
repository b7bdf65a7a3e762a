package loader

import (
	"log/slog"
	"net/http"

	"github.com/hack-pad/hackpadfs"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithHTTP enables http(s) URLs and, when base is set, host-relative paths such as
// asset API URLs, which are resolved against base.
//
// Parameters:
//   - client: the HTTP client, or nil for http.DefaultClient
//   - base: the scheme and host relative paths resolve against, e.g. "http://localhost:5173"
//
// Returns:
//   - LoaderBuilderOption: a function that applies the HTTP option to a loader
func WithHTTP(client *http.Client, base string) LoaderBuilderOption {
	return func(l *loader) {
		l.http = newHTTPLoaderBackend(client, base)
	}
}

// WithFS enables plain paths, read from a hackpadfs filesystem under root.
//
// Parameters:
//   - fsys: the filesystem
//   - root: the directory paths are relative to
//
// Returns:
//   - LoaderBuilderOption: a function that applies the filesystem option to a loader
func WithFS(fsys hackpadfs.FS, root string) LoaderBuilderOption {
	return func(l *loader) {
		l.fs = newFSLoaderBackend(fsys, root)
	}
}

// WithHandleStore enables blob: URLs, resolved through the store.
//
// Parameters:
//   - store: the ephemeral handle store
//
// Returns:
//   - LoaderBuilderOption: a function that applies the handle store option to a loader
func WithHandleStore(store *HandleStore) LoaderBuilderOption {
	return func(l *loader) {
		if store != nil {
			l.handles = store
		}
	}
}

// WithResource pre-populates the cache with a resource.
//
// Parameters:
//   - url: the cache key
//   - res: the resource to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the resource option to a loader
func WithResource(url string, res *Resource) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[url] = res
	}
}

// WithLogger sets the loader logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		l.logger = logger
	}
}
