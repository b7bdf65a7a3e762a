package resolver

import (
	"log/slog"
	"net/http"

	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/registry"
	"github.com/Carmen-Shannon/oxy-assets/engine/scene"
	"github.com/hack-pad/hackpadfs"
)

// ResolverBuilderOption is a functional option for configuring a Resolver.
type ResolverBuilderOption func(*resolver)

// WithProjectRoot sets the root canonical paths resolve relative to.
//
// Parameters:
//   - root: the project root, "" for pass-through
//
// Returns:
//   - ResolverBuilderOption: a function that applies the project root option
func WithProjectRoot(root string) ResolverBuilderOption {
	return func(r *resolver) {
		r.projectRoot = root
	}
}

// WithProbe sets the environment probe consulted at the start of every resolve call.
//
// Parameters:
//   - probe: the probe
//
// Returns:
//   - ResolverBuilderOption: a function that applies the probe option
func WithProbe(probe backend.Probe) ResolverBuilderOption {
	return func(r *resolver) {
		r.probe = probe
	}
}

// WithAPIBase sets the scheme and host prefixed to HTTP asset API URLs.
//
// Parameters:
//   - base: e.g. "http://localhost:5173"
//
// Returns:
//   - ResolverBuilderOption: a function that applies the API base option
func WithAPIBase(base string) ResolverBuilderOption {
	return func(r *resolver) {
		r.apiBase = base
	}
}

// WithRegistry sets the registry canonical materials are read from.
//
// Parameters:
//   - reg: the material registry
//
// Returns:
//   - ResolverBuilderOption: a function that applies the registry option
func WithRegistry(reg registry.Registry) ResolverBuilderOption {
	return func(r *resolver) {
		r.registry = reg
	}
}

// WithBaseLoader replaces the default loader. The primitive must resolve blob: handles
// from the store passed to WithHandleStore.
//
// Parameters:
//   - base: the undecorated loading primitive
//
// Returns:
//   - ResolverBuilderOption: a function that applies the loader option
func WithBaseLoader(base loader.Primitive) ResolverBuilderOption {
	return func(r *resolver) {
		r.base = base
	}
}

// WithHandleStore sets the store native-mode bytes are published through.
//
// Parameters:
//   - store: the ephemeral handle store
//
// Returns:
//   - ResolverBuilderOption: a function that applies the store option
func WithHandleStore(store *loader.HandleStore) ResolverBuilderOption {
	return func(r *resolver) {
		r.handles = store
	}
}

// WithHTTPClient sets the client the default loader fetches http(s) and API URLs with.
//
// Parameters:
//   - client: the HTTP client
//
// Returns:
//   - ResolverBuilderOption: a function that applies the client option
func WithHTTPClient(client *http.Client) ResolverBuilderOption {
	return func(r *resolver) {
		r.httpClient = client
	}
}

// WithFS lets the default loader read plain paths below the project root from a filesystem.
//
// Parameters:
//   - fsys: the filesystem
//
// Returns:
//   - ResolverBuilderOption: a function that applies the filesystem option
func WithFS(fsys hackpadfs.FS) ResolverBuilderOption {
	return func(r *resolver) {
		r.fs = fsys
	}
}

// WithDeserializer sets the deserializer. The resolver does not close a deserializer it
// did not create.
//
// Parameters:
//   - d: the deserializer
//
// Returns:
//   - ResolverBuilderOption: a function that applies the deserializer option
func WithDeserializer(d scene.Deserializer) ResolverBuilderOption {
	return func(r *resolver) {
		r.deserializer = d
	}
}

// WithWorkers sets the number of image fetch workers of the default deserializer.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - ResolverBuilderOption: a function that applies the workers option
func WithWorkers(n int) ResolverBuilderOption {
	return func(r *resolver) {
		r.workers = n
	}
}

// WithDecode makes the default deserializer decode every fetched image, so textures carry
// their dimensions and undecodable images become placeholders.
//
// Parameters:
//   - decode: whether to decode
//
// Returns:
//   - ResolverBuilderOption: a function that applies the decode option
func WithDecode(decode bool) ResolverBuilderOption {
	return func(r *resolver) {
		r.decode = decode
	}
}

// WithStripTransient resolves a deep copy of each document with runtime-only objects
// removed, leaving the caller's document untouched.
//
// Parameters:
//   - strip: whether to strip
//
// Returns:
//   - ResolverBuilderOption: a function that applies the strip option
func WithStripTransient(strip bool) ResolverBuilderOption {
	return func(r *resolver) {
		r.stripTransient = strip
	}
}

// WithProfiling records per-phase timings into Result.Phases.
//
// Parameters:
//   - enabled: whether to profile
//
// Returns:
//   - ResolverBuilderOption: a function that applies the profiling option
func WithProfiling(enabled bool) ResolverBuilderOption {
	return func(r *resolver) {
		r.profiling = enabled
	}
}

// WithLogger sets the logger shared by every component of a resolve call.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ResolverBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) ResolverBuilderOption {
	return func(r *resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}
