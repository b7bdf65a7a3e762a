// Package registry holds the canonical shared material instances of a project, keyed by
// asset path. Scenes that reference a material asset resolve to the registry's instance
// so edits to the asset show up everywhere it is used.
package registry

import (
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Entry is a registered material asset.
type Entry struct {
	// Path is the project-relative asset path, without the "assets/" prefix.
	Path     string
	Material material.Material
}

// registry is the implementation of the Registry interface.
type registry struct {
	mu      sync.RWMutex
	entries map[string]Entry

	minSimilarity float64
}

// Registry is an in-memory material asset registry. Lookups normalize the path, so
// "/materials/metal.material", "materials/metal.material" and
// "assets/materials/metal.material" name the same entry.
type Registry interface {
	// GetByCanonicalPath returns the entry registered under a path.
	//
	// Parameters:
	//   - path: the asset path, in any of the accepted shapes
	//
	// Returns:
	//   - Entry: the entry
	//   - bool: false if nothing is registered under the path
	GetByCanonicalPath(path string) (Entry, bool)

	// Register stores a material under a path, replacing any previous entry.
	//
	// Parameters:
	//   - path: the asset path
	//   - m: the canonical material instance
	Register(path string, m material.Material)

	// Unregister removes the entry under a path.
	//
	// Parameters:
	//   - path: the asset path
	Unregister(path string)

	// Paths returns the registered paths in sorted order.
	//
	// Returns:
	//   - []string: the normalized paths
	Paths() []string

	// Suggest returns registered paths similar to a path that missed, best match first.
	//
	// Parameters:
	//   - path: the path that was not found
	//
	// Returns:
	//   - []string: up to three similar paths
	Suggest(path string) []string
}

var _ Registry = &registry{}

// NewRegistry creates an empty registry with the options applied.
//
// Parameters:
//   - options: a variadic list of RegistryBuilderOption functions
//
// Returns:
//   - Registry: the registry
func NewRegistry(options ...RegistryBuilderOption) Registry {
	r := &registry{
		entries:       make(map[string]Entry),
		minSimilarity: 0.6,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Key normalizes an asset path to the registry key form.
//
// Parameters:
//   - path: the asset path
//
// Returns:
//   - string: the key, relative to the assets directory
func Key(path string) string {
	return assetpath.Relative(path)
}

func (r *registry) GetByCanonicalPath(path string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[Key(path)]
	return e, ok
}

func (r *registry) Register(path string, m material.Material) {
	key := Key(path)
	r.mu.Lock()
	r.entries[key] = Entry{Path: key, Material: m}
	r.mu.Unlock()
}

func (r *registry) Unregister(path string) {
	r.mu.Lock()
	delete(r.entries, Key(path))
	r.mu.Unlock()
}

func (r *registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.entries))
	for k := range r.entries {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

func (r *registry) Suggest(path string) []string {
	key := Key(path)
	type scored struct {
		path  string
		score float64
	}
	var candidates []scored
	lev := metrics.NewLevenshtein()
	for _, p := range r.Paths() {
		if s := strutil.Similarity(key, p, lev); s >= r.minSimilarity {
			candidates = append(candidates, scored{p, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	out := make([]string, 0, 3)
	for i := 0; i < len(candidates) && i < 3; i++ {
		out = append(out, candidates[i].path)
	}
	return out
}
