package registry

import "github.com/Carmen-Shannon/oxy-assets/engine/material"

// RegistryBuilderOption is a functional option for configuring a Registry via NewRegistry.
type RegistryBuilderOption func(*registry)

// WithMaterial pre-registers a material.
//
// Parameters:
//   - path: the asset path
//   - m: the material
//
// Returns:
//   - RegistryBuilderOption: a function that registers the material
func WithMaterial(path string, m material.Material) RegistryBuilderOption {
	return func(r *registry) {
		key := Key(path)
		r.entries[key] = Entry{Path: key, Material: m}
	}
}

// WithMinSimilarity sets the similarity threshold in [0, 1] for Suggest. The default is 0.6.
//
// Parameters:
//   - threshold: the minimum similarity
//
// Returns:
//   - RegistryBuilderOption: a function that applies the threshold
func WithMinSimilarity(threshold float64) RegistryBuilderOption {
	return func(r *registry) {
		r.minSimilarity = threshold
	}
}
