package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/game_object"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/Carmen-Shannon/oxy-assets/engine/registry"
)

// SyncReport summarizes one synchronization.
type SyncReport struct {
	// Substituted counts material slots (or map entries) that now hold a registry instance.
	Substituted int
	// Missed lists annotated asset paths with no registry entry, in first-seen order.
	Missed []string
	// Annotated counts textures whose asset path was copied from their descriptor.
	Annotated int
}

// synchronizer is the implementation of the Synchronizer interface.
type synchronizer struct {
	registry registry.Registry
	logger   *slog.Logger

	// resolved memoizes the substitution decision per constructed material.
	resolved map[material.Material]material.Material
	missed   map[string]bool
	report   SyncReport
}

// Synchronizer swaps freshly constructed materials for the canonical shared instances held
// by the asset registry, keyed by the material's asset-path annotation. A material whose
// path is not registered is kept as constructed.
//
// A Synchronizer serves a single resolve call: ResolveMaterials runs as the deserializer's
// materials hook and Walk runs once over the finished graph.
type Synchronizer interface {
	// ResolveMaterials substitutes registry instances into a uuid-keyed material map in place.
	//
	// Parameters:
	//   - ctx: unused, present so the method satisfies the deserializer hook
	//   - materials: the constructed materials
	ResolveMaterials(ctx context.Context, materials map[string]material.Material)

	// Walk visits every object below root, substituting registry instances in single and
	// array material slots, and copies texture asset paths from the document's texture
	// descriptors onto the textures of every resolved material.
	//
	// Parameters:
	//   - root: the resolved graph, may be nil
	//   - doc: the repaired document the graph was built from, may be nil
	Walk(root game_object.GameObject, doc *document.Document)

	// Report returns what the synchronizer has done so far.
	//
	// Returns:
	//   - SyncReport: the counts and misses
	Report() SyncReport
}

var _ Synchronizer = &synchronizer{}

// NewSynchronizer creates a Synchronizer reading from reg. A nil registry substitutes nothing.
//
// Parameters:
//   - reg: the asset registry, queried and never mutated
//   - logger: the logger, nil for slog.Default()
//
// Returns:
//   - Synchronizer: the synchronizer
func NewSynchronizer(reg registry.Registry, logger *slog.Logger) Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &synchronizer{
		registry: reg,
		logger:   logger.With("component", "synchronizer"),
		resolved: make(map[material.Material]material.Material),
		missed:   make(map[string]bool),
	}
}

func (s *synchronizer) Report() SyncReport {
	r := s.report
	r.Missed = append([]string(nil), s.report.Missed...)
	return r
}

func (s *synchronizer) ResolveMaterials(_ context.Context, materials map[string]material.Material) {
	for uuid, m := range materials {
		if canonical := s.canonical(m); canonical != m {
			materials[uuid] = canonical
			s.report.Substituted++
		}
	}
}

func (s *synchronizer) Walk(root game_object.GameObject, doc *document.Document) {
	if root == nil {
		return
	}
	seen := make(map[material.Material]bool)
	root.Traverse(func(obj game_object.GameObject) bool {
		if obj.MaterialIsArray() {
			for i, m := range obj.Materials() {
				if canonical := s.canonical(m); canonical != m {
					obj.SetMaterialAt(i, canonical)
					s.report.Substituted++
				}
			}
		} else if m := obj.Material(); m != nil {
			if canonical := s.canonical(m); canonical != m {
				obj.SetMaterial(canonical)
				s.report.Substituted++
			}
		}

		for _, m := range obj.Materials() {
			if m != nil && !seen[m] {
				seen[m] = true
				s.annotate(m, doc)
			}
		}
		return true
	})
}

// canonical returns the registry instance for m, or m itself.
func (s *synchronizer) canonical(m material.Material) material.Material {
	if m == nil || s.registry == nil {
		return m
	}
	if r, ok := s.resolved[m]; ok {
		return r
	}

	out := m
	if p := strings.TrimPrefix(m.AssetPath(), "/"); p != "" {
		if entry, ok := s.registry.GetByCanonicalPath(p); ok && entry.Material != nil {
			out = entry.Material
			if out != m {
				s.logger.Debug("substituted registry material", "material", m.UUID(), "path", entry.Path)
			}
		} else if !s.missed[p] {
			s.missed[p] = true
			s.report.Missed = append(s.report.Missed, p)
			s.logger.Warn("material asset not registered, keeping local instance",
				"material", m.UUID(), "path", p, "suggestions", s.registry.Suggest(p))
		}
	}
	s.resolved[m] = out
	s.resolved[out] = out
	return out
}

// annotate copies userData.assetPath from each texture's descriptor onto the texture.
func (s *synchronizer) annotate(m material.Material, doc *document.Document) {
	if doc == nil {
		return
	}
	for _, slot := range material.TextureSlots {
		tex := m.Texture(slot)
		if tex == nil {
			continue
		}
		desc := doc.Texture(tex.UUID)
		if desc == nil {
			continue
		}
		if p := desc.UserData.AssetPath(); p != "" && tex.AssetPath != p {
			tex.AssetPath = p
			s.report.Annotated++
		}
	}
}
