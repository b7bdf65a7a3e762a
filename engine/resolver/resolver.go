// Package resolver is the entry point of the asset layer. It takes a scene document,
// repairs its image tables, decides the active asset backend, loads the graph through an
// intercepted loader and swaps constructed materials for the registry's shared instances.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/game_object"
	"github.com/Carmen-Shannon/oxy-assets/engine/loader"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/Carmen-Shannon/oxy-assets/engine/profiler"
	"github.com/Carmen-Shannon/oxy-assets/engine/registry"
	"github.com/Carmen-Shannon/oxy-assets/engine/scene"
	"github.com/hack-pad/hackpadfs"
)

// Phase names recorded by the profiler.
const (
	PhaseStrip       = "strip"
	PhaseRepair      = "repair"
	PhaseDeserialize = "deserialize"
	PhaseSynchronize = "synchronize"
)

// Result is the output of a resolve call.
type Result struct {
	// Root is the resolved object graph, nil if the document has no object.
	Root game_object.GameObject

	// Document is the repaired document. It is the caller's document unless transient
	// stripping is enabled, in which case it is a stripped deep copy.
	Document *document.Document

	Mode      backend.Mode
	Repair    document.RepairReport
	Sync      SyncReport
	Textures  map[string]*common.ImportedTexture
	Materials map[string]material.Material

	// Failures lists the images that could not be loaded. Their textures hold the
	// missing-texture placeholder.
	Failures []scene.AssetFailure

	// Stripped counts transient objects removed before deserialization.
	Stripped int

	// Phases holds per-phase timings when profiling is enabled.
	Phases []profiler.Phase
}

// resolver is the implementation of the Resolver interface.
type resolver struct {
	projectRoot string
	probe       backend.Probe
	apiBase     string

	registry registry.Registry
	handles  *loader.HandleStore
	base     loader.Primitive

	// baseOptions builds a fresh default loader per Resolve call when base is unset, so
	// its cache never outlives one call.
	baseOptions []loader.LoaderBuilderOption

	httpClient *http.Client
	fs         hackpadfs.FS

	deserializer    scene.Deserializer
	ownDeserializer bool
	workers         int
	decode          bool

	stripTransient bool
	profiling      bool

	logger *slog.Logger
}

// Resolver resolves scene documents against the project's asset backend.
type Resolver interface {
	// Resolve builds the object graph of a document. The environment is re-probed on every
	// call, so a resolver outlives changes of backend.
	//
	// The document's images and textures tables are repaired in place before the graph is
	// built. Per-image failures never fail the call; they are listed in Result.Failures.
	//
	// Parameters:
	//   - ctx: bounds every asset fetch
	//   - doc: the scene document
	//
	// Returns:
	//   - *Result: the resolved graph and what was done to get it
	//   - error: error if the document is nil, cannot be cloned, or ctx is cancelled
	Resolve(ctx context.Context, doc *document.Document) (*Result, error)

	// Mode returns the backend mode the next Resolve call would use.
	//
	// Returns:
	//   - backend.Mode: the detected mode
	Mode() backend.Mode

	// Close releases the deserializer's workers if the resolver created it.
	Close()
}

var _ Resolver = &resolver{}

// NewResolver creates a Resolver with the options applied. Without a project root every
// path passes through unchanged.
//
// Parameters:
//   - options: a variadic list of ResolverBuilderOption functions
//
// Returns:
//   - Resolver: the resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolver{
		logger: slog.Default(),
	}
	for _, option := range options {
		option(r)
	}
	r.logger = r.logger.With("component", "resolver")

	if r.handles == nil {
		r.handles = loader.NewHandleStore()
	}
	if r.base == nil {
		r.baseOptions = []loader.LoaderBuilderOption{
			loader.WithHandleStore(r.handles),
			loader.WithHTTP(r.httpClient, r.apiBase),
			loader.WithLogger(r.logger),
		}
		if r.fs != nil {
			r.baseOptions = append(r.baseOptions, loader.WithFS(r.fs, r.projectRoot))
		}
	}
	if r.deserializer == nil {
		var opts []scene.DeserializerBuilderOption
		if r.workers > 0 {
			opts = append(opts, scene.WithWorkers(r.workers))
		}
		opts = append(opts, scene.WithDecode(r.decode), scene.WithLogger(r.logger))
		r.deserializer = scene.NewDeserializer(opts...)
		r.ownDeserializer = true
	}
	return r
}

func (r *resolver) Mode() backend.Mode {
	return backend.Detect(r.probe, r.projectRoot)
}

func (r *resolver) Close() {
	if r.ownDeserializer {
		r.deserializer.Close()
	}
}

func (r *resolver) Resolve(ctx context.Context, doc *document.Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", document.ErrMalformed)
	}

	var prof *profiler.Profiler
	if r.profiling {
		prof = profiler.NewProfiler()
	}
	res := &Result{Document: doc}

	if r.stripTransient {
		prof.Begin(PhaseStrip)
		clone, err := doc.Clone()
		if err != nil {
			return nil, err
		}
		res.Document = clone
		res.Stripped = document.StripTransient(clone)
		prof.End(PhaseStrip)
	}

	adapter := backend.NewAdapter(
		backend.WithProjectRoot(r.projectRoot),
		backend.WithProbe(r.probe),
		backend.WithAPIBase(r.apiBase),
	)
	res.Mode = adapter.Mode()
	r.logger.Debug("resolving scene", "mode", res.Mode, "project", r.projectRoot)

	prof.Begin(PhaseRepair)
	res.Repair = document.Repair(res.Document, document.RepairOptions{
		RewriteEphemeral: res.Mode == backend.ModeHTTPAPI,
		Logger:           r.logger,
	})
	prof.End(PhaseRepair)

	syncer := NewSynchronizer(r.registry, r.logger)
	base := r.base
	if base == nil {
		base = loader.NewLoader(r.baseOptions...)
	}
	primitive := loader.Intercept(base, adapter,
		loader.WithHandles(r.handles),
		loader.WithInterceptorLogger(r.logger),
	)

	prof.Begin(PhaseDeserialize)
	parsed, err := r.deserializer.Parse(ctx, res.Document, scene.Hooks{
		Primitive:         primitive,
		MaterialsResolved: syncer.ResolveMaterials,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize scene: %w", err)
	}
	prof.End(PhaseDeserialize)

	prof.Begin(PhaseSynchronize)
	syncer.Walk(parsed.Root, res.Document)
	prof.End(PhaseSynchronize)

	res.Root = parsed.Root
	res.Textures = parsed.Textures
	res.Materials = parsed.Materials
	res.Failures = parsed.Failures
	res.Sync = syncer.Report()
	res.Phases = prof.Report()
	prof.Log(r.logger)

	if len(res.Failures) > 0 {
		r.logger.Warn("scene resolved with missing assets", "failures", len(res.Failures))
	}
	if leaked := r.handles.Len(); leaked > 0 {
		r.logger.Warn("ephemeral handles still live after resolve", "count", leaked)
	}
	return res, nil
}
