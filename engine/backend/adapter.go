package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
)

// Common errors returned by the adapter.
var (
	ErrNoBridge    = errors.New("native bridge not available")
	ErrInvalidPath = errors.New("invalid asset path")
)

// RewriteKind tags how a canonical path is to be loaded.
type RewriteKind int

const (
	// RewriteNone means the path is loaded as-is.
	RewriteNone RewriteKind = iota
	// RewriteSyncURL means the path was rewritten to a URL the loader can fetch directly.
	RewriteSyncURL
	// RewriteAsyncFetch means the bytes must be fetched first and fed to the loader through an ephemeral handle.
	RewriteAsyncFetch
)

func (k RewriteKind) String() string {
	switch k {
	case RewriteSyncURL:
		return "sync-url"
	case RewriteAsyncFetch:
		return "async-fetch"
	default:
		return "none"
	}
}

// RewriteResult is the outcome of resolving a canonical path against the active backend.
type RewriteResult struct {
	Kind RewriteKind

	// URL is the rewritten URL for RewriteSyncURL, or the unchanged path for RewriteNone.
	URL string

	// Relative is the project-relative asset path the result was computed from.
	Relative string

	// Fetch reads the asset bytes; set only for RewriteAsyncFetch.
	Fetch func(ctx context.Context) ([]byte, error)
}

// adapter is the implementation of the Adapter interface.
type adapter struct {
	mode        Mode
	modeSet     bool
	probe       Probe
	projectRoot string
	bridge      NativeBridge
	apiBase     string
}

// Adapter resolves canonical asset paths against the active backend.
type Adapter interface {
	// Mode returns the backend mode the adapter resolves against.
	//
	// Returns:
	//   - Mode: the active mode
	Mode() Mode

	// ProjectRoot returns the project root paths resolve relative to.
	//
	// Returns:
	//   - string: the project root, or "" in pass-through mode
	ProjectRoot() string

	// Resolve rewrites a canonical (or bare relative) asset path for the active backend.
	// In HTTP API mode the result is a synchronous URL; in native mode it carries a fetch
	// function reading the bytes through the bridge; in pass-through mode the path is
	// returned unchanged.
	//
	// Parameters:
	//   - canonicalPath: the asset path, with or without the "assets/" prefix
	//
	// Returns:
	//   - RewriteResult: the rewrite
	//   - error: ErrInvalidPath for empty or escaping paths, ErrNoBridge if native mode has no bridge
	Resolve(canonicalPath string) (RewriteResult, error)
}

var _ Adapter = &adapter{}

// NewAdapter creates a new Adapter with the options applied. When no explicit mode is
// given the mode is detected from the probe (or the bridge) and the project root.
//
// Parameters:
//   - options: a variadic list of AdapterBuilderOption functions to configure the Adapter
//
// Returns:
//   - Adapter: the configured adapter
func NewAdapter(options ...AdapterBuilderOption) Adapter {
	a := &adapter{}
	for _, option := range options {
		option(a)
	}

	if a.probe == nil && a.bridge != nil {
		a.probe = StaticProbe{NativeBridge: a.bridge}
	}
	if a.bridge == nil && a.probe != nil {
		a.bridge = a.probe.Bridge()
	}
	if !a.modeSet {
		a.mode = Detect(a.probe, a.projectRoot)
	}
	return a
}

func (a *adapter) Mode() Mode {
	return a.mode
}

func (a *adapter) ProjectRoot() string {
	return a.projectRoot
}

func (a *adapter) Resolve(canonicalPath string) (RewriteResult, error) {
	if a.mode == ModePassThrough {
		return RewriteResult{Kind: RewriteNone, URL: canonicalPath}, nil
	}

	rel := assetpath.Relative(canonicalPath)
	if rel == "" || strings.HasPrefix(rel, "../") || rel == ".." || strings.Contains(rel, "/../") {
		return RewriteResult{}, fmt.Errorf("%w: %q", ErrInvalidPath, canonicalPath)
	}

	switch a.mode {
	case ModeHTTPAPI:
		return RewriteResult{
			Kind:     RewriteSyncURL,
			URL:      a.apiBase + APIPath(ProjectName(a.projectRoot), rel),
			Relative: rel,
		}, nil
	case ModeNativeIPC:
		if a.bridge == nil {
			return RewriteResult{}, ErrNoBridge
		}
		bridge, root := a.bridge, a.projectRoot
		return RewriteResult{
			Kind:     RewriteAsyncFetch,
			Relative: rel,
			Fetch: func(ctx context.Context) ([]byte, error) {
				data, err := bridge.ReadAssetBytes(ctx, root, rel)
				if err != nil {
					return nil, fmt.Errorf("failed to read asset %q: %w", rel, err)
				}
				return data, nil
			},
		}, nil
	}
	return RewriteResult{Kind: RewriteNone, URL: canonicalPath}, nil
}
