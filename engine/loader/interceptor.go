package loader

import (
	"context"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
)

// interceptor is the Primitive returned by Intercept.
type interceptor struct {
	base    Primitive
	adapter backend.Adapter
	handles *HandleStore
	logger  *slog.Logger

	// unscoped is the logger before the component attribute is added.
	unscoped *slog.Logger
}

var _ Primitive = &interceptor{}

// InterceptorOption is a functional option for configuring Intercept.
type InterceptorOption func(*interceptor)

// WithHandles sets the store native-mode bytes are published through. The base
// primitive must resolve blob: URLs from the same store.
//
// Parameters:
//   - store: the ephemeral handle store
//
// Returns:
//   - InterceptorOption: a function that applies the store option
func WithHandles(store *HandleStore) InterceptorOption {
	return func(i *interceptor) {
		i.handles = store
	}
}

// WithInterceptorLogger sets the interceptor logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - InterceptorOption: a function that applies the logger option
func WithInterceptorLogger(logger *slog.Logger) InterceptorOption {
	return func(i *interceptor) {
		i.logger = logger
	}
}

// Intercept decorates base so canonical asset requests are redirected through the
// adapter's backend. Opaque URLs (data:, blob:, http(s), API paths) and, in pass-through
// mode, every URL go to base unchanged.
//
// In HTTP API mode a relative asset path is extracted from the URL and rewritten to the
// API URL. In native mode canonical paths are fetched through the bridge, published as
// an ephemeral handle, loaded by base, and the handle released. A failed fetch is
// returned without calling base.
//
// Intercepting an already intercepted primitive replaces the previous decoration, so base
// runs exactly once per request no matter how often Intercept is applied.
//
// Parameters:
//   - base: the primitive to decorate
//   - adapter: the backend adapter for the current resolve call
//   - options: a variadic list of InterceptorOption functions
//
// Returns:
//   - Primitive: the decorated primitive
func Intercept(base Primitive, adapter backend.Adapter, options ...InterceptorOption) Primitive {
	i := &interceptor{
		base:    base,
		adapter: adapter,
		logger:  slog.Default(),
	}
	if prev, ok := base.(*interceptor); ok {
		i.base = prev.base
		i.handles = prev.handles
		i.logger = prev.unscoped
	}
	for _, option := range options {
		option(i)
	}
	if i.handles == nil {
		i.handles = NewHandleStore()
	}
	i.unscoped = i.logger
	i.logger = i.logger.With("component", "interceptor")
	return i
}

// Unwrap returns the undecorated primitive.
//
// Parameters:
//   - p: a primitive, intercepted or not
//
// Returns:
//   - Primitive: the primitive Intercept was applied to, or p itself
func Unwrap(p Primitive) Primitive {
	if i, ok := p.(*interceptor); ok {
		return i.base
	}
	return p
}

func (i *interceptor) Load(ctx context.Context, url string) (*Resource, error) {
	if i.adapter == nil {
		return i.base.Load(ctx, url)
	}
	kind := assetpath.Classify(url)
	if kind == assetpath.KindNone || kind.Opaque() {
		return i.base.Load(ctx, url)
	}

	switch i.adapter.Mode() {
	case backend.ModeHTTPAPI:
		return i.loadHTTP(ctx, url)
	case backend.ModeNativeIPC:
		return i.loadNative(ctx, url)
	default:
		return i.base.Load(ctx, url)
	}
}

func (i *interceptor) loadHTTP(ctx context.Context, url string) (*Resource, error) {
	ext := assetpath.ExtractRelative(url)
	if !ext.OK() {
		i.logger.Debug("url not rewritten", "url", url, "status", ext.Status)
		return i.base.Load(ctx, url)
	}
	rw, err := i.adapter.Resolve(ext.Relative)
	if err != nil {
		i.logger.Warn("failed to rewrite asset url", "url", url, "error", err)
		return i.base.Load(ctx, url)
	}
	i.logger.Debug("rewrote asset url", "from", url, "to", rw.URL)
	return i.base.Load(ctx, rw.URL)
}

func (i *interceptor) loadNative(ctx context.Context, url string) (*Resource, error) {
	if !assetpath.IsCanonical(url) {
		return i.base.Load(ctx, url)
	}
	rw, err := i.adapter.Resolve(url)
	if err != nil {
		i.logger.Warn("failed to resolve asset path", "url", url, "error", err)
		return nil, err
	}
	if rw.Fetch == nil {
		return i.base.Load(ctx, rw.URL)
	}
	data, err := rw.Fetch(ctx)
	if err != nil {
		i.logger.Error("native asset fetch failed", "url", url, "error", err)
		return nil, err
	}

	handle := i.handles.Create(data)
	defer i.handles.Release(handle)

	res, err := i.base.Load(ctx, handle)
	if err != nil {
		return nil, err
	}
	out := *res
	out.URL = url
	return &out, nil
}
