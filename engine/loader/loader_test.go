package loader

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d}

// recorder is a base primitive that records every URL it is asked to load.
type recorder struct {
	calls []string
	store *HandleStore
	err   error
}

func (r *recorder) Load(ctx context.Context, url string) (*Resource, error) {
	r.calls = append(r.calls, url)
	if r.err != nil {
		return nil, r.err
	}
	if r.store != nil {
		if res, ok := r.store.Resolve(url); ok {
			return res, nil
		}
	}
	return &Resource{URL: url}, nil
}

type stubBridge struct {
	calls int
	data  []byte
	err   error
}

func (b *stubBridge) ReadAssetBytes(context.Context, string, string) ([]byte, error) {
	b.calls++
	return b.data, b.err
}

func TestLoadDataURI(t *testing.T) {
	l := NewLoader()

	res, err := l.Load(context.Background(), "data:text/plain;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), res.Data)
	assert.Equal(t, "text/plain", res.MimeType)

	res, err = l.Load(context.Background(), "data:,a%20b")
	require.NoError(t, err)
	assert.Equal(t, []byte("a b"), res.Data)
	assert.Empty(t, l.Resources(), "data URIs are not cached")

	_, err = l.Load(context.Background(), "data:image/png;base64")
	assert.Error(t, err)
}

func TestLoadUnsupported(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(context.Background(), "assets/tex.png")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	_, err = l.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
	_, err = l.Load(context.Background(), "blob:oxy/abc")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func TestLoadFSAndCache(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.MkdirAll(fsys, "proj/assets", 0o755))
	require.NoError(t, hackpadfs.WriteFullFile(fsys, "proj/assets/tex.png", pngHeader, 0o644))

	l := NewLoader(WithFS(fsys, "/proj/"))
	res, err := l.Load(context.Background(), "assets/tex.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Same(t, res, l.Get("assets/tex.png"))

	l.Purge("assets/tex.png")
	assert.Nil(t, l.Get("assets/tex.png"))

	_, err = l.Load(context.Background(), "assets/missing.png")
	assert.ErrorIs(t, err, hackpadfs.ErrNotExist)
}

func TestLoadHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.EscapedPath() != "/api/projects/p/assets/a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()

	l := NewLoader(WithHTTP(srv.Client(), srv.URL))
	res, err := l.Load(context.Background(), "/api/projects/p/assets/a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)

	_, err = l.Load(context.Background(), "/api/projects/p/assets/a.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second load served from cache")

	_, err = l.Load(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestHandleStore(t *testing.T) {
	s := NewHandleStore()
	url := s.Create(pngHeader)
	assert.Regexp(t, `^blob:oxy/[0-9a-f-]{36}$`, url)
	assert.Equal(t, 1, s.Len())

	l := NewLoader(WithHandleStore(s))
	res, err := l.Load(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.MimeType)

	s.Release(url)
	s.Release(url)
	assert.Equal(t, 0, s.Len())
	_, err = l.Load(context.Background(), url)
	assert.ErrorIs(t, err, ErrHandleNotFound)
}

func TestInterceptHTTPAPI(t *testing.T) {
	base := &recorder{}
	p := Intercept(base, backend.NewAdapter(backend.WithProjectRoot("My Project"), backend.WithMode(backend.ModeHTTPAPI)))

	for _, url := range []string{"assets/textures/wood.png", "textures/wood.png", "./foo/assets/textures/wood.png"} {
		_, err := p.Load(context.Background(), url)
		require.NoError(t, err)
	}
	_, err := p.Load(context.Background(), "data:,x")
	require.NoError(t, err)
	_, err = p.Load(context.Background(), "https://cdn.example.com/a.png")
	require.NoError(t, err)
	_, err = p.Load(context.Background(), "models/robot.glb")
	require.NoError(t, err)

	want := "/api/projects/My%20Project/assets/textures%2Fwood.png"
	assert.Equal(t, []string{
		want, want, want,
		"data:,x",
		"https://cdn.example.com/a.png",
		"models/robot.glb",
	}, base.calls)
}

func TestInterceptNative(t *testing.T) {
	store := NewHandleStore()
	base := &recorder{store: store}
	bridge := &stubBridge{data: pngHeader}
	adapter := backend.NewAdapter(backend.WithProjectRoot("/p"), backend.WithBridge(bridge))
	p := Intercept(base, adapter, WithHandles(store))

	res, err := p.Load(context.Background(), "assets/tex.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/tex.png", res.URL)
	assert.Equal(t, pngHeader, res.Data)
	assert.Equal(t, 1, bridge.calls)
	require.Len(t, base.calls, 1)
	assert.Regexp(t, `^blob:oxy/`, base.calls[0])
	assert.Equal(t, 0, store.Len(), "handle released after load")

	_, err = p.Load(context.Background(), "textures/plain.png")
	require.NoError(t, err)
	assert.Equal(t, "textures/plain.png", base.calls[1], "non-canonical paths delegate unchanged")
	assert.Equal(t, 1, bridge.calls)
}

func TestInterceptNativeFailure(t *testing.T) {
	boom := errors.New("no such file")
	store := NewHandleStore()
	base := &recorder{store: store}
	p := Intercept(base, backend.NewAdapter(backend.WithProjectRoot("/p"), backend.WithBridge(&stubBridge{err: boom})), WithHandles(store))

	_, err := p.Load(context.Background(), "assets/tex.png")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, base.calls, "base must not run after a failed fetch")
	assert.Equal(t, 0, store.Len())
}

func TestInterceptBaseFailureReleasesHandle(t *testing.T) {
	store := NewHandleStore()
	base := &recorder{store: store, err: errors.New("decode failed")}
	p := Intercept(base, backend.NewAdapter(backend.WithProjectRoot("/p"), backend.WithBridge(&stubBridge{data: pngHeader})), WithHandles(store))

	_, err := p.Load(context.Background(), "assets/tex.png")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestInterceptPassThrough(t *testing.T) {
	base := &recorder{}
	bridge := &stubBridge{}
	p := Intercept(base, backend.NewAdapter(backend.WithBridge(bridge)))

	_, err := p.Load(context.Background(), "assets/tex.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/tex.png"}, base.calls)
	assert.Zero(t, bridge.calls)
}

func TestInterceptTwice(t *testing.T) {
	base := &recorder{}
	adapter := backend.NewAdapter(backend.WithProjectRoot("p"), backend.WithMode(backend.ModeHTTPAPI))

	p := Intercept(Intercept(base, adapter), adapter)
	_, err := p.Load(context.Background(), "assets/a.png")
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/projects/p/assets/a.png"}, base.calls)
	assert.Same(t, base, Unwrap(p))
}

func TestInterceptTwiceLogsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	adapter := backend.NewAdapter(backend.WithProjectRoot("p"), backend.WithMode(backend.ModeHTTPAPI))

	p := Intercept(Intercept(Intercept(&recorder{}, adapter, WithInterceptorLogger(logger)), adapter), adapter)
	_, err := p.Load(context.Background(), "assets/a.png")
	require.NoError(t, err)

	require.Contains(t, buf.String(), "rewrote asset url")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("component=interceptor")))
}
