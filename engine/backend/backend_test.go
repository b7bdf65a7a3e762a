package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBridge struct {
	root, rel string
	data      []byte
	err       error
}

func (b *stubBridge) ReadAssetBytes(_ context.Context, projectRoot, relativePath string) ([]byte, error) {
	b.root, b.rel = projectRoot, relativePath
	return b.data, b.err
}

func TestDetect(t *testing.T) {
	bridge := &stubBridge{}
	tests := []struct {
		name  string
		probe Probe
		root  string
		want  Mode
	}{
		{"no root", StaticProbe{NativeBridge: bridge}, "", ModePassThrough},
		{"nil probe", nil, "/p", ModeHTTPAPI},
		{"bridge, not served", StaticProbe{NativeBridge: bridge}, "/p", ModeNativeIPC},
		{"bridge, custom scheme", StaticProbe{NativeBridge: bridge, Scheme: "tauri"}, "/p", ModeNativeIPC},
		{"bridge, served over http", StaticProbe{NativeBridge: bridge, Scheme: "http"}, "/p", ModeHTTPAPI},
		{"bridge, served over https", StaticProbe{NativeBridge: bridge, Scheme: "HTTPS"}, "/p", ModeHTTPAPI},
		{"no bridge", StaticProbe{Scheme: "file"}, "/p", ModeHTTPAPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.probe, tt.root))
		})
	}
}

func TestResolveHTTPAPI(t *testing.T) {
	a := NewAdapter(WithProjectRoot("My Project"), WithMode(ModeHTTPAPI))

	res, err := a.Resolve("textures/wood.png")
	require.NoError(t, err)
	assert.Equal(t, RewriteSyncURL, res.Kind)
	assert.Equal(t, "/api/projects/My%20Project/assets/textures%2Fwood.png", res.URL)

	res, err = a.Resolve("assets/textures/wood.png")
	require.NoError(t, err)
	assert.Equal(t, "/api/projects/My%20Project/assets/textures%2Fwood.png", res.URL)
	assert.Equal(t, "textures/wood.png", res.Relative)
}

func TestResolveHTTPAPIWithBase(t *testing.T) {
	a := NewAdapter(
		WithProjectRoot(`C:\Users\me\Projects\Démo`),
		WithProbe(StaticProbe{Scheme: "http"}),
		WithAPIBase("http://localhost:5173/"),
	)
	assert.Equal(t, ModeHTTPAPI, a.Mode())

	res, err := a.Resolve("assets/a b.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/api/projects/D%C3%A9mo/assets/a%20b.png", res.URL)
}

func TestResolveNative(t *testing.T) {
	bridge := &stubBridge{data: []byte("png")}
	a := NewAdapter(WithProjectRoot("/home/me/proj"), WithBridge(bridge))
	require.Equal(t, ModeNativeIPC, a.Mode())

	res, err := a.Resolve("assets/textures/wood.png")
	require.NoError(t, err)
	assert.Equal(t, RewriteAsyncFetch, res.Kind)
	require.NotNil(t, res.Fetch)
	assert.Empty(t, bridge.rel, "fetch must not run before it is invoked")

	data, err := res.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), data)
	assert.Equal(t, "/home/me/proj", bridge.root)
	assert.Equal(t, "textures/wood.png", bridge.rel)
}

func TestResolveNativeFailure(t *testing.T) {
	boom := errors.New("file not found")
	a := NewAdapter(WithProjectRoot("/p"), WithBridge(&stubBridge{err: boom}))

	res, err := a.Resolve("assets/x.png")
	require.NoError(t, err)
	_, err = res.Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestResolvePassThrough(t *testing.T) {
	a := NewAdapter(WithBridge(&stubBridge{}))
	assert.Equal(t, ModePassThrough, a.Mode())

	res, err := a.Resolve("assets/tex.png")
	require.NoError(t, err)
	assert.Equal(t, RewriteNone, res.Kind)
	assert.Equal(t, "assets/tex.png", res.URL)
}

func TestResolveInvalid(t *testing.T) {
	a := NewAdapter(WithProjectRoot("/p"), WithMode(ModeHTTPAPI))
	for _, p := range []string{"", "assets/", "../etc/passwd", "assets/a/../../x"} {
		_, err := a.Resolve(p)
		assert.ErrorIs(t, err, ErrInvalidPath, "path %q", p)
	}

	native := NewAdapter(WithProjectRoot("/p"), WithMode(ModeNativeIPC))
	_, err := native.Resolve("assets/x.png")
	assert.ErrorIs(t, err, ErrNoBridge)
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "My%20Project", EncodeURIComponent("My Project"))
	assert.Equal(t, "a%2Fb.png", EncodeURIComponent("a/b.png"))
	assert.Equal(t, "-_.!~*'()", EncodeURIComponent("-_.!~*'()"))
	assert.Equal(t, "%3F%23%26%3D%2B%24%2C%3A%40", EncodeURIComponent("?#&=+$,:@"))
	assert.Equal(t, "%E6%97%A5", EncodeURIComponent("日"))
}

func TestProjectName(t *testing.T) {
	assert.Equal(t, "proj", ProjectName("/home/me/proj"))
	assert.Equal(t, "proj", ProjectName("/home/me/proj/"))
	assert.Equal(t, "proj", ProjectName(`C:\work\proj`))
	assert.Equal(t, "proj", ProjectName("proj"))
	assert.Equal(t, "/api/projects/p/scene.json", SceneAPIPath("p"))
}
