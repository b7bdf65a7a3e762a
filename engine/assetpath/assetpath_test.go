package assetpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"textures/wood.png", "assets/textures/wood.png"},
		{"/assets/foo/bar.png", "assets/foo/bar.png"},
		{"assets/assets/x.png", "assets/x.png"},
		{"assets/assets/assets/x.png", "assets/x.png"},
		{"/textures//wood.png", "assets/textures/wood.png"},
		{"//assets//x.png", "assets/x.png"},
		{"assets/", "assets/"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"blob:http://localhost/1234", "blob:http://localhost/1234"},
		{"http://cdn.example.com/wood.png", "http://cdn.example.com/wood.png"},
		{"https://cdn.example.com/assets/wood.png", "https://cdn.example.com/assets/wood.png"},
		{"/api/projects/p/assets/x.png", "/api/projects/p/assets/x.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Canonicalize(tt.in), "input %q", tt.in)
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{
		"x.png", "/x.png", "assets/x.png", "/assets/assets/x.png", "a//b///c.png",
		"assets", "assets/", "/", "//", "assets//assets/x", "httpdocs/x.png",
		"models/chair/assets/seat.png", "./rel.png", "../up.png",
	}
	for _, p := range inputs {
		once := Canonicalize(p)
		assert.Equal(t, once, Canonicalize(once), "input %q", p)
		assert.NotContains(t, once, "assets/assets/", "input %q", p)
		assert.False(t, len(once) > 0 && once[0] == '/', "input %q has leading slash", p)
	}
}

func TestCanonicalizeBareRelative(t *testing.T) {
	for _, p := range []string{"wood.png", "textures/wood.png", "a/b/c/d.jpg", "material.json"} {
		assert.Equal(t, "assets/"+p, Canonicalize(p))
	}
}

func TestCanonicalizeHint(t *testing.T) {
	blob := "blob:http://localhost:5173/0f1c"

	assert.Equal(t, "assets/textures/wood.png", CanonicalizeHint(blob, "/textures/wood.png", true))
	assert.Equal(t, blob, CanonicalizeHint(blob, "/textures/wood.png", false))
	assert.Equal(t, blob, CanonicalizeHint(blob, "", true))
	assert.Equal(t, "assets/x.png", CanonicalizeHint("x.png", "other.png", true))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNone, Classify(""))
	assert.Equal(t, KindEmbedded, Classify("data:,x"))
	assert.Equal(t, KindEphemeral, Classify("blob:oxy/1"))
	assert.Equal(t, KindRemote, Classify("https://example.com/x.png"))
	assert.Equal(t, KindAPI, Classify("/api/projects/p/assets/x.png"))
	assert.Equal(t, KindCanonical, Classify("assets/x.png"))
	assert.Equal(t, KindRelative, Classify("assets/assets/x.png"))
	assert.Equal(t, KindRelative, Classify("/x.png"))
	assert.True(t, KindAPI.Opaque())
	assert.False(t, KindCanonical.Opaque())
}

func TestExtractRelative(t *testing.T) {
	tests := []struct {
		in     string
		status Status
		rel    string
	}{
		{"assets/textures/wood.png", StatusOK, "textures/wood.png"},
		{"assets/assets/wood.png", StatusOK, "wood.png"},
		{"/static/assets/wood.png", StatusOK, "wood.png"},
		{"wood.PNG", StatusOK, "wood.PNG"},
		{"models/chair.glb", StatusUnsupported, ""},
		{"/absolute/wood.png", StatusUnsupported, ""},
		{"data:image/png;base64,AA", StatusUnsupported, ""},
		{"blob:oxy/1", StatusUnsupported, ""},
		{"https://cdn/assets/wood.png", StatusUnsupported, ""},
		{"/api/projects/p/assets/wood.png", StatusUnsupported, ""},
		{"", StatusMalformed, ""},
		{"assets/", StatusMalformed, ""},
		{"assets/../secret.png", StatusMalformed, ""},
	}
	for _, tt := range tests {
		got := ExtractRelative(tt.in)
		assert.Equal(t, tt.status, got.Status, "input %q", tt.in)
		assert.Equal(t, tt.rel, got.Relative, "input %q", tt.in)
	}
}

func TestRelative(t *testing.T) {
	assert.Equal(t, "textures/wood.png", Relative("assets/textures/wood.png"))
	assert.Equal(t, "textures/wood.png", Relative("textures/wood.png"))
	assert.Equal(t, "x", Relative("/assets/assets/x"))
}
