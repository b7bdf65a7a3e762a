package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/resolver"
	"github.com/Carmen-Shannon/oxy-assets/engine/scene"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d}

func TestResolveCommand(t *testing.T) {
	project := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(project, "assets", "materials"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "assets", "tex.png"), pngHeader, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "assets", "materials", "metal.material"),
		[]byte(`{"type": "MeshStandardMaterial", "name": "Metal", "metalness": 1}`), 0o644))

	scene := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, os.WriteFile(scene, []byte(`{
		"images": [{"uuid": "img-1", "url": "/tex.png"}],
		"textures": [{"uuid": "tex-1", "image": "img-1"}],
		"materials": [{"uuid": "mat-1", "type": "MeshStandardMaterial", "map": "tex-1",
			"userData": {"assetPath": "/materials/metal.material"}}],
		"object": {"uuid": "mesh", "type": "Mesh", "material": "mat-1"}
	}`), 0o644))
	out := filepath.Join(t.TempDir(), "repaired.json")

	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"resolve", "--log-level", "error", "--project", project, "--out", out, scene})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "backend: native-ipc")
	assert.Contains(t, buf.String(), "1 from registry")
	assert.Contains(t, buf.String(), "all assets resolved")

	repaired, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(repaired), `"url": "assets/tex.png"`)
}

func TestResolveCommandErrors(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"resolve", "--log-level", "error"})
	assert.Error(t, cmd.Execute(), "no scene file and no api base")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2]`), 0o644))
	cmd = newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"resolve", "--log-level", "error", bad})
	assert.Error(t, cmd.Execute())
}

func TestPrintSummaryCountsLoadedTextures(t *testing.T) {
	res := &resolver.Result{
		Textures: map[string]*common.ImportedTexture{
			"wood":  {URL: "assets/wood.png"},
			"bark":  common.PlaceholderTexture("img-missing", "assets/missing.png"),
			"moss":  common.PlaceholderTexture("img-missing", "assets/missing.png"),
			"stone": common.PlaceholderTexture("", ""),
		},
		Failures: []scene.AssetFailure{
			{URL: "assets/missing.png", Err: errors.New("not found")},
		},
	}

	var buf bytes.Buffer
	printSummary(termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii)), res, false)
	assert.Contains(t, buf.String(), "textures: 1 loaded")
	assert.Contains(t, buf.String(), "missing assets/missing.png: not found")
}

func TestFSPath(t *testing.T) {
	p, err := fsPath("/srv/projects/../demo")
	require.NoError(t, err)
	assert.Equal(t, "srv/demo", p)
}
