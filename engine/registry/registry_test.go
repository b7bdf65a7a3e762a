package registry

import (
	"context"
	"testing"

	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByCanonicalPath(t *testing.T) {
	metal := material.NewMaterial(material.WithName("metal"))
	r := NewRegistry(WithMaterial("/materials/metal.material", metal))

	for _, p := range []string{"materials/metal.material", "/materials/metal.material", "assets/materials/metal.material", "assets/assets/materials/metal.material"} {
		e, ok := r.GetByCanonicalPath(p)
		require.True(t, ok, "path %q", p)
		assert.Same(t, metal, e.Material)
		assert.Equal(t, "materials/metal.material", e.Path)
	}

	_, ok := r.GetByCanonicalPath("materials/wood.material")
	assert.False(t, ok)

	r.Unregister("materials/metal.material")
	_, ok = r.GetByCanonicalPath("materials/metal.material")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	r := NewRegistry()
	r.Register("materials/metal.material", material.NewMaterial())
	r.Register("materials/metals.material", material.NewMaterial())
	r.Register("textures/unrelated/thing.png", material.NewMaterial())

	assert.Equal(t, []string{"materials/metal.material", "materials/metals.material", "textures/unrelated/thing.png"}, r.Paths())

	got := r.Suggest("/materials/metl.material")
	require.NotEmpty(t, got)
	assert.Equal(t, "materials/metal.material", got[0])
	assert.NotContains(t, got, "textures/unrelated/thing.png")
}

func TestLoadMaterials(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.MkdirAll(fsys, "work/proj/assets/materials/sub", 0o755))
	files := map[string]string{
		"work/proj/assets/materials/metal.material": `{"uuid":"M","type":"MeshStandardMaterial","name":"Brushed","metalness":1}`,
		"work/proj/assets/materials/sub/broken.mat": `{not json`,
		"work/proj/assets/materials/sub/mesh.mat":   `{"type":"Mesh"}`,
		"work/proj/assets/materials/readme.txt":     `ignored`,
	}
	for name, content := range files {
		require.NoError(t, hackpadfs.WriteFullFile(fsys, name, []byte(content), 0o644))
	}

	r := NewRegistry()
	n, err := LoadMaterials(context.Background(), fsys, "/work/proj", r, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	e, ok := r.GetByCanonicalPath("/materials/metal.material")
	require.True(t, ok)
	assert.Equal(t, "Brushed", e.Material.Name())
	assert.Equal(t, float32(1), e.Material.Metallic())
	assert.Equal(t, "materials/metal.material", e.Material.AssetPath())

	e, ok = r.GetByCanonicalPath("materials/sub/broken.mat")
	require.True(t, ok)
	assert.Equal(t, "broken", e.Material.Name())
	assert.Equal(t, material.DefaultType, e.Material.Type())

	e, ok = r.GetByCanonicalPath("materials/sub/mesh.mat")
	require.True(t, ok)
	assert.Equal(t, "mesh", e.Material.Name())

	backslashed := NewRegistry()
	n, err = LoadMaterials(context.Background(), fsys, `\work\proj`, backslashed, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = LoadMaterials(context.Background(), fsys, "/missing", r, nil)
	assert.Error(t, err)
}
