package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"metadata": {"version": 4.6, "type": "Object", "generator": "Object3D.toJSON"},
	"geometries": [{"uuid": "g1", "type": "BoxGeometry"}],
	"materials": [
		{"uuid": "m1", "type": "MeshStandardMaterial", "color": 16777215, "map": "t1",
		 "userData": {"assetPath": "/materials/metal.json"}}
	],
	"textures": [
		{"uuid": "t1", "image": "i1", "wrap": [1000, 1001], "magFilter": 1006, "minFilter": 1008,
		 "userData": {"assetPath": "textures/wood.png"}, "flipY": false}
	],
	"images": [{"uuid": "i1", "url": "blob:http://localhost/abc"}],
	"object": {
		"uuid": "o1", "type": "Scene", "name": "root",
		"children": [
			{"uuid": "o2", "type": "Mesh", "geometry": "g1", "material": "m1"},
			{"uuid": "o3", "type": "Mesh", "geometry": "g1", "material": ["m1", "m1"]}
		]
	}
}`

func TestDocumentRoundTripKeepsUnknownFields(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	assert.Contains(t, doc.Extra, "geometries")
	require.Len(t, doc.Textures, 1)
	assert.Contains(t, doc.Textures[0].Extra, "flipY")
	assert.Equal(t, []int{1000, 1001}, doc.Textures[0].Wrap)
	assert.Equal(t, "t1", doc.Materials[0].TextureRef("map"))
	assert.Equal(t, "/materials/metal.json", doc.Materials[0].UserData.AssetPath())

	out, err := json.Marshal(&doc)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Contains(t, generic, "geometries")

	var again Document
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, "i1", again.Textures[0].Image.Value)
	assert.Equal(t, "o2", again.Object.Children[0].UUID)
	assert.False(t, again.Object.Children[0].Material.Array)
	assert.True(t, again.Object.Children[1].Material.Array)
	assert.Equal(t, []string{"m1", "m1"}, again.Object.Children[1].Material.UUIDs)
}

func TestImageRefShapes(t *testing.T) {
	var tex TextureDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"t","image":{"uuid":"i","url":"x.png"}}`), &tex))
	assert.Equal(t, ImageRefInline, tex.Image.Kind)
	assert.Equal(t, "x.png", tex.Image.Inline.URL)

	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"t"}`), &tex))
	assert.Equal(t, ImageRefNone, tex.Image.Kind)

	out, err := json.Marshal(tex)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "image")
}

func TestImageDescriptorArrayURLKept(t *testing.T) {
	var img ImageDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"cube","url":["a.png","b.png"]}`), &img))
	assert.Empty(t, img.URL)

	out, err := json.Marshal(img)
	require.NoError(t, err)
	assert.JSONEq(t, `{"uuid":"cube","url":["a.png","b.png"]}`, string(out))
}

func TestWalkAndLookup(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	var seen []string
	doc.Walk(func(o *ObjectDescriptor) bool {
		seen = append(seen, o.UUID)
		return true
	})
	assert.Equal(t, []string{"o1", "o2", "o3"}, seen)
	assert.NotNil(t, doc.Texture("t1"))
	assert.NotNil(t, doc.Image("i1"))
	assert.NotNil(t, doc.Material("m1"))
	assert.Nil(t, doc.Material("missing"))
}

func TestClone(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(sampleDoc), &doc))

	clone, err := doc.Clone()
	require.NoError(t, err)
	require.NotNil(t, clone.Object)

	clone.Images[0].URL = "assets/changed.png"
	clone.Object.Children = nil

	assert.Equal(t, "blob:http://localhost/abc", doc.Images[0].URL)
	assert.Len(t, doc.Object.Children, 2)
}

func TestStripTransient(t *testing.T) {
	raw := `{"object":{"uuid":"root","type":"Scene","children":[
		{"uuid":"a","type":"Mesh"},
		{"uuid":"b","type":"BatchedRenderer"},
		{"uuid":"c","type":"Group","children":[{"uuid":"d","type":"ParticleEmitter"},{"uuid":"e","type":"Mesh"}]},
		{"uuid":"f","type":"ParticleSystem","userData":{"isParticleSystem":true}},
		{"uuid":"g","type":"ParticleSystem"}
	]}}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, 3, StripTransient(&doc))

	var seen []string
	doc.Walk(func(o *ObjectDescriptor) bool {
		seen = append(seen, o.UUID)
		return true
	})
	assert.Equal(t, []string{"root", "a", "c", "e", "f"}, seen)
}
