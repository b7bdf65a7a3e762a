package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) *Document {
	t.Helper()
	doc := &Document{}
	require.NoError(t, json.Unmarshal([]byte(raw), doc))
	return doc
}

func TestRepairSynthesizesImageFromAssetPath(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10","userData":{"assetPath":"textures/wood.png"}}]}`)

	report := Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "assets/textures/wood.png", doc.Images[0].URL)
	assert.Equal(t, ImageRefString, doc.Textures[0].Image.Kind)
	assert.Equal(t, doc.Images[0].UUID, doc.Textures[0].Image.Value)
	assert.Equal(t, []string{doc.Images[0].UUID}, report.Added)
}

func TestRepairNoImageWithHint(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","userData":{"assetPath":"textures/wood.png"}}]}`)

	Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "assets/textures/wood.png", doc.Images[0].URL)
	assert.Equal(t, doc.Images[0].UUID, doc.Textures[0].Image.Value)
}

func TestRepairDirectStringPath(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"/assets/assets/brick.jpg"}],"images":[{"uuid":"keep","url":"assets/a.png"}]}`)

	report := Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 2)
	assert.Equal(t, "assets/brick.jpg", doc.Images[0].URL, "new descriptors are prepended")
	assert.Equal(t, "keep", doc.Images[1].UUID)
	assert.Equal(t, doc.Images[0].UUID, doc.Textures[0].Image.Value)
	assert.Len(t, report.Added, 1)
}

func TestRepairInlineImage(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":{"uuid":"i9","url":"/rock.png"}}]}`)

	Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "i9", doc.Images[0].UUID)
	assert.Equal(t, "assets/rock.png", doc.Images[0].URL)
	assert.Equal(t, UUIDRef("i9"), doc.Textures[0].Image)
}

func TestRepairUpdatesExistingImageInPlace(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"i1"}],"images":[{"uuid":"i1","url":"/textures//wood.png"}]}`)

	report := Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "assets/textures/wood.png", doc.Images[0].URL)
	assert.Equal(t, []string{"i1"}, report.Updated)
	assert.Empty(t, report.Added)
}

func TestRepairPrefersAssetPathOverImageURL(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"i1","userData":{"assetPath":"/hint.png"}}],"images":[{"uuid":"i1","url":"assets/old.png"}]}`)

	Repair(doc, RepairOptions{})

	assert.Equal(t, "assets/hint.png", doc.Images[0].URL)
}

func TestRepairBlobRewrite(t *testing.T) {
	raw := `{"textures":[
		{"uuid":"t1","image":"i1","userData":{"assetPath":"textures/wood.png"}},
		{"uuid":"t2","image":"i2"}
	],"images":[
		{"uuid":"i1","url":"blob:http://localhost/1"},
		{"uuid":"i2","url":"blob:http://localhost/2"}
	]}`

	doc := decode(t, raw)
	report := Repair(doc, RepairOptions{RewriteEphemeral: true})
	assert.Equal(t, "assets/textures/wood.png", doc.Image("i1").URL)
	assert.Equal(t, "blob:http://localhost/2", doc.Image("i2").URL)
	assert.Equal(t, []string{"t2"}, report.Unresolved)
}

func TestRepairSkipsUnderivable(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10"}]}`)

	report := Repair(doc, RepairOptions{})

	assert.Empty(t, doc.Images)
	assert.NotNil(t, doc.Images)
	assert.Equal(t, "6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10", doc.Textures[0].Image.Value)
	assert.Equal(t, []string{"t1"}, report.Skipped)
}

func TestRepairSynthesizesMissingTables(t *testing.T) {
	doc := decode(t, `{"object":{"uuid":"o"}}`)

	Repair(doc, RepairOptions{})

	assert.NotNil(t, doc.Textures)
	assert.NotNil(t, doc.Images)
}

func TestRepairKeepsDataURI(t *testing.T) {
	doc := decode(t, `{"textures":[{"uuid":"t1","image":"i1"}],"images":[{"uuid":"i1","url":"data:image/png;base64,AAAA"}]}`)

	report := Repair(doc, RepairOptions{RewriteEphemeral: true})

	assert.Equal(t, "data:image/png;base64,AAAA", doc.Images[0].URL)
	assert.Empty(t, report.Updated)
}

func TestRepairSharedMissingUUID(t *testing.T) {
	doc := decode(t, `{"textures":[
		{"uuid":"t1","image":"6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10","userData":{"assetPath":"a.png"}},
		{"uuid":"t2","image":"6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10","userData":{"assetPath":"a.png"}}
	]}`)

	Repair(doc, RepairOptions{})

	require.Len(t, doc.Images, 1)
	assert.Equal(t, "6F2C8B3E-2D4A-4F0B-9E1D-0C7A5B3E9F10", doc.Images[0].UUID)
}
