package material

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
)

// DefaultType is the material type used when a descriptor names none.
const DefaultType = "MeshStandardMaterial"

// TextureSlots lists the material properties that can hold a texture.
var TextureSlots = []string{
	"map",
	"normalMap",
	"bumpMap",
	"roughnessMap",
	"metalnessMap",
	"aoMap",
	"emissiveMap",
	"displacementMap",
	"alphaMap",
	"envMap",
	"lightMap",
	"clearcoatMap",
	"clearcoatNormalMap",
	"clearcoatRoughnessMap",
	"sheenColorMap",
	"sheenRoughnessMap",
	"specularColorMap",
	"specularIntensityMap",
	"transmissionMap",
	"thicknessMap",
	"iridescenceMap",
	"iridescenceThicknessMap",
}

// material is the implementation of the Material interface.
type material struct {
	uuid      string
	typ       string
	name      string
	assetPath string
	color     [4]float32
	emissive  [4]float32
	metallic  float32
	roughness float32
	opacity   float32
	textures  map[string]*common.ImportedTexture
	userData  document.UserData
}

// Material defines the interface for a resolved scene material: surface factors, the
// textures bound to its slots and the asset it was loaded from.
//
// Materials are shared by reference. A material taken from the asset registry is the
// same instance on every object that uses it, so identity comparison tells a shared
// asset from a local copy.
type Material interface {
	// UUID retrieves the material identifier from the scene document.
	//
	// Returns:
	//   - string: the uuid
	UUID() string

	// Type retrieves the material type, e.g. "MeshStandardMaterial".
	//
	// Returns:
	//   - string: the type name
	Type() string

	// Name retrieves the display name of the material.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// AssetPath retrieves the userData.assetPath annotation of the material, or "" for
	// materials that are not backed by an asset file.
	//
	// Returns:
	//   - string: the asset path as written in the document
	AssetPath() string

	// UserData retrieves the free-form annotations of the material.
	//
	// Returns:
	//   - document.UserData: the annotation map, possibly nil
	UserData() document.UserData

	// Color retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	Color() [4]float32

	// Emissive retrieves the emissive RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the emissive color as RGBA values
	Emissive() [4]float32

	// Metallic retrieves the metalness factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metalness factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Opacity retrieves the opacity of the material.
	//
	// Returns:
	//   - float32: the opacity in [0, 1]
	Opacity() float32

	// Texture retrieves the texture bound to a slot, or nil if the slot is empty.
	//
	// Parameters:
	//   - slot: one of TextureSlots
	//
	// Returns:
	//   - *common.ImportedTexture: the texture, or nil
	Texture(slot string) *common.ImportedTexture

	// SetTexture binds a texture to a slot. A nil texture clears the slot.
	//
	// Parameters:
	//   - slot: one of TextureSlots
	//   - tex: the texture
	SetTexture(slot string, tex *common.ImportedTexture)

	// Textures retrieves a copy of the slot bindings.
	//
	// Returns:
	//   - map[string]*common.ImportedTexture: textures keyed by slot
	Textures() map[string]*common.ImportedTexture
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Unset factors take the standard material defaults: white, fully rough, dielectric, opaque.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		typ:       DefaultType,
		color:     [4]float32{1, 1, 1, 1},
		emissive:  [4]float32{0, 0, 0, 1},
		metallic:  0.0,
		roughness: 1.0,
		opacity:   1.0,
		textures:  make(map[string]*common.ImportedTexture),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) UUID() string {
	return m.uuid
}

func (m *material) Type() string {
	return m.typ
}

func (m *material) Name() string {
	return m.name
}

func (m *material) AssetPath() string {
	return m.assetPath
}

func (m *material) UserData() document.UserData {
	return m.userData
}

func (m *material) Color() [4]float32 {
	return m.color
}

func (m *material) Emissive() [4]float32 {
	return m.emissive
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) Texture(slot string) *common.ImportedTexture {
	return m.textures[slot]
}

func (m *material) SetTexture(slot string, tex *common.ImportedTexture) {
	if tex == nil {
		delete(m.textures, slot)
		return
	}
	m.textures[slot] = tex
}

func (m *material) Textures() map[string]*common.ImportedTexture {
	result := make(map[string]*common.ImportedTexture, len(m.textures))
	for k, v := range m.textures {
		result[k] = v
	}
	return result
}
