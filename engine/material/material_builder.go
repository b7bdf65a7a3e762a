package material

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithUUID is an option builder that sets the document uuid of the material.
//
// Parameters:
//   - uuid: the material uuid
//
// Returns:
//   - MaterialBuilderOption: a function that applies the uuid option to a material
func WithUUID(uuid string) MaterialBuilderOption {
	return func(m *material) {
		m.uuid = uuid
	}
}

// WithType is an option builder that sets the material type. An empty type keeps DefaultType.
//
// Parameters:
//   - typ: the type name
//
// Returns:
//   - MaterialBuilderOption: a function that applies the type option to a material
func WithType(typ string) MaterialBuilderOption {
	return func(m *material) {
		if typ != "" {
			m.typ = typ
		}
	}
}

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAssetPath is an option builder that records the asset file the material came from.
//
// Parameters:
//   - path: the asset path
//
// Returns:
//   - MaterialBuilderOption: a function that applies the asset path option to a material
func WithAssetPath(path string) MaterialBuilderOption {
	return func(m *material) {
		m.assetPath = path
	}
}

// WithUserData is an option builder that sets the annotation map of the material.
//
// Parameters:
//   - userData: the annotations
//
// Returns:
//   - MaterialBuilderOption: a function that applies the user data option to a material
func WithUserData(userData document.UserData) MaterialBuilderOption {
	return func(m *material) {
		m.userData = userData
	}
}

// WithColor is an option builder that sets the albedo/diffuse RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithEmissive is an option builder that sets the emissive RGBA color of the material.
//
// Parameters:
//   - color: the emissive color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the emissive option to a material
func WithEmissive(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.emissive = color
	}
}

// WithMetallic is an option builder that sets the metalness factor of the material.
//
// Parameters:
//   - metallic: the metalness factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metallic option to a material
func WithMetallic(metallic float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = roughness
	}
}

// WithOpacity is an option builder that sets the opacity of the material.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = opacity
	}
}

// WithTexture is an option builder that binds a texture to a slot.
//
// Parameters:
//   - slot: one of TextureSlots
//   - tex: the imported texture data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(slot string, tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		if tex != nil {
			m.textures[slot] = tex
		}
	}
}
