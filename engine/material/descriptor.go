package material

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
)

// TextureLookup returns the texture built for a texture uuid, or nil.
type TextureLookup func(uuid string) *common.ImportedTexture

// FromDescriptor builds a material from a document descriptor. Colors are read as
// packed 0xRRGGBB integers; texture slots hold texture uuids resolved through lookup.
// Fields the descriptor omits keep their defaults.
//
// Parameters:
//   - desc: the material descriptor
//   - lookup: resolves texture uuids, may be nil
//   - options: applied after the descriptor fields
//
// Returns:
//   - Material: the constructed material
func FromDescriptor(desc *document.MaterialDescriptor, lookup TextureLookup, options ...MaterialBuilderOption) Material {
	opts := []MaterialBuilderOption{
		WithUUID(desc.UUID),
		WithType(desc.Type),
		WithName(desc.Name),
		WithAssetPath(desc.UserData.AssetPath()),
		WithUserData(desc.UserData),
	}

	var hex uint32
	if desc.Field("color", &hex) {
		opts = append(opts, WithColor(ColorFromHex(hex)))
	}
	if desc.Field("emissive", &hex) {
		opts = append(opts, WithEmissive(ColorFromHex(hex)))
	}
	var f float32
	if desc.Field("roughness", &f) {
		opts = append(opts, WithRoughness(f))
	}
	if desc.Field("metalness", &f) {
		opts = append(opts, WithMetallic(f))
	}
	if desc.Field("opacity", &f) {
		opts = append(opts, WithOpacity(f))
	}

	if lookup != nil {
		for _, slot := range TextureSlots {
			if ref := desc.TextureRef(slot); ref != "" {
				opts = append(opts, WithTexture(slot, lookup(ref)))
			}
		}
	}
	return NewMaterial(append(opts, options...)...)
}

// Default builds the stand-in used when a material asset cannot be parsed: a standard
// material with default factors, named after the asset.
//
// Parameters:
//   - name: the material name
//   - options: applied after the name
//
// Returns:
//   - Material: the default material
func Default(name string, options ...MaterialBuilderOption) Material {
	return NewMaterial(append([]MaterialBuilderOption{WithName(name)}, options...)...)
}

// ColorFromHex unpacks a 0xRRGGBB color into opaque RGBA.
//
// Parameters:
//   - hex: the packed color
//
// Returns:
//   - [4]float32: the color as RGBA values
func ColorFromHex(hex uint32) [4]float32 {
	return [4]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
		1,
	}
}
