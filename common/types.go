// package common contains common types that are used throughout the asset layer. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a decoded texture.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the sampler configuration derived from a texture descriptor's wrap and filter settings.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range in each dimension (U, V, W).
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// DefaultSamplerData returns the sampling a texture descriptor gets for every setting it omits:
// clamp-to-edge wrapping, linear magnification and trilinear minification.
//
// Returns:
//   - SamplerStagingData: the default sampler configuration
func DefaultSamplerData() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		MaxAnisotropy: 1,
	}
}

// ImportedTexture represents a texture resolved from a scene document.
// For fetched images, the Data field contains raw image bytes.
// For embedded images, URL holds the data URI the bytes were decoded from.
type ImportedTexture struct {
	// UUID is the texture descriptor's identifier in the source document.
	UUID string

	// Name is the texture's display name.
	Name string

	// ImageUUID is the identifier of the image descriptor the texture resolved to.
	ImageUUID string

	// URL is the image URL as written in the document (canonical path, data URI or ephemeral reference).
	URL string

	// AssetPath is the provenance annotation copied from the descriptor's userData.assetPath.
	AssetPath string

	// Data contains raw image bytes (PNG/JPEG/GIF/WebP/BMP).
	Data []byte

	// MimeType indicates the image format (e.g., "image/png", "image/jpeg").
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int

	// Placeholder is true when the image could not be fetched and Data holds the missing-texture pixel.
	Placeholder bool

	// SamplerData holds sampler parameters extracted from the texture descriptor.
	SamplerData *SamplerStagingData
}

// placeholderPNG is a 1x1 opaque magenta PNG.
var placeholderPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde, 0x00, 0x00, 0x00,
	0x0c, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xf0, 0x1f,
	0x00, 0x04, 0x00, 0x01, 0xff, 0x22, 0x0a, 0x3a, 0xf0, 0x00, 0x00, 0x00,
	0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// PlaceholderTexture builds the missing-texture stand-in used when an image cannot be fetched.
//
// Parameters:
//   - uuid: the texture descriptor identifier
//   - url: the URL that failed to load
//
// Returns:
//   - *ImportedTexture: a 1x1 magenta texture flagged as a placeholder
func PlaceholderTexture(uuid, url string) *ImportedTexture {
	return &ImportedTexture{
		UUID:        uuid,
		URL:         url,
		Data:        placeholderPNG,
		MimeType:    "image/png",
		Placeholder: true,
	}
}

// Decode decodes the texture to raw RGBA pixel data.
// Supports PNG, JPEG, GIF, WebP and BMP formats.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - TextureStagingData: raw RGBA pixel data with its dimensions
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, fmt.Errorf("texture is nil")
	}
	if len(t.Data) == 0 {
		return TextureStagingData{}, fmt.Errorf("texture %s has no data", t.UUID)
	}

	img, _, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode image for texture %s: %w", t.UUID, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}
