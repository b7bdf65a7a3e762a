package scene

import (
	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/cogentcore/webgpu/wgpu"
)

// Texture wrap and filter constants as written in scene documents.
const (
	wrapRepeat         = 1000
	wrapClampToEdge    = 1001
	wrapMirroredRepeat = 1002

	filterNearest              = 1003
	filterNearestMipmapNearest = 1004
	filterNearestMipmapLinear  = 1005
	filterLinear               = 1006
	filterLinearMipmapNearest  = 1007
	filterLinearMipmapLinear   = 1008
)

// samplerFromDescriptor converts a texture descriptor's wrap, filter and anisotropy
// settings into engine-ready SamplerStagingData. Unset fields keep the document
// defaults: clamp-to-edge wrapping, linear magnification, trilinear minification.
//
// Parameters:
//   - t: the texture descriptor
//
// Returns:
//   - *common.SamplerStagingData: the converted sampler staging data
func samplerFromDescriptor(t *document.TextureDescriptor) *common.SamplerStagingData {
	result := common.DefaultSamplerData()

	if len(t.Wrap) > 0 {
		result.AddressModeU = wrapToAddressMode(t.Wrap[0])
	}
	if len(t.Wrap) > 1 {
		result.AddressModeV = wrapToAddressMode(t.Wrap[1])
	}

	switch t.MagFilter {
	case filterNearest:
		result.MagFilter = wgpu.FilterModeNearest
	case filterLinear:
		result.MagFilter = wgpu.FilterModeLinear
	}

	switch t.MinFilter {
	case filterNearest, filterNearestMipmapNearest, filterNearestMipmapLinear:
		result.MinFilter = wgpu.FilterModeNearest
	case filterLinear, filterLinearMipmapNearest, filterLinearMipmapLinear:
		result.MinFilter = wgpu.FilterModeLinear
	}
	// The mipmap filter follows the minification variant.
	switch t.MinFilter {
	case filterNearestMipmapNearest, filterLinearMipmapNearest, filterNearest, filterLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeNearest
	case filterNearestMipmapLinear, filterLinearMipmapLinear:
		result.MipmapFilter = wgpu.MipmapFilterModeLinear
	}

	if t.Anisotropy > 1 {
		result.MaxAnisotropy = uint16(min(t.Anisotropy, 16))
	}
	return &result
}

// wrapToAddressMode converts a document wrap constant to a wgpu AddressMode.
//
// Parameters:
//   - wrap: the wrap constant
//
// Returns:
//   - wgpu.AddressMode: the corresponding wgpu address mode
func wrapToAddressMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case wrapRepeat:
		return wgpu.AddressModeRepeat
	case wrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	case wrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	default:
		return wgpu.AddressModeClampToEdge
	}
}
