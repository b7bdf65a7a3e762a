// Package backend decides which storage backend hosts the project's binary assets and
// rewrites canonical asset paths into something that backend can serve.
package backend

import (
	"context"
	"strings"
)

// Mode identifies the active asset backend.
type Mode int

const (
	// ModePassThrough leaves paths unmodified; no project root is known.
	ModePassThrough Mode = iota
	// ModeNativeIPC reads raw bytes through a host-provided native bridge.
	ModeNativeIPC
	// ModeHTTPAPI rewrites paths onto the HTTP asset API.
	ModeHTTPAPI
)

func (m Mode) String() string {
	switch m {
	case ModeNativeIPC:
		return "native-ipc"
	case ModeHTTPAPI:
		return "http-api"
	default:
		return "pass-through"
	}
}

// NativeBridge is the host-provided bridge that reads asset bytes from a project on disk.
type NativeBridge interface {
	// ReadAssetBytes reads the raw bytes of an asset.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - projectRoot: the project root the asset belongs to
	//   - relativePath: the asset path relative to the project's assets directory
	//
	// Returns:
	//   - []byte: the asset bytes
	//   - error: error if the asset cannot be read
	ReadAssetBytes(ctx context.Context, projectRoot, relativePath string) ([]byte, error)
}

// Probe reports the capabilities of the environment the asset layer runs in.
type Probe interface {
	// Bridge returns the native bridge, or nil if the host provides none.
	Bridge() NativeBridge

	// PageScheme returns the transport scheme the document was served over
	// ("http", "https", "file", ...), or "" when it was not served at all.
	PageScheme() string
}

// StaticProbe is a Probe with fixed answers.
type StaticProbe struct {
	NativeBridge NativeBridge
	Scheme       string
}

var _ Probe = StaticProbe{}

func (p StaticProbe) Bridge() NativeBridge {
	return p.NativeBridge
}

func (p StaticProbe) PageScheme() string {
	return p.Scheme
}

// Detect decides the backend mode from a probe and the project root.
//
// Without a project root nothing can be resolved and the mode is ModePassThrough.
// Otherwise a native bridge wins unless the document is served over http(s); the HTTP
// API is used when served over http(s) or when no bridge is present.
//
// Parameters:
//   - probe: the environment probe; nil behaves as an empty probe
//   - projectRoot: the project root, or "" if none
//
// Returns:
//   - Mode: the active backend mode
func Detect(probe Probe, projectRoot string) Mode {
	if projectRoot == "" {
		return ModePassThrough
	}
	var bridge NativeBridge
	var scheme string
	if probe != nil {
		bridge = probe.Bridge()
		scheme = strings.ToLower(probe.PageScheme())
	}
	servedOverHTTP := scheme == "http" || scheme == "https"
	if bridge != nil && !servedOverHTTP {
		return ModeNativeIPC
	}
	return ModeHTTPAPI
}
