// Package bridge provides native bridge implementations: direct filesystem access for
// hosts that embed the asset layer, and a websocket transport for hosts that expose the
// filesystem to a separate process.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/hack-pad/hackpadfs"
)

// Common errors returned by bridges.
var (
	ErrPathEscapesRoot = errors.New("asset path escapes the project root")
	ErrBridgeClosed    = errors.New("bridge closed")
)

// FSBridge reads asset bytes from a hackpadfs filesystem. Project roots are interpreted
// relative to the filesystem's root, so an os-backed filesystem maps "/home/me/proj" to
// "home/me/proj".
type FSBridge struct {
	fs   hackpadfs.FS
	root string
}

var _ backend.NativeBridge = &FSBridge{}

// FSBridgeOption is a functional option for configuring an FSBridge via NewFSBridge.
type FSBridgeOption func(*FSBridge)

// WithRoot confines the bridge to one directory. Absolute project roots must lie below
// it and relative project roots are resolved inside it.
//
// Parameters:
//   - dir: the directory, in filesystem form without a leading slash
//
// Returns:
//   - FSBridgeOption: a function that applies the root option to a bridge
func WithRoot(dir string) FSBridgeOption {
	return func(b *FSBridge) {
		b.root = cleanRoot(dir)
	}
}

// NewFSBridge creates a bridge over the given filesystem.
//
// Parameters:
//   - fsys: the filesystem holding project directories
//   - options: a variadic list of FSBridgeOption functions
//
// Returns:
//   - *FSBridge: the bridge
func NewFSBridge(fsys hackpadfs.FS, options ...FSBridgeOption) *FSBridge {
	b := &FSBridge{fs: fsys}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *FSBridge) ReadAssetBytes(ctx context.Context, projectRoot, relativePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := b.scope(projectRoot)
	if err != nil {
		return nil, err
	}
	name, err := AssetFile(root, relativePath)
	if err != nil {
		return nil, err
	}
	data, err := hackpadfs.ReadFile(b.fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// AssetFile maps a project root and relative asset path to a filesystem path of the form
// "<root>/assets/<relative>", without a leading slash.
//
// Parameters:
//   - projectRoot: the project root
//   - relativePath: the asset path relative to the assets directory
//
// Returns:
//   - string: the filesystem path
//   - error: ErrPathEscapesRoot if the relative path climbs out of the assets directory
func AssetFile(projectRoot, relativePath string) (string, error) {
	rel := assetpath.Relative(toSlash(relativePath))
	cleaned := path.Clean("/" + rel)
	if rel == "" || cleaned != "/"+strings.TrimSuffix(rel, "/") {
		return "", fmt.Errorf("%w: %q", ErrPathEscapesRoot, relativePath)
	}
	return strings.TrimPrefix(path.Join(cleanRoot(projectRoot), "assets", cleaned), "/"), nil
}

// scope maps a project root into the bridge's root directory.
func (b *FSBridge) scope(projectRoot string) (string, error) {
	root := cleanRoot(projectRoot)
	if b.root == "" {
		return root, nil
	}
	if !isAbs(projectRoot) {
		return path.Join(b.root, root), nil
	}
	if root == b.root || strings.HasPrefix(root, b.root+"/") {
		return root, nil
	}
	return "", fmt.Errorf("%w: project %q is outside %q", ErrPathEscapesRoot, projectRoot, b.root)
}

// cleanRoot normalizes either separator style and drops leading slashes and ".." segments.
func cleanRoot(root string) string {
	return strings.TrimPrefix(path.Clean("/"+toSlash(root)), "/")
}

// toSlash converts backslashes regardless of the host OS, since project roots may come
// from a Windows host over the bridge.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func isAbs(p string) bool {
	p = toSlash(p)
	return strings.HasPrefix(p, "/") || (len(p) >= 2 && p[1] == ':')
}
