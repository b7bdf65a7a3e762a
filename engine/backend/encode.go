package backend

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
)

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes s the way asset API clients encode path components:
// every byte except ASCII letters, digits and - _ . ! ~ * ' ( ) is escaped, including "/".
//
// Parameters:
//   - s: the component to encode
//
// Returns:
//   - string: the encoded component
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// ProjectName returns the last path segment of a project root, splitting on both
// forward and back slashes.
//
// Parameters:
//   - projectRoot: the project root
//
// Returns:
//   - string: the project name
func ProjectName(projectRoot string) string {
	root := strings.TrimRight(projectRoot, `/\`)
	if i := strings.LastIndexAny(root, `/\`); i >= 0 {
		return root[i+1:]
	}
	return root
}

// APIPath builds the HTTP asset API path for an asset. The project name and the relative
// path are percent-encoded independently, so slashes inside the relative path are escaped.
//
// Parameters:
//   - projectName: the project name
//   - relativePath: the asset path relative to the assets directory
//
// Returns:
//   - string: the API path, "/api/projects/<project>/assets/<path>"
func APIPath(projectName, relativePath string) string {
	return assetpath.APIPrefix + EncodeURIComponent(projectName) + "/assets/" + EncodeURIComponent(relativePath)
}

// SceneAPIPath builds the HTTP API path of a project's scene document.
//
// Parameters:
//   - projectName: the project name
//
// Returns:
//   - string: the API path, "/api/projects/<project>/scene.json"
func SceneAPIPath(projectName string) string {
	return assetpath.APIPrefix + EncodeURIComponent(projectName) + "/scene.json"
}
