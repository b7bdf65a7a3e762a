// Package assetpath maps the path and URL shapes found in scene documents onto the
// canonical "assets/<relative-path>" form used as the cross-backend lookup key.
//
// Every function here is pure and deterministic. Canonicalize is idempotent:
// Canonicalize(Canonicalize(p)) == Canonicalize(p) for every p.
package assetpath

import (
	"path"
	"strings"
)

const (
	// Prefix is the leading segment every canonical asset path carries exactly once.
	Prefix = "assets/"

	// APIPrefix is the path prefix of URLs already rewritten onto the HTTP asset API.
	APIPrefix = "/api/projects/"

	// EphemeralScheme prefixes process-local handles created from fetched bytes.
	EphemeralScheme = "blob:"

	// EmbeddedScheme prefixes inline data URIs.
	EmbeddedScheme = "data:"
)

// Kind classifies the shape of a raw path or URL.
type Kind int

const (
	// KindNone is the empty input.
	KindNone Kind = iota
	// KindEmbedded is an inline data URI.
	KindEmbedded
	// KindEphemeral is a temporary blob reference that must never be persisted.
	KindEphemeral
	// KindRemote is an opaque http(s) URL.
	KindRemote
	// KindAPI is a URL already pointing at the HTTP asset API.
	KindAPI
	// KindCanonical is a path already in canonical form.
	KindCanonical
	// KindRelative is any other path: bare relative, absolute, or redundantly prefixed.
	KindRelative
)

var kindNames = map[Kind]string{
	KindNone:      "none",
	KindEmbedded:  "embedded",
	KindEphemeral: "ephemeral",
	KindRemote:    "remote",
	KindAPI:       "api",
	KindCanonical: "canonical",
	KindRelative:  "relative",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Opaque reports whether paths of this kind pass through canonicalization unchanged.
func (k Kind) Opaque() bool {
	switch k {
	case KindEmbedded, KindEphemeral, KindRemote, KindAPI:
		return true
	}
	return false
}

// Classify determines the Kind of a raw path or URL.
//
// Parameters:
//   - raw: the path or URL as found in a document
//
// Returns:
//   - Kind: the classification
func Classify(raw string) Kind {
	switch {
	case raw == "":
		return KindNone
	case strings.HasPrefix(raw, EmbeddedScheme):
		return KindEmbedded
	case strings.HasPrefix(raw, EphemeralScheme):
		return KindEphemeral
	case isRemote(raw):
		return KindRemote
	case strings.HasPrefix(raw, APIPrefix):
		return KindAPI
	case IsCanonical(raw):
		return KindCanonical
	default:
		return KindRelative
	}
}

// IsCanonical reports whether p is already in canonical form, i.e. Canonicalize(p) == p.
//
// Parameters:
//   - p: the candidate path
//
// Returns:
//   - bool: true if p is canonical
func IsCanonical(p string) bool {
	if !strings.HasPrefix(p, Prefix) || strings.Contains(p, "//") {
		return false
	}
	return !strings.HasPrefix(p[len(Prefix):], Prefix)
}

// Canonicalize maps any path shape to the canonical "assets/<relative-path>" form.
// The empty string maps to the empty string. Data URIs, blob references, remote
// http(s) URLs and asset API URLs are returned unchanged.
//
// Otherwise repeated slashes are collapsed, one leading slash is stripped, any number
// of leading "assets/" segments are stripped, and exactly one "assets/" is prefixed.
//
// Parameters:
//   - raw: the path to canonicalize
//
// Returns:
//   - string: the canonical path, or raw itself when it is opaque
func Canonicalize(raw string) string {
	if k := Classify(raw); k == KindNone || k.Opaque() {
		return raw
	}
	return Prefix + Relative(raw)
}

// CanonicalizeHint canonicalizes raw, substituting the asset-path hint for an ephemeral
// blob reference when rewriteEphemeral is set. Callers set rewriteEphemeral when the
// active backend serves assets over HTTP, where a blob handle from a previous session
// cannot be dereferenced and must never be written back into the document.
//
// Parameters:
//   - raw: the path to canonicalize
//   - hint: the userData.assetPath annotation, or empty
//   - rewriteEphemeral: whether blob references may be replaced by the hint
//
// Returns:
//   - string: the canonical path
func CanonicalizeHint(raw, hint string, rewriteEphemeral bool) string {
	if rewriteEphemeral && hint != "" && Classify(raw) == KindEphemeral {
		return Canonicalize(hint)
	}
	return Canonicalize(raw)
}

// Relative returns the project-relative part of a path: slashes collapsed, one leading
// slash removed and every leading "assets/" segment stripped.
//
// Parameters:
//   - p: a canonical or raw path
//
// Returns:
//   - string: the relative asset path
func Relative(p string) string {
	p = collapseSlashes(p)
	p = strings.TrimPrefix(p, "/")
	for strings.HasPrefix(p, Prefix) {
		p = p[len(Prefix):]
	}
	return p
}

// Status tags the outcome of ExtractRelative.
type Status int

const (
	// StatusOK means a relative asset path was extracted.
	StatusOK Status = iota
	// StatusMalformed means the input looked like an asset reference but yields no usable path.
	StatusMalformed
	// StatusUnsupported means the input is not an asset reference at all.
	StatusUnsupported
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMalformed:
		return "malformed"
	default:
		return "unsupported"
	}
}

// Extraction is the tagged result of ExtractRelative. Relative is set only when Status is StatusOK.
type Extraction struct {
	Status   Status
	Relative string
}

// OK reports whether the extraction produced a relative path.
func (e Extraction) OK() bool {
	return e.Status == StatusOK
}

// imageExts lists the extensions a bare relative name must carry to be treated as an image asset.
var imageExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".hdr": {}, ".exr": {}, ".tga": {}, ".ktx2": {},
}

// ExtractRelative pulls a relative asset path out of a loader URL. The rules are tried
// in a fixed order: opaque URLs are unsupported; an "assets/" prefix; an embedded
// "/assets/" segment; a bare relative name with an image extension. Anything else is
// unsupported. An empty path, or one that climbs out of the asset root, is malformed.
//
// Parameters:
//   - url: the URL handed to a loader
//
// Returns:
//   - Extraction: the tagged result
func ExtractRelative(url string) Extraction {
	k := Classify(url)
	if k.Opaque() {
		return Extraction{Status: StatusUnsupported}
	}
	if k == KindNone {
		return Extraction{Status: StatusMalformed}
	}

	var rel string
	switch {
	case strings.HasPrefix(url, Prefix):
		rel = url
	case strings.Contains(url, "/"+Prefix):
		rel = url[strings.Index(url, "/"+Prefix)+1:]
	case !strings.HasPrefix(url, "/") && !strings.Contains(url, "://"):
		if _, ok := imageExts[strings.ToLower(path.Ext(url))]; !ok {
			return Extraction{Status: StatusUnsupported}
		}
		rel = url
	default:
		return Extraction{Status: StatusUnsupported}
	}

	rel = Relative(rel)
	if rel == "" || escapesRoot(rel) {
		return Extraction{Status: StatusMalformed}
	}
	return Extraction{Status: StatusOK, Relative: rel}
}

func isRemote(raw string) bool {
	return strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")
}

func collapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func escapesRoot(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
