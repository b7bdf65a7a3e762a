package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Common errors returned by Parse.
var (
	ErrMalformed   = errors.New("malformed scene document")
	ErrUnsupported = errors.New("unsupported scene document version")
)

// supportedVersions is the range of metadata.version values the asset layer understands.
var supportedVersions = mustConstraint(">= 4.0, < 5.0")

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(fmt.Sprintf("document: invalid version constraint %q: %v", c, err))
	}
	return cs
}

// ParseStatus tags the outcome of Parse.
type ParseStatus int

const (
	// ParseOK means a document was decoded.
	ParseOK ParseStatus = iota
	// ParseMalformed means the input is not a scene document in any accepted shape.
	ParseMalformed
	// ParseUnsupported means the input is a scene document of a version outside the supported range.
	ParseUnsupported
)

func (s ParseStatus) String() string {
	switch s {
	case ParseOK:
		return "ok"
	case ParseMalformed:
		return "malformed"
	default:
		return "unsupported"
	}
}

// ParseResult is the tagged result of Parse. Document is set only for ParseOK.
type ParseResult struct {
	Status   ParseStatus
	Document *Document

	// Wrapped is true when the document was unwrapped from an editor project file's "scene" member.
	Wrapped bool

	// Err describes why the input was rejected; it wraps ErrMalformed or ErrUnsupported.
	Err error
}

// Parse decodes raw bytes into a Document. Shapes are tried in a fixed order: a bare
// object document, then an editor project file whose "scene" member holds the document.
// Anything else is malformed. A metadata.version outside 4.x is unsupported.
//
// Parameters:
//   - data: the raw JSON bytes
//
// Returns:
//   - ParseResult: the tagged result
func Parse(data []byte) ParseResult {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return malformed(fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	wrapped := false
	body := data
	if !isDocument(top) {
		scene, ok := top["scene"]
		if !ok {
			return malformed(fmt.Errorf("%w: no object graph or scene member", ErrMalformed))
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(scene, &inner); err != nil || !isDocument(inner) {
			return malformed(fmt.Errorf("%w: scene member is not a document", ErrMalformed))
		}
		body, wrapped = scene, true
	}

	doc := &Document{}
	if err := json.Unmarshal(body, doc); err != nil {
		return malformed(fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	if doc.Metadata != nil && doc.Metadata.Version != "" {
		v, err := semver.NewVersion(doc.Metadata.Version.String())
		if err != nil {
			return malformed(fmt.Errorf("%w: metadata.version %q: %v", ErrMalformed, doc.Metadata.Version, err))
		}
		if !supportedVersions.Check(v) {
			return ParseResult{
				Status:  ParseUnsupported,
				Wrapped: wrapped,
				Err:     fmt.Errorf("%w: %s", ErrUnsupported, v.Original()),
			}
		}
	}

	return ParseResult{Status: ParseOK, Document: doc, Wrapped: wrapped}
}

func isDocument(top map[string]json.RawMessage) bool {
	if _, ok := top["object"]; ok {
		return true
	}
	var meta Metadata
	if raw, ok := top["metadata"]; ok && json.Unmarshal(raw, &meta) == nil {
		return meta.Type == "Object"
	}
	return false
}

func malformed(err error) ParseResult {
	return ParseResult{Status: ParseMalformed, Err: err}
}
