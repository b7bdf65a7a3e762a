package document

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-assets/common"
	"github.com/Carmen-Shannon/oxy-assets/engine/assetpath"
)

// RepairOptions configures Repair.
type RepairOptions struct {
	// RewriteEphemeral allows blob references to be replaced by the texture's asset-path
	// hint. Set it when the active backend serves assets over HTTP.
	RewriteEphemeral bool

	// Logger receives skip diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// RepairReport summarizes what Repair changed.
type RepairReport struct {
	// Added lists the uuids of image descriptors synthesized by the pass.
	Added []string
	// Updated lists the uuids of existing image descriptors whose url was rewritten.
	Updated []string
	// Skipped lists the uuids of textures with no derivable path, left untouched.
	Skipped []string
	// Unresolved lists the uuids of textures whose image still points at an ephemeral blob reference.
	Unresolved []string
}

// Repair normalizes the texture and image tables of doc in place so that every texture
// with a derivable path resolves to an image descriptor holding a canonical url.
//
// For each texture the image uuid and path are derived from, in order: a string image
// that is neither a known image uuid nor UUID-shaped (a direct path, with a fresh uuid),
// an inline image object, or an image uuid cross-referenced against the images table.
// The texture's userData.assetPath, when present, takes precedence over the derived path.
// The canonical path then updates the matching image descriptor or is prepended as a new
// one, and texture.image collapses to a plain uuid reference.
//
// Missing textures or images tables are synthesized as empty.
//
// Parameters:
//   - doc: the document to repair
//   - opts: repair options
//
// Returns:
//   - RepairReport: the changes made
func Repair(doc *Document, opts RepairOptions) RepairReport {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "repair")

	var report RepairReport
	if doc == nil {
		return report
	}
	if doc.Textures == nil {
		doc.Textures = []*TextureDescriptor{}
	}
	if doc.Images == nil {
		doc.Images = []*ImageDescriptor{}
	}

	index := make(map[string]*ImageDescriptor, len(doc.Images))
	for _, img := range doc.Images {
		if img != nil && img.UUID != "" {
			index[img.UUID] = img
		}
	}

	var added []*ImageDescriptor
	for _, tex := range doc.Textures {
		if tex == nil {
			continue
		}
		hint := tex.UserData.AssetPath()

		imageUUID, imagePath := deriveImage(tex, index)
		finalPath := common.Coalesce(hint, imagePath)
		if finalPath == "" {
			logger.Warn("no derivable path for texture, skipping", "texture", tex.UUID)
			report.Skipped = append(report.Skipped, tex.UUID)
			continue
		}

		if imageUUID == "" {
			imageUUID = common.NewUUID()
		}

		canonical := assetpath.CanonicalizeHint(finalPath, hint, opts.RewriteEphemeral)
		if img, ok := index[imageUUID]; ok {
			if img.URL != canonical {
				img.URL = canonical
				report.Updated = append(report.Updated, imageUUID)
			}
		} else {
			img := &ImageDescriptor{UUID: imageUUID, URL: canonical}
			if tex.Image.Kind == ImageRefInline {
				img.Extra = tex.Image.Inline.Extra
			}
			index[imageUUID] = img
			added = append(added, img)
			report.Added = append(report.Added, imageUUID)
		}
		tex.Image = UUIDRef(imageUUID)

		if assetpath.Classify(canonical) == assetpath.KindEphemeral {
			logger.Warn("texture image is an ephemeral reference with no asset path", "texture", tex.UUID, "url", canonical)
			report.Unresolved = append(report.Unresolved, tex.UUID)
		}
	}

	if len(added) > 0 {
		doc.Images = append(added, doc.Images...)
	}
	return report
}

// deriveImage returns the image uuid a texture resolves to and the path found for it, if any.
func deriveImage(tex *TextureDescriptor, index map[string]*ImageDescriptor) (string, string) {
	switch tex.Image.Kind {
	case ImageRefString:
		ref := tex.Image.Value
		if img, ok := index[ref]; ok {
			return ref, img.URL
		}
		if common.IsUUID(ref) {
			return ref, ""
		}
		return common.NewUUID(), ref
	case ImageRefInline:
		inline := tex.Image.Inline
		id := inline.UUID
		if id == "" {
			id = common.NewUUID()
		}
		if img, ok := index[id]; ok {
			return id, common.Coalesce(inline.URL, img.URL)
		}
		return id, inline.URL
	}
	return "", ""
}
