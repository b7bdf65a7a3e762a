package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/document"
	"github.com/Carmen-Shannon/oxy-assets/engine/material"
	"github.com/hack-pad/hackpadfs"
)

// materialExts lists the file extensions of material assets.
var materialExts = map[string]struct{}{
	".material": {},
	".mat":      {},
	".nodemat":  {},
}

// IsMaterialFile reports whether a file name carries a material asset extension.
func IsMaterialFile(name string) bool {
	_, ok := materialExts[strings.ToLower(path.Ext(name))]
	return ok
}

// LoadMaterials registers every material asset under the project's assets directory.
// Files that do not parse as a material, or whose type is not a material type, register a
// default standard material named after the file so references still resolve.
//
// Parameters:
//   - ctx: cancels the walk between files
//   - fsys: the filesystem holding the project
//   - projectRoot: the project root, relative to the filesystem root
//   - r: the registry to populate
//   - logger: the logger for skipped files, or nil for slog.Default()
//
// Returns:
//   - int: the number of materials registered
//   - error: error if the assets directory cannot be read or ctx is done
func LoadMaterials(ctx context.Context, fsys hackpadfs.FS, projectRoot string, r Registry, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "registry")

	root := path.Join(strings.Trim(strings.ReplaceAll(projectRoot, `\`, "/"), "/"), "assets")
	count := 0
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := hackpadfs.ReadDir(fsys, dir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := path.Join(dir, entry.Name())
			if entry.IsDir() {
				if err := walk(name); err != nil {
					return err
				}
				continue
			}
			if !IsMaterialFile(name) {
				continue
			}
			rel := strings.TrimPrefix(name, root+"/")
			data, err := hackpadfs.ReadFile(fsys, name)
			if err != nil {
				logger.Warn("failed to read material asset", "path", rel, "error", err)
				continue
			}
			r.Register(rel, ParseMaterial(rel, data, logger))
			count++
		}
		return nil
	}
	if err := walk(root); err != nil {
		return count, err
	}
	logger.Debug("loaded material assets", "root", root, "count", count)
	return count, nil
}

// ParseMaterial builds the canonical instance for a material asset file. The returned
// material's AssetPath is the file's asset path.
//
// Parameters:
//   - rel: the asset path relative to the assets directory
//   - data: the file contents
//   - logger: the logger for parse failures
//
// Returns:
//   - material.Material: the parsed material, or a default material named after the file
func ParseMaterial(rel string, data []byte, logger *slog.Logger) material.Material {
	var desc document.MaterialDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		logger.Warn("failed to parse material asset, using default", "path", rel, "error", err)
		return material.Default(baseName(rel), material.WithAssetPath(rel))
	}
	if !strings.Contains(desc.Type, "Material") {
		logger.Warn("material asset has no material type, using default", "path", rel, "type", desc.Type)
		return material.Default(baseName(rel), material.WithAssetPath(rel))
	}
	if desc.Name == "" {
		desc.Name = baseName(rel)
	}
	return material.FromDescriptor(&desc, nil, material.WithAssetPath(rel))
}

func baseName(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}
