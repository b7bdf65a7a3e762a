package assetapi

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// ServerBuilderOption is a functional option for configuring the handler via NewServer.
type ServerBuilderOption func(*server)

// WithProjectsDir sets the directory holding project directories, relative to the
// filesystem root. The default is the filesystem root itself.
//
// Parameters:
//   - dir: the projects directory
//
// Returns:
//   - ServerBuilderOption: a function that applies the projects directory option
func WithProjectsDir(dir string) ServerBuilderOption {
	return func(s *server) {
		s.projectsDir = strings.Trim(filepath.ToSlash(dir), "/")
	}
}

// WithLogger sets the handler logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ServerBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) ServerBuilderOption {
	return func(s *server) {
		s.logger = logger
	}
}
