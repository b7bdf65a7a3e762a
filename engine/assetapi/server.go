// Package assetapi serves and consumes the HTTP asset API used when scenes are resolved
// in a browser-hosted editor: project assets under /api/projects/{project}/assets/ and the
// project scene under /api/projects/{project}/scene.json.
package assetapi

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/Carmen-Shannon/oxy-assets/engine/bridge"
	"github.com/h2non/filetype"
	"github.com/hack-pad/hackpadfs"
)

// SceneFile is the scene document file name inside a project directory.
const SceneFile = "scene.json"

// server is the implementation of the asset API handler.
type server struct {
	fs          hackpadfs.FS
	projectsDir string
	logger      *slog.Logger
	mux         *http.ServeMux
}

var _ http.Handler = &server{}

// NewServer creates the asset API handler. Projects are directories named after the
// project under the projects directory of the given filesystem.
//
// Parameters:
//   - fsys: the filesystem holding project directories
//   - options: a variadic list of ServerBuilderOption functions
//
// Returns:
//   - http.Handler: the API handler
func NewServer(fsys hackpadfs.FS, options ...ServerBuilderOption) http.Handler {
	s := &server{
		fs:     fsys,
		logger: slog.Default(),
		mux:    http.NewServeMux(),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("component", "assetapi")

	s.mux.HandleFunc("GET /api/projects/{project}/assets/{path...}", s.handleAsset)
	s.mux.HandleFunc("GET /api/projects/{project}/scene.json", s.handleScene)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *server) projectRoot(project string) (string, bool) {
	if project == "" || project == "." || project == ".." || path.Base(project) != project {
		return "", false
	}
	return path.Join(s.projectsDir, project), true
}

func (s *server) handleAsset(w http.ResponseWriter, r *http.Request) {
	root, ok := s.projectRoot(r.PathValue("project"))
	if !ok {
		http.Error(w, "invalid project", http.StatusBadRequest)
		return
	}
	rel := r.PathValue("path")
	name, err := bridge.AssetFile(root, rel)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.serveFile(w, name)
}

func (s *server) handleScene(w http.ResponseWriter, r *http.Request) {
	root, ok := s.projectRoot(r.PathValue("project"))
	if !ok {
		http.Error(w, "invalid project", http.StatusBadRequest)
		return
	}
	s.serveFile(w, fsPath(path.Join(root, SceneFile)))
}

func (s *server) serveFile(w http.ResponseWriter, name string) {
	data, err := hackpadfs.ReadFile(s.fs, name)
	if err != nil {
		if errors.Is(err, hackpadfs.ErrNotExist) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		s.logger.Error("failed to read asset", "path", name, "error", err)
		http.Error(w, "failed to read asset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentType(name, data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// ContentType sniffs the MIME type of asset bytes, falling back to the file extension and
// then to application/octet-stream.
//
// Parameters:
//   - name: the file name
//   - data: the file contents
//
// Returns:
//   - string: the MIME type
func ContentType(name string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func fsPath(p string) string {
	for len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	return p
}
