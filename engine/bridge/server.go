package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/gorilla/websocket"
)

// Server hosts a native bridge over websockets. Each connection may carry any number of
// concurrent calls; responses are written as their reads complete.
type Server struct {
	bridge   backend.NativeBridge
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var _ http.Handler = &Server{}

// ServerOption is a functional option for configuring a Server via NewServer.
type ServerOption func(*Server)

// WithLogger sets the server logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - ServerOption: a function that applies the logger option to a server
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCheckOrigin overrides the websocket origin check. The default rejects browser requests
// whose Origin host differs from the request's Host.
//
// Parameters:
//   - check: the origin check
//
// Returns:
//   - ServerOption: a function that applies the origin check option to a server
func WithCheckOrigin(check func(r *http.Request) bool) ServerOption {
	return func(s *Server) {
		s.upgrader.CheckOrigin = check
	}
}

// NewServer creates a bridge host answering calls with the given bridge.
//
// Parameters:
//   - bridge: the bridge that performs the reads, usually an FSBridge
//   - options: a variadic list of ServerOption functions
//
// Returns:
//   - *Server: the handler
func NewServer(bridge backend.NativeBridge, options ...ServerOption) *Server {
	s := &Server{
		bridge: bridge,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: slog.Default(),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("component", "bridge-server")
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var writeMu sync.Mutex
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("bridge connection closed", "error", err)
			}
			cancel()
			return
		}

		wg.Add(1)
		go func(req request) {
			defer wg.Done()
			resp := s.handle(ctx, req)
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(resp); err != nil {
				s.logger.Debug("failed to write bridge response", "id", req.ID, "error", err)
			}
		}(req)
	}
}

func (s *Server) handle(ctx context.Context, req request) response {
	if req.Cmd != CmdReadAssetFile {
		return response{ID: req.ID, Error: "unknown command: " + req.Cmd}
	}
	data, err := s.bridge.ReadAssetBytes(ctx, req.ProjectPath, req.AssetPath)
	if err != nil {
		s.logger.Debug("bridge read failed", "project", req.ProjectPath, "asset", req.AssetPath, "error", err)
		return response{ID: req.ID, Error: err.Error()}
	}
	return response{ID: req.ID, Data: data}
}
