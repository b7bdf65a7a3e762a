package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
	"github.com/gorilla/websocket"
)

// CmdReadAssetFile is the only command the bridge protocol carries.
const CmdReadAssetFile = "read_asset_file"

// request is a single bridge call sent from client to host.
type request struct {
	ID          uint64 `json:"id"`
	Cmd         string `json:"cmd"`
	ProjectPath string `json:"projectPath"`
	AssetPath   string `json:"assetPath"`
}

// response answers the request with the same ID. Data is base64 on the wire.
type response struct {
	ID    uint64 `json:"id"`
	Data  []byte `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// WSBridge is a native bridge client talking to a host over a websocket. Calls are
// multiplexed over one connection and matched to responses by ID.
type WSBridge struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex
	nextID  atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan response
	closed  bool

	done chan struct{}
}

var _ backend.NativeBridge = &WSBridge{}

// Dial connects to a bridge host.
//
// Parameters:
//   - ctx: bounds the handshake
//   - url: the websocket URL of the host, e.g. "ws://127.0.0.1:7420/bridge"
//   - logger: the logger for connection events, or nil for slog.Default()
//
// Returns:
//   - *WSBridge: the connected bridge
//   - error: if the handshake fails
func Dial(ctx context.Context, url string, logger *slog.Logger) (*WSBridge, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bridge %s: %w", url, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &WSBridge{
		conn:    conn,
		logger:  logger.With("component", "bridge", "url", url),
		pending: make(map[uint64]chan response),
		done:    make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *WSBridge) readLoop() {
	defer close(b.done)
	for {
		var resp response
		if err := b.conn.ReadJSON(&resp); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !errors.Is(err, websocket.ErrCloseSent) {
				b.logger.Debug("bridge read loop stopped", "error", err)
			}
			b.failPending()
			return
		}
		b.mu.Lock()
		ch, ok := b.pending[resp.ID]
		delete(b.pending, resp.ID)
		b.mu.Unlock()
		if !ok {
			b.logger.Warn("bridge response for unknown call", "id", resp.ID)
			continue
		}
		ch <- resp
	}
}

func (b *WSBridge) failPending() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.pending {
		close(ch)
		delete(b.pending, id)
	}
}

func (b *WSBridge) ReadAssetBytes(ctx context.Context, projectRoot, relativePath string) ([]byte, error) {
	req := request{
		ID:          b.nextID.Add(1),
		Cmd:         CmdReadAssetFile,
		ProjectPath: projectRoot,
		AssetPath:   relativePath,
	}
	ch := make(chan response, 1)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrBridgeClosed
	}
	b.pending[req.ID] = ch
	b.mu.Unlock()

	b.writeMu.Lock()
	err := b.conn.WriteJSON(req)
	b.writeMu.Unlock()
	if err != nil {
		b.forget(req.ID)
		return nil, fmt.Errorf("%w: %v", ErrBridgeClosed, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, ErrBridgeClosed
		}
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return resp.Data, nil
	case <-ctx.Done():
		b.forget(req.ID)
		return nil, ctx.Err()
	}
}

func (b *WSBridge) forget(id uint64) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

// Close sends a close frame and waits for the read loop to exit. Pending calls fail
// with ErrBridgeClosed.
//
// Returns:
//   - error: if closing the connection fails
func (b *WSBridge) Close() error {
	b.writeMu.Lock()
	_ = b.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	b.writeMu.Unlock()
	err := b.conn.Close()
	<-b.done
	return err
}
