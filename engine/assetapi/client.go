package assetapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Carmen-Shannon/oxy-assets/engine/backend"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// Client reads project assets and scene documents from an asset API. It satisfies
// backend.NativeBridge, so a remote API can stand in for a local bridge.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ backend.NativeBridge = &Client{}

// NewClient creates a client for the API at baseURL, e.g. "http://localhost:5173".
//
// Parameters:
//   - baseURL: the scheme and host of the API
//   - httpClient: the HTTP client to use, or nil for http.DefaultClient
//   - logger: the logger, or nil for slog.Default()
//
// Returns:
//   - *Client: the client
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "assetapi-client"),
	}
}

// ReadAssetBytes fetches an asset of the project at projectRoot. Only the project name,
// the last segment of the root, is sent to the API.
func (c *Client) ReadAssetBytes(ctx context.Context, projectRoot, relativePath string) ([]byte, error) {
	return c.get(ctx, backend.APIPath(backend.ProjectName(projectRoot), relativePath))
}

// SceneJSON fetches the scene document of a project. If the project endpoint cannot serve
// it the client falls back to "./scene.json" next to the page.
//
// Parameters:
//   - ctx: bounds the requests
//   - projectRoot: the project root
//
// Returns:
//   - []byte: the raw scene document
//   - error: if neither location served a document
func (c *Client) SceneJSON(ctx context.Context, projectRoot string) ([]byte, error) {
	if projectRoot != "" {
		data, err := c.get(ctx, backend.SceneAPIPath(backend.ProjectName(projectRoot)))
		if err == nil {
			return data, nil
		}
		c.logger.Debug("project scene endpoint failed, trying ./scene.json", "error", err)
	}
	data, err := c.get(ctx, "/"+SceneFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, p string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+p, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", p, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("failed to fetch %s: %s", p, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}
