package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/h2non/filetype"
	"github.com/hack-pad/hackpadfs"
)

// ErrUnsupportedURL is returned when no configured backend accepts a URL.
var ErrUnsupportedURL = errors.New("unsupported url")

// loaderBackend loads one family of URLs.
// Concrete implementations handle scheme-specific details.
type loaderBackend interface {
	// Load fetches the resource at the given URL.
	//
	// Parameters:
	//   - ctx: bounds the fetch
	//   - url: the URL to load
	//
	// Returns:
	//   - *Resource: the loaded resource
	//   - error: error if loading fails
	Load(ctx context.Context, url string) (*Resource, error)
}

// sniffMIME returns the MIME type of data, falling back to the given hint.
func sniffMIME(data []byte, hint string) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	return hint
}

// dataLoaderBackend decodes data: URIs.
type dataLoaderBackend struct{}

func newDataLoaderBackend() loaderBackend {
	return dataLoaderBackend{}
}

func (dataLoaderBackend) Load(_ context.Context, uri string) (*Resource, error) {
	data, mimeType, err := decodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: uri, Data: data, MimeType: mimeType}, nil
}

// decodeDataURI decodes a data URI into raw bytes and extracts the MIME type.
// Format: data:[<mediatype>][;base64],<data>
func decodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("not a data URI")
	}

	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("malformed data URI: no comma found")
	}

	header := uri[5:commaIdx]
	encoded := uri[commaIdx+1:]

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if mimeType == "" {
		mimeType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decode base64: %w", err)
		}
		return data, mimeType, nil
	}

	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode data URI: %w", err)
	}
	return []byte(decoded), mimeType, nil
}

// httpLoaderBackend fetches http(s) URLs and resolves host-relative paths against a base.
type httpLoaderBackend struct {
	client *http.Client
	base   string
}

func newHTTPLoaderBackend(client *http.Client, base string) loaderBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpLoaderBackend{client: client, base: strings.TrimRight(base, "/")}
}

func (b *httpLoaderBackend) Load(ctx context.Context, rawURL string) (*Resource, error) {
	target := rawURL
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		if b.base == "" {
			return nil, fmt.Errorf("%w: relative url without base", ErrUnsupportedURL)
		}
		target = b.base + "/" + strings.TrimLeft(target, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return &Resource{URL: rawURL, Data: data, MimeType: sniffMIME(data, contentType)}, nil
}

// fsLoaderBackend reads plain paths from a hackpadfs filesystem.
type fsLoaderBackend struct {
	fs   hackpadfs.FS
	root string
}

func newFSLoaderBackend(fsys hackpadfs.FS, root string) loaderBackend {
	return &fsLoaderBackend{fs: fsys, root: strings.Trim(root, "/")}
}

func (b *fsLoaderBackend) Load(ctx context.Context, p string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleaned := path.Clean("/" + p)
	name := strings.TrimPrefix(path.Join(b.root, cleaned), "/")
	data, err := hackpadfs.ReadFile(b.fs, name)
	if err != nil {
		return nil, err
	}
	return &Resource{URL: p, Data: data, MimeType: sniffMIME(data, mime.TypeByExtension(path.Ext(p)))}, nil
}
