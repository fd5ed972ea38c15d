package attachment

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/dukerupert/postmark-transport/internal/storage"
)

// DefaultMaxSize matches Postmark's per-message attachment limit.
const DefaultMaxSize = 10 << 20

const storageScheme = "storage://"

// Composer is the default ContentResolver. It reads inline content,
// readers, local files, http(s) URLs, data: URIs and storage:// keys.
type Composer struct {
	// HTTPClient fetches URL attachments. Defaults to a client with a 30
	// second timeout.
	HTTPClient *http.Client

	// Storage serves storage://<key> paths. When nil such paths fail.
	Storage storage.Storage

	// MaxSize bounds a single attachment body. Zero means DefaultMaxSize.
	MaxSize int64

	// DisableFileAccess rejects local filesystem paths.
	DisableFileAccess bool

	// DisableURLAccess rejects http(s) URLs.
	DisableURLAccess bool
}

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// ResolveContent implements ContentResolver.
func (c *Composer) ResolveContent(ctx context.Context, d Descriptor, index int) (*Content, error) {
	body, sourceType, sourceName, err := c.read(ctx, d)
	if err != nil {
		return nil, err
	}

	filename := d.Filename
	if filename == "" {
		filename = sourceName
	}

	contentType := firstNonEmpty(d.ContentType, sourceType, typeByFilename(filename))
	if contentType == "" {
		contentType = sniff(body)
	}
	contentType = baseMediaType(contentType)

	if filename == "" {
		filename = fmt.Sprintf("attachment-%d%s", index+1, extensionFor(contentType))
	}

	return &Content{
		Filename:         filename,
		Body:             body,
		ContentType:      contentType,
		TransferEncoding: d.ContentTransferEncoding,
		CID:              d.CID,
	}, nil
}

// read returns the body plus any content type and filename the source
// itself provides.
func (c *Composer) read(ctx context.Context, d Descriptor) ([]byte, string, string, error) {
	switch {
	case d.Reader != nil:
		body, err := c.readAll(d.Reader)
		return body, "", "", err
	case d.Content != "":
		body, err := decodeInline(d.Content, d.Encoding)
		return body, "", "", err
	case d.Path != "":
		return c.readLocation(ctx, d.Path)
	case d.Href != "":
		return c.readLocation(ctx, d.Href)
	default:
		return nil, "", "", ErrNoContent
	}
}

func (c *Composer) readLocation(ctx context.Context, loc string) ([]byte, string, string, error) {
	switch {
	case isDataURI(loc):
		du, err := parseDataURI(loc)
		if err != nil {
			return nil, "", "", err
		}
		if int64(len(du.Data)) > c.maxSize() {
			return nil, "", "", ErrTooLarge
		}
		return du.Data, du.MediaType, "", nil
	case strings.HasPrefix(loc, "http://"), strings.HasPrefix(loc, "https://"):
		if c.DisableURLAccess {
			return nil, "", "", ErrURLAccessDisabled
		}
		return c.fetch(ctx, loc)
	case strings.HasPrefix(loc, storageScheme):
		return c.readStorage(ctx, strings.TrimPrefix(loc, storageScheme))
	default:
		if c.DisableFileAccess {
			return nil, "", "", ErrFileAccessDisabled
		}
		return c.readFile(loc)
	}
}

func (c *Composer) readFile(name string) ([]byte, string, string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()

	body, err := c.readAll(f)
	if err != nil {
		return nil, "", "", err
	}
	return body, "", filepath.Base(name), nil
}

func (c *Composer) fetch(ctx context.Context, rawURL string) ([]byte, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", "", err
	}

	client := c.HTTPClient
	if client == nil {
		client = defaultHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", "", fmt.Errorf("fetch attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", "", fmt.Errorf("fetch attachment: unexpected status %d", resp.StatusCode)
	}

	body, err := c.readAll(resp.Body)
	if err != nil {
		return nil, "", "", err
	}

	return body, resp.Header.Get("Content-Type"), urlBase(req.URL), nil
}

func (c *Composer) readStorage(ctx context.Context, key string) ([]byte, string, string, error) {
	if c.Storage == nil {
		return nil, "", "", ErrStorageUnavailable
	}

	rc, err := c.Storage.Get(ctx, key)
	if err != nil {
		return nil, "", "", err
	}
	defer rc.Close()

	body, err := c.readAll(rc)
	if err != nil {
		return nil, "", "", err
	}
	return body, "", path.Base(key), nil
}

func (c *Composer) readAll(r io.Reader) ([]byte, error) {
	limit := c.maxSize()
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, ErrTooLarge
	}
	return body, nil
}

func (c *Composer) maxSize() int64 {
	if c.MaxSize > 0 {
		return c.MaxSize
	}
	return DefaultMaxSize
}

func decodeInline(content, encoding string) ([]byte, error) {
	switch strings.ToLower(encoding) {
	case "":
		return []byte(content), nil
	case "base64":
		// Wrapped input is accepted; whitespace is not part of the alphabet.
		body, err := base64.StdEncoding.DecodeString(stripWhitespace(content))
		if err != nil {
			return nil, fmt.Errorf("decode base64 content: %w", err)
		}
		return body, nil
	case "hex":
		body, err := hex.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("decode hex content: %w", err)
		}
		return body, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}

func urlBase(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return ""
	}
	return base
}

func typeByFilename(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}

func sniff(body []byte) string {
	return mimetype.Detect(body).String()
}

// extensionFor returns the usual extension for a media type, or ".bin".
func extensionFor(contentType string) string {
	if m := mimetype.Lookup(contentType); m != nil && m.Extension() != "" {
		return m.Extension()
	}
	return ".bin"
}

// baseMediaType drops parameters such as charset.
func baseMediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ ContentResolver = (*Composer)(nil)
