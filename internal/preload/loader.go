// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/apex/log"
)

// Defaults applied by NewHTTPLoader.
const (
	DefaultMaxSize int64 = 5 * 1024 * 1024 // 5MB
	DefaultTimeout       = 10 * time.Second
)

// allowedContentTypes are the image types accepted from a server. The bool
// marks the raster formats that are checked with image.DecodeConfig.
var allowedContentTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/gif":     true,
	"image/svg+xml": false,
	"image/webp":    false,
}

// Loader issues a single image request. It knows nothing about caching.
type Loader interface {
	Load(ctx context.Context, src string) (*Image, error)
}

// LoaderOption configures an HTTPLoader.
type LoaderOption func(*HTTPLoader)

// WithMaxSize caps the number of bytes read for one image.
func WithMaxSize(size int64) LoaderOption {
	return func(l *HTTPLoader) {
		l.maxSize = size
	}
}

// WithTimeout sets the timeout of the default client. It has no effect when a
// client is supplied.
func WithTimeout(d time.Duration) LoaderOption {
	return func(l *HTTPLoader) {
		l.timeout = d
	}
}

// HTTPLoader loads images over HTTP.
type HTTPLoader struct {
	client  *http.Client
	maxSize int64
	timeout time.Duration
}

// NewHTTPLoader returns a loader using client, or a client with a timeout when
// client is nil.
func NewHTTPLoader(client *http.Client, opts ...LoaderOption) *HTTPLoader {
	l := &HTTPLoader{
		maxSize: DefaultMaxSize,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}

	if client == nil {
		client = &http.Client{Timeout: l.timeout}
	}
	l.client = client
	return l
}

// Load fetches src and validates that the body is an acceptable image.
func (l *HTTPLoader) Load(ctx context.Context, src string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrLoadFailed, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrLoadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrLoadFailed, err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, l.maxSize)
	}

	contentType := mediaType(resp.Header.Get("Content-Type"), data)
	raster, ok := allowedContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	img := &Image{
		Src:         src,
		ContentType: contentType,
		FetchedAt:   time.Now(),
		Data:        data,
	}

	if raster {
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, contentType, err)
		}
		img.Width, img.Height = cfg.Width, cfg.Height
		log.Debugf("decoded %s %dx%d from %s", format, cfg.Width, cfg.Height, src)
	}

	return img, nil
}

// mediaType strips parameters from a Content-Type header, sniffing the body
// when the server sent nothing useful.
func mediaType(header string, data []byte) string {
	if header == "" || header == "application/octet-stream" {
		header = http.DetectContentType(data)
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return header
	}
	return mt
}

var _ Loader = (*HTTPLoader)(nil)
