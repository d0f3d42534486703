// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"encoding/json"
	"fmt"
	"time"
)

// Image is a successfully fetched image. Images held by the cache are shared
// between callers and must be treated as read-only.
type Image struct {
	// Key is the cache key the image was stored under.
	Key string `json:"key"`
	// Path is the path as supplied by the caller, before resolution.
	Path string `json:"path"`
	// Src is the normalized, cache-busted URL the image was fetched from.
	Src         string    `json:"src"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width,omitempty"`
	Height      int       `json:"height,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	Data        []byte    `json:"data"`
}

// Size returns the number of content bytes.
func (img *Image) Size() int {
	if img == nil {
		return 0
	}
	return len(img.Data)
}

// EncodeImage serializes img for a Mirror.
func EncodeImage(img *Image) ([]byte, error) {
	b, err := json.Marshal(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image %s: %w", img.Key, err)
	}
	return b, nil
}

// DecodeImage is the inverse of EncodeImage.
func DecodeImage(b []byte) (*Image, error) {
	var img Image
	if err := json.Unmarshal(b, &img); err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("failed to decode image %s: no data", img.Key)
	}
	return &img, nil
}
