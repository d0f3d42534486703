// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by a LoadError. Match them with errors.Is.
var (
	ErrLoadFailed         = errors.New("image load failed")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrImageTooLarge      = errors.New("image exceeds max size")
	ErrDecodeFailed       = errors.New("image decode failed")
	ErrCacheClosed        = errors.New("cache is closed")
)

// LoadError reports that an individual image could not be fetched. Path is the
// caller-supplied path; Src is the resolved URL when resolution got that far.
type LoadError struct {
	Path string
	Src  string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Src != "" && e.Src != e.Path {
		return fmt.Sprintf("failed to load image %s (%s): %v", e.Path, e.Src, e.Err)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
