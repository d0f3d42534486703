// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultLogoRoot is the directory relative logo filenames are resolved
// against.
const DefaultLogoRoot = "/assets/logos"

// cacheBustParam is the query parameter set to the fetch time.
const cacheBustParam = "t"

// Resolver turns caller paths into fetchable URLs.
type Resolver struct {
	// Origin, when set, is the base URL that root-relative paths are resolved
	// against, e.g. "https://catalog.example.com".
	Origin string
	// LogoRoot is the directory bare filenames live in.
	LogoRoot string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Normalize returns path as an absolute location. A path starting with "http"
// or "/" is already absolute; anything else is a filename beneath LogoRoot.
// Root-relative results are resolved against Origin when one is set.
func (r Resolver) Normalize(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path: %w", ErrLoadFailed)
	}
	if strings.HasPrefix(path, "http") {
		return path, nil
	}

	if !strings.HasPrefix(path, "/") {
		root := r.LogoRoot
		if root == "" {
			root = DefaultLogoRoot
		}
		path = strings.TrimSuffix(root, "/") + "/" + path
		if strings.HasPrefix(path, "http") {
			return path, nil
		}
	}

	if r.Origin == "" {
		return path, nil
	}

	base, err := url.Parse(r.Origin)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", r.Origin, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Bust sets the cache-busting parameter on src to the current epoch
// milliseconds so intermediate HTTP caches are bypassed. Other query
// parameters keep their order and escaping.
func (r Resolver) Bust(src string) string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	stamp := strconv.FormatInt(now().UnixMilli(), 10)

	u, err := url.Parse(src)
	if err != nil {
		return src + "?" + cacheBustParam + "=" + stamp
	}
	var parts []string
	for _, part := range strings.Split(u.RawQuery, "&") {
		name, _, _ := strings.Cut(part, "=")
		if part == "" || name == cacheBustParam {
			continue
		}
		parts = append(parts, part)
	}
	u.RawQuery = strings.Join(append(parts, cacheBustParam+"="+stamp), "&")
	u.ForceQuery = false
	return u.String()
}
