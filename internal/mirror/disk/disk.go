// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package disk

import (
	"context"
	"fmt"
	"net/url"

	"github.com/apex/log"

	"github.com/staranto/catpreload/internal/cacheutil"
	"github.com/staranto/catpreload/internal/preload"
)

const imagesDir = "images"

// Store mirrors preloaded images into the on-disk cache. Entries are grouped
// by origin host so catalogs served from different sites do not collide.
type Store struct {
	subdirs []string
}

// New returns a Store for origin. An empty or unparsable origin shares the
// "local" namespace.
func New(origin string) *Store {
	ns := "local"
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		ns = u.Host
	}
	return &Store{subdirs: []string{imagesDir, ns}}
}

// Put implements preload.Mirror.
func (s *Store) Put(ctx context.Context, key string, img *preload.Image) error {
	b, err := preload.EncodeImage(img)
	if err != nil {
		return err
	}
	if err := cacheutil.Write(s.subdirs, key, b); err != nil {
		return fmt.Errorf("failed to mirror %s to disk: %w", key, err)
	}
	log.Debugf("mirrored %s to disk (%d bytes)", key, len(b))
	return nil
}

// Get implements preload.Mirror. An unreadable entry is reported as missing
// and logged.
func (s *Store) Get(ctx context.Context, key string) (*preload.Image, bool, error) {
	entry, ok := cacheutil.Read(s.subdirs, key)
	if !ok {
		return nil, false, nil
	}
	img, err := preload.DecodeImage(entry.Data)
	if err != nil {
		log.WithError(err).Warnf("ignoring corrupt cache entry %s", entry.Path)
		return nil, false, nil
	}
	log.Debugf("cache hit: %s", entry.Path)
	return img, true, nil
}

// Delete implements preload.Mirror.
func (s *Store) Delete(ctx context.Context, key string) error {
	return cacheutil.Remove(s.subdirs, key)
}

var _ preload.Mirror = (*Store)(nil)
