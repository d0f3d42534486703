// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/staranto/catpreload/internal/catalog"
)

// ProgressFunc is called once per finished load, whether it succeeded or not.
// It may be called from several goroutines at once.
type ProgressFunc func()

// Result is the outcome of an asynchronous preload.
type Result struct {
	Image *Image
	Err   error
}

// Option configures a Preloader.
type Option func(*Preloader)

// WithMirror writes every successful load through to m and lets Restore and
// ClearCatalogPreloadedImages reach it.
func WithMirror(m Mirror) Option {
	return func(p *Preloader) {
		p.mirror = m
	}
}

// WithResolver replaces the default path resolver.
func WithResolver(r Resolver) Option {
	return func(p *Preloader) {
		p.resolver = r
	}
}

// WithDedupe controls whether concurrent preloads of the same key and path
// share a single fetch. It is on by default.
func WithDedupe(on bool) Option {
	return func(p *Preloader) {
		p.dedupe = on
	}
}

// WithMetrics records loads, shared fetches and mirror failures in m.
func WithMetrics(m *Metrics) Option {
	return func(p *Preloader) {
		p.metrics = m
	}
}

// Preloader fetches images once per key into a Cache.
type Preloader struct {
	cache    *Cache
	loader   Loader
	resolver Resolver
	mirror   Mirror
	metrics  *Metrics
	dedupe   bool
	flights  singleflight.Group

	// pending counts background loads started by PreloadAsync and
	// PreloadCatalogImages.
	pending sync.WaitGroup
}

// New returns a Preloader storing into cache and fetching with loader.
func New(cache *Cache, loader Loader, opts ...Option) *Preloader {
	p := &Preloader{
		cache:  cache,
		loader: loader,
		dedupe: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Cache returns the cache p stores into.
func (p *Preloader) Cache() *Cache {
	return p.cache
}

// Preload fetches path and stores the result under key. An empty key defaults
// to path. onProgress, when non-nil, is called once the load has finished
// either way. Failures are returned as *LoadError and leave the cache
// untouched.
func (p *Preloader) Preload(ctx context.Context, path, key string, onProgress ProgressFunc) (*Image, error) {
	if key == "" {
		key = path
	}

	img, err := p.preload(ctx, path, key)
	if onProgress != nil {
		onProgress()
	}
	if err != nil {
		log.WithError(err).Warnf("failed to preload %s", key)
		return nil, err
	}
	return img, nil
}

// PreloadAsync runs Preload on its own goroutine. The returned channel
// delivers exactly one Result and is then closed.
func (p *Preloader) PreloadAsync(ctx context.Context, path, key string, onProgress ProgressFunc) <-chan Result {
	ch := make(chan Result, 1)
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		defer close(ch)
		img, err := p.Preload(ctx, path, key, onProgress)
		ch <- Result{Image: img, Err: err}
	}()
	return ch
}

func (p *Preloader) preload(ctx context.Context, path, key string) (*Image, error) {
	src, err := p.resolver.Normalize(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if !p.dedupe {
		return p.fetch(ctx, path, key, src)
	}

	// The shared fetch outlives any one caller. Each caller stops waiting
	// when its own ctx is done.
	ch := p.flights.DoChan(key+"\x00"+src, func() (any, error) {
		return p.fetch(context.WithoutCancel(ctx), path, key, src)
	})
	select {
	case <-ctx.Done():
		return nil, &LoadError{Path: path, Src: src, Err: fmt.Errorf("%w: %v", ErrLoadFailed, ctx.Err())}
	case res := <-ch:
		if res.Shared {
			log.Debugf("shared in-flight load of %s", key)
			p.metrics.shared()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Image), nil
	}
}

func (p *Preloader) fetch(ctx context.Context, path, key, src string) (*Image, error) {
	busted := p.resolver.Bust(src)
	log.Debugf("loading %s from %s", key, busted)

	start := time.Now()
	img, err := p.loader.Load(ctx, busted)
	p.metrics.observeLoad(start, img, err)
	if err != nil {
		return nil, &LoadError{Path: path, Src: busted, Err: err}
	}
	img.Key = key
	img.Path = path
	img.Src = busted

	if err := p.cache.Set(key, img); err != nil {
		return nil, &LoadError{Path: path, Src: busted, Err: err}
	}

	if p.mirror != nil {
		if err := p.mirror.Put(ctx, key, img); err != nil {
			log.WithError(err).Warnf("failed to mirror %s", key)
			p.metrics.mirrorError("put")
		}
	}
	return img, nil
}

// PreloadCatalogImages preloads the catalog logo and every company logo
// concurrently. It returns the first failure as soon as it happens; loads
// still in flight carry on and their successes stay cached. Call Wait to
// block until they are done. A nil catalog or one without a companies list
// is logged and ignored.
func (p *Preloader) PreloadCatalogImages(ctx context.Context, c *catalog.Catalog, onProgress ProgressFunc) error {
	if !c.Valid() {
		log.Warn("invalid catalog, skipping image preload")
		return nil
	}

	slots := c.LogoSlots()
	failed := make(chan error, 1)
	done := make(chan error, 1)

	p.pending.Add(len(slots))
	go func() {
		var g errgroup.Group
		for _, slot := range slots {
			g.Go(func() error {
				defer p.pending.Done()
				_, err := p.Preload(ctx, slot.Path, slot.Key, onProgress)
				if err != nil {
					select {
					case failed <- err:
					default:
					}
				}
				return err
			})
		}
		done <- g.Wait()
	}()

	var err error
	select {
	case err = <-failed:
	case err = <-done:
	}
	if err != nil {
		log.WithError(err).Errorf("failed to preload images for catalog %s", c.Name)
		return fmt.Errorf("catalog %s: %w", c.Name, err)
	}

	log.Infof("preloaded %d images for catalog %s", len(slots), c.Name)
	return nil
}

// GetPreloadedImage returns the cached image for key.
func (p *Preloader) GetPreloadedImage(key string) (*Image, bool) {
	return p.cache.Get(key)
}

// GetPreloadedImageSrc returns the URL the cached image for key was fetched
// from.
func (p *Preloader) GetPreloadedImageSrc(key string) (string, bool) {
	img, ok := p.cache.Get(key)
	if !ok {
		return "", false
	}
	return img.Src, true
}

// AreCatalogImagesPreloaded reports whether every logo of c is cached. A
// catalog without logos is trivially preloaded; an invalid catalog is not.
func (p *Preloader) AreCatalogImagesPreloaded(c *catalog.Catalog) bool {
	if !c.Valid() {
		return false
	}
	for _, slot := range c.LogoSlots() {
		if !p.cache.Has(slot.Key) {
			return false
		}
	}
	return true
}

// ClearCatalogPreloadedImages evicts the entries belonging to c, from the
// mirror as well when one is configured. Entries of other catalogs are left
// alone.
func (p *Preloader) ClearCatalogPreloadedImages(ctx context.Context, c *catalog.Catalog) {
	if !c.Valid() {
		return
	}

	var n int
	for _, slot := range c.LogoSlots() {
		if p.cache.Delete(slot.Key) {
			n++
		}
		if p.mirror != nil {
			if err := p.mirror.Delete(ctx, slot.Key); err != nil {
				log.WithError(err).Warnf("failed to remove mirrored %s", slot.Key)
				p.metrics.mirrorError("delete")
			}
		}
	}
	log.Infof("cleared %d preloaded images for catalog %s", n, c.Name)
}

// Restore copies the catalog's mirrored images into the cache, skipping keys
// that are already cached. It returns the number of entries restored.
func (p *Preloader) Restore(ctx context.Context, c *catalog.Catalog) (int, error) {
	if p.mirror == nil || !c.Valid() {
		return 0, nil
	}

	var n int
	for _, slot := range c.LogoSlots() {
		if p.cache.Has(slot.Key) {
			continue
		}
		img, ok, err := p.mirror.Get(ctx, slot.Key)
		if err != nil {
			p.metrics.mirrorError("get")
			p.metrics.restored(n)
			return n, fmt.Errorf("failed to restore %s: %w", slot.Key, err)
		}
		if !ok {
			continue
		}
		if err := p.cache.Set(slot.Key, img); err != nil {
			p.metrics.restored(n)
			return n, err
		}
		n++
	}
	p.metrics.restored(n)
	log.Debugf("restored %d images for catalog %s", n, c.Name)
	return n, nil
}

// Wait blocks until every load started by PreloadAsync or
// PreloadCatalogImages has finished.
func (p *Preloader) Wait() {
	p.pending.Wait()
}

// Close waits for pending loads, then disposes of the cache, and of the
// mirror when it holds resources of its own.
func (p *Preloader) Close() error {
	p.Wait()
	err := p.cache.Close()
	if c, ok := p.mirror.(io.Closer); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
