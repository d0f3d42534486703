// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"sort"
	"sync"

	"github.com/apex/log"
)

// Cache maps preload keys to loaded images. It is safe for concurrent use.
// Entries only ever come from completed loads.
type Cache struct {
	mu     sync.RWMutex
	images map[string]*Image
	closed bool
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{images: make(map[string]*Image)}
}

// Get returns the image stored under key.
func (c *Cache) Get(key string) (*Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Has reports whether key is cached.
func (c *Cache) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Set stores img under key, replacing any previous entry. It returns
// ErrCacheClosed once the cache has been closed.
func (c *Cache) Set(key string, img *Image) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.images[key] = img
	return nil
}

// Delete removes key and reports whether it was present.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.images[key]
	delete(c.images, key)
	return ok
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.images))
	for k := range c.images {
		keys = append(keys, k)
	}
	c.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Close evicts every entry and rejects further writes. Loads that complete
// after Close are not stored.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	n := len(c.images)
	for k := range c.images {
		delete(c.images, k)
	}
	log.Debugf("image cache closed, evicted %d entries", n)
	return nil
}
