// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package preload fetches catalog images ahead of display and keeps them in an
// in-memory cache keyed by logical image key. A Preloader pairs a Cache with a
// Loader, resolves relative paths against a logo root, busts intermediate HTTP
// caches with a timestamp parameter and optionally writes through to a Mirror.
//
//	cache := preload.NewCache()
//	defer cache.Close()
//	p := preload.New(cache, preload.NewHTTPLoader(nil))
//	if err := p.PreloadCatalogImages(ctx, c, nil); err != nil {
//	    // one of the logos failed to load
//	}
//	src, ok := p.GetPreloadedImageSrc(catalog.CompanyKey("42"))
package preload
