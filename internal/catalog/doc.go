// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package catalog models catalogs of companies and their logos, derives the
// cache keys their images are preloaded under, and loads catalogs from YAML or
// JSON files.
package catalog
