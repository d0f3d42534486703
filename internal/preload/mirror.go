// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import "context"

// Mirror is a secondary image store that outlives the process. The in-memory
// Cache stays authoritative: mirror failures are logged and never fail a
// preload.
type Mirror interface {
	Put(ctx context.Context, key string, img *Image) error
	// Get reports false with a nil error when key is not mirrored.
	Get(ctx context.Context, key string) (*Image, bool, error)
	// Delete is a no-op for keys that are not mirrored.
	Delete(ctx context.Context, key string) error
}
