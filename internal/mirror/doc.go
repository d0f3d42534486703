// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package mirror holds the preload.Mirror implementations: disk keeps images
// beneath the user cache directory, badger keeps them in an embedded database
// and s3 keeps them in a bucket.
package mirror
