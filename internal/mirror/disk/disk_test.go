// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package disk

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/catpreload/internal/preload"
)

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATPRELOAD_CACHE_DIR", dir)
	t.Setenv("CATPRELOAD_CACHE", "")
	ctx := context.Background()

	s := New("https://catalog.example.com")
	img := &preload.Image{
		Key:         "company_1",
		Path:        "a.png",
		Src:         "https://catalog.example.com/assets/logos/a.png?t=1",
		ContentType: "image/png",
		Width:       4,
		Height:      2,
		FetchedAt:   time.UnixMilli(1).UTC(),
		Data:        []byte{0x89, 'P', 'N', 'G'},
	}

	_, ok, err := s.Get(ctx, "company_1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "company_1", img))
	assert.DirExists(t, filepath.Join(dir, "images", "catalog.example.com"))

	got, ok, err := s.Get(ctx, "company_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, img.FetchedAt.Equal(got.FetchedAt))
	got.FetchedAt = img.FetchedAt
	assert.Equal(t, img, got)

	require.NoError(t, s.Delete(ctx, "company_1"))
	_, ok, err = s.Get(ctx, "company_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_NamespacedByOrigin(t *testing.T) {
	t.Setenv("CATPRELOAD_CACHE_DIR", t.TempDir())
	ctx := context.Background()

	a := New("https://a.example.com")
	b := New("")
	require.NoError(t, a.Put(ctx, "k", &preload.Image{Key: "k", Data: []byte("a")}))

	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptEntryIsMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATPRELOAD_CACHE_DIR", dir)
	ctx := context.Background()

	s := New("")
	require.NoError(t, s.Put(ctx, "k", &preload.Image{Key: "k", Data: []byte("a")}))

	entries, err := os.ReadDir(filepath.Join(dir, "images", "local"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "local", entries[0].Name()), []byte("{"), 0o600))

	_, ok, err := s.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}
