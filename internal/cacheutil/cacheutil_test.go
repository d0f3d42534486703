// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupCacheDir points CATPRELOAD_CACHE_DIR at a fresh temp dir.
func setupCacheDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CATPRELOAD_CACHE_DIR", dir)
	t.Setenv("CATPRELOAD_CACHE", "")
	return dir
}

func TestDir(t *testing.T) {
	dir := setupCacheDir(t)
	got, ok := Dir()
	assert.True(t, ok)
	assert.Equal(t, dir, got)
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("CATPRELOAD_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(setupCacheDir(t), "nested")
	t.Setenv("CATPRELOAD_CACHE_DIR", base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("CATPRELOAD_CACHE", "0")
	_, ok, err = EnsureBaseDir()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteReadRemove(t *testing.T) {
	dir := setupCacheDir(t)
	subdirs := []string{"images"}

	_, ok := Read(subdirs, "company_1")
	assert.False(t, ok)

	require.NoError(t, Write(subdirs, "company_1", []byte("payload")))

	entry, ok := Read(subdirs, "company_1")
	require.True(t, ok)
	assert.Equal(t, "company_1", entry.Key)
	assert.Equal(t, encodeKey("company_1"), entry.EncodedKey)
	assert.Equal(t, filepath.Join(dir, "images", entry.EncodedKey), entry.Path)
	assert.Equal(t, []byte("payload"), entry.Data)
	assert.False(t, entry.ModTime.IsZero())

	require.NoError(t, Write(subdirs, "company_1", []byte("replaced")))
	entry, ok = Read(subdirs, "company_1")
	require.True(t, ok)
	assert.Equal(t, []byte("replaced"), entry.Data)

	require.NoError(t, Remove(subdirs, "company_1"))
	_, ok = Read(subdirs, "company_1")
	assert.False(t, ok)
	assert.NoError(t, Remove(subdirs, "company_1"))

	leftovers, err := os.ReadDir(filepath.Join(dir, "images"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "no temp files left behind")
}

func TestWrite_Disabled(t *testing.T) {
	dir := setupCacheDir(t)
	t.Setenv("CATPRELOAD_CACHE", "false")

	require.NoError(t, Write([]string{"images"}, "k", []byte("x")))
	_, ok := Read([]string{"images"}, "k")
	assert.False(t, ok)
	assert.NoDirExists(t, filepath.Join(dir, "images"))
}

func TestPurge(t *testing.T) {
	setupCacheDir(t)
	subdirs := []string{"images"}
	require.NoError(t, Write(subdirs, "old", []byte("x")))
	require.NoError(t, Write(subdirs, "new", []byte("y")))

	oldPath, ok := EntryPath(subdirs, "old")
	require.True(t, ok)
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	n, err := Purge(0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Purge(24)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok = Read(subdirs, "old")
	assert.False(t, ok)
	_, ok = Read(subdirs, "new")
	assert.True(t, ok)
}

func TestPurge_SkipsDBDir(t *testing.T) {
	setupCacheDir(t)
	base, ok := Dir()
	require.True(t, ok)

	db := filepath.Join(base, DBDir)
	require.NoError(t, os.MkdirAll(db, 0o755))
	vlog := filepath.Join(db, "000001.vlog")
	require.NoError(t, os.WriteFile(vlog, []byte("x"), 0o600))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(vlog, stale, stale))

	n, err := Purge(24)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, vlog)
}

func TestPurge_MissingDir(t *testing.T) {
	t.Setenv("CATPRELOAD_CACHE_DIR", filepath.Join(t.TempDir(), "does-not-exist"))
	n, err := Purge(1)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
