// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package preload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSetDelete(t *testing.T) {
	c := NewCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.False(t, c.Has("missing"))

	img := &Image{Key: "a", Data: []byte("x")}
	require.NoError(t, c.Set("a", img))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Same(t, img, got)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Equal(t, 0, c.Len())
}

func TestCache_Keys(t *testing.T) {
	c := NewCache()
	for _, k := range []string{"company_2", "catalog_1", "company_1"} {
		require.NoError(t, c.Set(k, &Image{Key: k}))
	}
	assert.Equal(t, []string{"catalog_1", "company_1", "company_2"}, c.Keys())
}

func TestCache_Close(t *testing.T) {
	c := NewCache()
	require.NoError(t, c.Set("a", &Image{Key: "a"}))
	require.NoError(t, c.Set("b", &Image{Key: "b"}))

	require.NoError(t, c.Close())
	assert.Equal(t, 0, c.Len())
	assert.ErrorIs(t, c.Set("c", &Image{Key: "c"}), ErrCacheClosed)
	assert.False(t, c.Has("c"))
}
