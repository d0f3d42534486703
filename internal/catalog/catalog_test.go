// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "catalog_7", CatalogKey("7"))
	assert.Equal(t, "company_abc", CompanyKey("abc"))
}

func TestLogoSlots(t *testing.T) {
	tests := []struct {
		name    string
		catalog *Catalog
		want    []Slot
	}{
		{
			name:    "nil catalog",
			catalog: nil,
			want:    nil,
		},
		{
			name: "catalog logo and one company logo",
			catalog: &Catalog{
				ID:   "5",
				Logo: "cat.png",
				Companies: []Company{
					{ID: "1", Logo: "a.png"},
					{ID: "2"},
				},
			},
			want: []Slot{
				{Key: "catalog_5", Path: "cat.png"},
				{Key: "company_1", Path: "a.png"},
			},
		},
		{
			name: "no logos anywhere",
			catalog: &Catalog{
				ID:        "5",
				Companies: []Company{{ID: "1"}, {ID: "2"}},
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.catalog.LogoSlots())
		})
	}
}

func TestValid(t *testing.T) {
	var nilCatalog *Catalog
	assert.False(t, nilCatalog.Valid())
	assert.False(t, (&Catalog{ID: "1"}).Valid())
	assert.True(t, (&Catalog{ID: "1", Companies: []Company{}}).Valid())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		checkFunc func(*testing.T, []Catalog)
	}{
		{
			name: "single mapping",
			raw:  "id: 3\nname: x\ncompanies:\n  - id: 4\n    logo: l.png\n",
			checkFunc: func(t *testing.T, cs []Catalog) {
				require.Len(t, cs, 1)
				assert.Equal(t, ID("3"), cs[0].ID)
				assert.Equal(t, []string{"company_4"}, cs[0].Keys())
			},
		},
		{
			name: "json list with numeric ids",
			raw:  `[{"id": 1, "name": "a", "companies": []}, {"id": 2, "name": "b"}]`,
			checkFunc: func(t *testing.T, cs []Catalog) {
				require.Len(t, cs, 2)
				assert.Equal(t, ID("1"), cs[0].ID)
				assert.NotNil(t, cs[0].Companies)
				assert.Nil(t, cs[1].Companies)
			},
		},
		{
			name: "wrapped catalogs",
			raw:  "catalogs:\n  - id: 1\n    name: a\n",
			checkFunc: func(t *testing.T, cs []Catalog) {
				require.Len(t, cs, 1)
				assert.Equal(t, "a", cs[0].Name)
			},
		},
		{
			name:    "empty document",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "scalar document",
			raw:     "hello",
			wantErr: true,
		},
		{
			name:    "non scalar id",
			raw:     "id: [1, 2]\nname: x\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := Parse([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cs)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	raw := []byte(`{"catalogs": [{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]}`)

	out, err := Select(raw, "")
	require.NoError(t, err)
	assert.Equal(t, raw, out)

	out, err = Select(raw, "catalogs.1")
	require.NoError(t, err)
	cs, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, "b", cs[0].Name)

	_, err = Select(raw, "catalogs.9")
	assert.ErrorIs(t, err, ErrNoCatalog)

	_, err = Select([]byte("id: 1\n"), "id")
	assert.ErrorIs(t, err, ErrInvalidJSONQuery)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		query     string
		index     int
		wantErr   error
		checkFunc func(*testing.T, *Catalog)
	}{
		{
			name:  "json by index",
			file:  "catalogs.json",
			index: 1,
			checkFunc: func(t *testing.T, c *Catalog) {
				assert.Equal(t, "Speciality", c.Name)
				assert.Equal(t, []string{"company_20"}, c.Keys())
			},
		},
		{
			name:  "json by query",
			file:  "catalogs.json",
			query: `catalogs.#(name=="MeatAndCuredMeat")`,
			checkFunc: func(t *testing.T, c *Catalog) {
				assert.Equal(t, ID("1"), c.ID)
				assert.Equal(t, []string{"catalog_1", "company_10"}, c.Keys())
			},
		},
		{
			name: "single yaml",
			file: "single.yaml",
			checkFunc: func(t *testing.T, c *Catalog) {
				assert.Equal(t, ID("cat-9"), c.ID)
				assert.Equal(t, []string{"catalog_cat-9", "company_a"}, c.Keys())
			},
		},
		{
			name:    "index out of range",
			file:    "list.yaml",
			index:   2,
			wantErr: ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(filepath.Join("testdata", tt.file), tt.query, tt.index)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, c)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"), "", 0)
	assert.Error(t, err)
}
