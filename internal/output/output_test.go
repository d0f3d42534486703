// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/staranto/catpreload/internal/attrs"
)

func TestSortDataset(t *testing.T) {
	testData := []map[string]any{
		{"key": "Zebra", "bytes": int64(3), "status": "cached"},
		{"key": "alpha", "bytes": int64(1), "status": "missing"},
		{"key": "beta", "bytes": int64(2), "status": "cached"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{"ascending by key", "key", []string{"alpha", "beta", "Zebra"}},
		{"descending by key", "-key", []string{"Zebra", "beta", "alpha"}},
		{"ascending by bytes", "bytes", []string{"alpha", "beta", "Zebra"}},
		{"descending by bytes", "-bytes", []string{"Zebra", "beta", "alpha"}},
		{"case sensitive", "!key", []string{"Zebra", "alpha", "beta"}},
		{"multiple fields", "status,-bytes", []string{"Zebra", "beta", "alpha"}},
		{"empty spec", "", []string{"Zebra", "alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]any, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, expected := range tt.wantOrder {
				assert.Equal(t, expected, data[i]["key"], "at index %d", i)
			}
		})
	}
}

func TestParseSortSpec(t *testing.T) {
	got := parseSortSpec(" -key, !-src ,,")
	assert.Equal(t, []sortKey{
		{name: "key", descending: true},
		{name: "src", descending: true, caseSensitive: true},
	}, got)
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		emptyVal string
		want     string
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "int", value: 42, want: "42"},
		{name: "int64", value: int64(4096), want: "4096"},
		{name: "float64", value: 42.5, want: "42"},
		{name: "float64 with decimal", value: 42.7, want: "43"},
		{name: "bool true", value: true, want: "true"},
		{name: "bool false is zero value", value: false, want: ""},
		{name: "nil default", value: nil, want: ""},
		{name: "nil custom", value: nil, emptyVal: "-", want: "-"},
		{name: "slice", value: []string{"a", "b"}, want: `["a","b"]`},
		{name: "map", value: map[string]int{"x": 1}, want: `{"x":1}`},
		{name: "zero value with custom empty", value: 0, emptyVal: "N/A", want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if tt.emptyVal != "" {
				got = InterfaceToString(tt.value, tt.emptyVal)
			} else {
				got = InterfaceToString(tt.value)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func sampleRows() []map[string]any {
	return []map[string]any{
		{"key": "company_1", "status": "cached", "src": "https://x/a.png?t=1", "internal": "hidden"},
		{"key": "catalog_7", "status": "cached", "src": "https://x/c.png?t=1", "internal": "hidden"},
		{"key": "company_2", "status": "missing", "src": nil, "internal": "hidden"},
	}
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(sampleRows(), attrs.New("key", "status"), Options{
		Format: "json",
		Filter: "status=cached",
		Sort:   "key",
	}, &buf)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{
		{"key": "catalog_7", "status": "cached"},
		{"key": "company_1", "status": "cached"},
	}, got)
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	var buf bytes.Buffer
	err := SliceDiceSpit(sampleRows(), attrs.New("key"), Options{Format: "yaml", Sort: "-key"}, &buf)
	require.NoError(t, err)

	var got []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "company_2", got[0]["key"])
	assert.NotContains(t, buf.String(), "internal")
}

func TestSliceDiceSpit_Text(t *testing.T) {
	t.Setenv("CATPRELOAD_CFG", "/nonexistent/catpreload.yaml")

	var buf bytes.Buffer
	err := SliceDiceSpit(sampleRows(), attrs.New("key", "src"), Options{Titles: true}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "company_1")
	assert.Contains(t, out, "https://x/a.png?t=1")
	assert.NotContains(t, out, "hidden")

	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "company_2") {
			assert.Contains(t, line, "-", "missing values render as a dash")
		}
	}
}

func TestSliceDiceSpit_Attrs(t *testing.T) {
	al := attrs.New("key", "status", "src")
	require.NoError(t, al.Set("key:name:u,!status,src::-12"))

	var buf bytes.Buffer
	err := SliceDiceSpit(sampleRows(), al, Options{
		Format: "json",
		Filter: "status=cached",
		Sort:   "-key",
	}, &buf)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{
		{"name": "COMPANY_1", "src": "https..g?t=1"},
		{"name": "CATALOG_7", "src": "https..g?t=1"},
	}, got)
}

func TestTableWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(nil, attrs.New("key"), Options{}, &buf)
	assert.Empty(t, buf.String())
}

func TestGetColors(t *testing.T) {
	t.Setenv("CATPRELOAD_CFG", "/nonexistent/catpreload.yaml")
	header, even, odd := getColors("colors")
	assert.NotEmpty(t, header)
	assert.NotEmpty(t, even)
	assert.NotEmpty(t, odd)
}

func BenchmarkSortDataset(b *testing.B) {
	testData := []map[string]any{
		{"key": "zebra", "bytes": 3.0},
		{"key": "alpha", "bytes": 1.0},
		{"key": "beta", "bytes": 2.0},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data := make([]map[string]any, len(testData))
		copy(data, testData)
		SortDataset(data, "key")
	}
}
