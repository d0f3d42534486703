// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package attrs

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// testSetCase represents a single test case for TestAttrList_Set.
type testSetCase struct {
	Name      string `yaml:"name"`
	Initial   []Attr `yaml:"initial"`
	Value     string `yaml:"value"`
	WantLen   int    `yaml:"wantLen"`
	WantAttrs []Attr `yaml:"wantAttrs"`
	WantErr   bool   `yaml:"wantErr"`
}

// testTransformCase represents a single test case for TestAttr_Transform.
type testTransformCase struct {
	Name          string      `yaml:"name"`
	TransformSpec string      `yaml:"transformSpec"`
	Input         interface{} `yaml:"input"`
	Want          interface{} `yaml:"want"`
}

// testGlobalTransformCase represents a test case for SetGlobalTransformSpec.
type testGlobalTransformCase struct {
	Name      string   `yaml:"name"`
	Initial   []Attr   `yaml:"initial"`
	WantSpecs []string `yaml:"wantSpecs"`
}

// loadTestData loads test data from embedded YAML files.
func loadTestData(filename string, v any) error {
	data, err := testDataFS.ReadFile("testdata/" + filename)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

func TestAttrList_Set(t *testing.T) {
	var tests []testSetCase
	require.NoError(t, loadTestData("set_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			err := a.Set(tt.Value)

			if tt.WantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, a, tt.WantLen)

			for i, want := range tt.WantAttrs {
				assert.Equal(t, want.Key, a[i].Key, "attr[%d].Key", i)
				assert.Equal(t, want.OutputKey, a[i].OutputKey, "attr[%d].OutputKey", i)
				assert.Equal(t, want.Include, a[i].Include, "attr[%d].Include", i)
				assert.Equal(t, want.TransformSpec, a[i].TransformSpec, "attr[%d].TransformSpec", i)
			}
		})
	}
}

func TestAttrList_SetGlobalTransformSpec(t *testing.T) {
	var tests []testGlobalTransformCase
	require.NoError(t, loadTestData("global_transform_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			a := AttrList(tt.Initial)
			a.SetGlobalTransformSpec()

			var got []string
			for _, attr := range a {
				if attr.Key != "*" {
					got = append(got, attr.TransformSpec)
				}
			}
			if tt.Initial[0].Key == "*" {
				got = append([]string{a[0].TransformSpec}, got...)
			}
			assert.Equal(t, tt.WantSpecs, got)
		})
	}
}

func TestAttr_Transform(t *testing.T) {
	var tests []testTransformCase
	require.NoError(t, loadTestData("transform_cases.yaml", &tests))

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			a := Attr{TransformSpec: tt.TransformSpec}
			assert.Equal(t, tt.Want, a.Transform(tt.Input))
		})
	}
}

func TestAttrList_String(t *testing.T) {
	al := New("key", "src")
	require.NoError(t, al.Set("src:url:-20"))
	assert.Equal(t, "key:key:,src:url:-20", al.String())
	assert.Equal(t, "list", al.Type())
}

func TestAttrList_Included(t *testing.T) {
	al := New("key", "status", "bytes")
	require.NoError(t, al.Set("!bytes"))

	var keys []string
	for _, a := range al.Included() {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{"key", "status"}, keys)
}
