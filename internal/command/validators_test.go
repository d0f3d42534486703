// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "yaml"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	assert.ErrorContains(t, OutputValidator("raw"), "must be one of")
}

func TestMirrorValidator(t *testing.T) {
	for _, v := range []string{"none", "disk", "badger", "s3"} {
		assert.NoError(t, MirrorValidator(v), v)
	}
	assert.Error(t, MirrorValidator("gcs"))
}

func TestJammedFlagValidator(t *testing.T) {
	assert.NoError(t, JammedFlagValidator("json"))
	assert.Error(t, JammedFlagValidator("--titles"))
}

func TestOriginValidator(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"https://catalog.example.com", false},
		{"http://localhost:8080/", false},
		{"catalog.example.com", true},
		{"ftp://catalog.example.com", true},
		{"https://", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := OriginValidator(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlagValidators_StopsAtFirstError(t *testing.T) {
	err := FlagValidators("--json", JammedFlagValidator, OutputValidator)
	assert.ErrorContains(t, err, "must not begin with '--'")
}
