// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
	}{
		{
			name: "empty spec",
			spec: "",
		},
		{
			name: "exact match",
			spec: "key=company_1",
			want: []Filter{{Key: "key", Operand: "=", Target: "company_1"}},
		},
		{
			name: "prefix match",
			spec: "key^catalog_",
			want: []Filter{{Key: "key", Operand: "^", Target: "catalog_"}},
		},
		{
			name: "negated exact match",
			spec: "status!=cached",
			want: []Filter{{Key: "status", Operand: "=", Target: "cached", Negate: true}},
		},
		{
			name: "multiple filters",
			spec: "status=cached,bytes>100",
			want: []Filter{
				{Key: "status", Operand: "=", Target: "cached"},
				{Key: "bytes", Operand: ">", Target: "100"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "src@a,b|key=k",
			delimiter: "|",
			want: []Filter{
				{Key: "src", Operand: "@", Target: "a,b"},
				{Key: "key", Operand: "=", Target: "k"},
			},
		},
		{
			name: "invalid entries are skipped",
			spec: "nooperator,=missingkey,key=ok",
			want: []Filter{{Key: "key", Operand: "=", Target: "ok"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("CATPRELOAD_FILTER_DELIM", tt.delimiter)
			}
			got := BuildFilters(tt.spec)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	rows := []map[string]any{
		{"key": "catalog_7", "status": "cached", "bytes": int64(2048), "ok": true, "tags": []string{"logo"}},
		{"key": "company_1", "status": "cached", "bytes": int64(90), "ok": true, "tags": []string{}},
		{"key": "company_2", "status": "failed", "bytes": nil, "ok": false, "tags": []string{}},
	}

	tests := []struct {
		name string
		spec string
		want []string
	}{
		{"no filter", "", []string{"catalog_7", "company_1", "company_2"}},
		{"exact", "status=cached", []string{"catalog_7", "company_1"}},
		{"negated", "status!=cached", []string{"company_2"}},
		{"prefix", "key^company_", []string{"company_1", "company_2"}},
		{"case insensitive", "status~CACHED", []string{"catalog_7", "company_1"}},
		{"regex", "key/_[0-9]$", []string{"catalog_7", "company_1", "company_2"}},
		{"numeric greater", "bytes>100", []string{"catalog_7"}},
		{"numeric less", "bytes<100", []string{"company_1"}},
		{"nil value never matches", "bytes!=0", []string{"catalog_7", "company_1"}},
		{"bool", "ok=false", []string{"company_2"}},
		{"contains slice", "tags@logo", []string{"catalog_7"}},
		{"combined", "status=cached,key^company", []string{"company_1"}},
		{"unknown key ignored", "nope=1", []string{"catalog_7", "company_1", "company_2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(rows, tt.spec)
			keys := make([]string, 0, len(got))
			for _, r := range got {
				keys = append(keys, r["key"].(string))
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestCheckNumericOperand_BadTarget(t *testing.T) {
	assert.False(t, checkNumericOperand(1, Filter{Operand: "=", Target: "abc"}))
	assert.False(t, checkNumericOperand(1, Filter{Operand: "^", Target: "1"}))
}

func TestCheckStringOperand_BadRegex(t *testing.T) {
	assert.False(t, checkStringOperand("x", Filter{Operand: "/", Target: "("}))
}

func TestCheckContainsOperand(t *testing.T) {
	assert.True(t, checkContainsOperand(map[string]any{"a": 1}, Filter{Target: "a"}))
	assert.False(t, checkContainsOperand(map[string]any{"a": 1}, Filter{Target: "a", Negate: true}))
	assert.True(t, checkContainsOperand([]any{"x"}, Filter{Target: "x"}))
	assert.True(t, checkContainsOperand([]any{"x"}, Filter{Target: "y", Negate: true}))
	assert.False(t, checkContainsOperand(42, Filter{Target: "y"}))
}
