package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			"bare array",
			`[{"index":0,"title":"Film Night"}]`,
			`[{"index":0,"title":"Film Night"}]`,
			true,
		},
		{
			"array with surrounding commentary",
			"Here are the parsed events:\n[{\"index\":0}]\nLet me know if you need more.",
			`[{"index":0}]`,
			true,
		},
		{
			"markdown fenced",
			"```json\n[{\"index\":1}]\n```",
			`[{"index":1}]`,
			true,
		},
		{
			"bracket inside string literal",
			`[{"title":"Quiz [team] Night"}]`,
			`[{"title":"Quiz [team] Night"}]`,
			true,
		},
		{
			"nested arrays",
			`[{"tags":["a","b"]}]`,
			`[{"tags":["a","b"]}]`,
			true,
		},
		{
			"refusal text without array",
			"I cannot process this request.",
			"",
			false,
		},
		{
			"unbalanced bracket only",
			"the [ went nowhere",
			"",
			false,
		},
		{
			"empty array",
			"[]",
			"[]",
			true,
		},
		{
			"skips earlier non-JSON bracket pair",
			`see [1 above, then: [{"index":0}]`,
			`[{"index":0}]`,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONArray(tt.input)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepairJSONTrailingCommas(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"trailing comma in object",
			`[{"a":1,}]`,
			`[{"a":1}]`,
		},
		{
			"trailing comma in array",
			`[1,2,3,]`,
			`[1,2,3]`,
		},
		{
			"trailing comma with whitespace",
			"[{\"a\":1,\n}]",
			"[{\"a\":1\n}]",
		},
		{
			"comma inside string untouched",
			`[{"a":"one, two,"}]`,
			`[{"a":"one, two,"}]`,
		},
		{
			"already valid",
			`[{"a":1}]`,
			`[{"a":1}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}
