package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStruct(t *testing.T) {
	type args struct {
		Query   string `json:"query" description:"What to look for"`
		Count   int    `json:"count,omitempty" description:"How many results"`
		Skipped string `json:"-"`
		hidden  bool
	}

	got := FromStruct(args{})

	assert.Equal(t, "object", got["type"])
	assert.Equal(t, []string{"query"}, got["required"])

	props, ok := got["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Len(t, props, 2)
	assert.Equal(t, map[string]any{
		"type":        "string",
		"description": "What to look for",
	}, props["query"])
	assert.Equal(t, map[string]any{
		"type":        "integer",
		"description": "How many results",
	}, props["count"])
}

func TestFromStruct_NonStruct(t *testing.T) {
	got := FromStruct("not a struct")

	assert.Equal(t, "object", got["type"])
	assert.Empty(t, got["properties"])
	assert.NotContains(t, got, "required")
}

func TestFromStruct_Pointer(t *testing.T) {
	type args struct {
		Topic string `json:"topic"`
	}

	got := FromStruct(&args{})

	assert.Equal(t, []string{"topic"}, got["required"])
}
