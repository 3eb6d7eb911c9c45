package providers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planStep struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale,omitempty"`
	Blocking  bool   `json:"blocking"`
}

func TestSchemaFor(t *testing.T) {
	schema, err := SchemaFor("plan_step", planStep{})
	require.NoError(t, err)

	assert.Equal(t, "plan_step", schema.Name)
	assert.True(t, schema.Strict)
	require.True(t, json.Valid(schema.Schema))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(schema.Schema, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.NotContains(t, doc, "$schema")

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "title")
	assert.Contains(t, props, "rationale")
	assert.Contains(t, props, "blocking")
}
