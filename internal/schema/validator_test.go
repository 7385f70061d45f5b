package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var argSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id":   map[string]any{"type": "string"},
		"tail": map[string]any{"type": "integer"},
	},
	"required":             []string{"id"},
	"additionalProperties": false,
}

func TestValidateAccepts(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(argSchema, `{"id": "abc", "tail": 5}`))
	assert.NoError(t, v.Validate(argSchema, `{"id": "abc"}`))
}

func TestValidateRejects(t *testing.T) {
	v := NewValidator()

	err := v.Validate(argSchema, `{"tail": 5}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id")

	assert.Error(t, v.Validate(argSchema, `{"id": "abc", "extra": true}`))
	assert.Error(t, v.Validate(argSchema, `{"id": 42}`))
}

func TestValidateBadDocument(t *testing.T) {
	v := NewValidator()
	assert.Error(t, v.Validate(argSchema, `{not json`))
}

func TestValidateCachesCompiledSchemas(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(argSchema, `{"id": "a"}`))
	require.NoError(t, v.Validate(argSchema, `{"id": "b"}`))

	count := 0
	v.cache.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
}
