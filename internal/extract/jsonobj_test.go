package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONObject_Plain(t *testing.T) {
	raw, err := parseJSONObject(`{"a": 1}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestParseJSONObject_CodeFence(t *testing.T) {
	raw, err := parseJSONObject("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestParseJSONObject_SurroundingCommentary(t *testing.T) {
	raw, err := parseJSONObject("Here is the result:\n{\"a\": {\"b\": 2}}\nHope that helps!")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": 2}}`, string(raw))
}

func TestParseJSONObject_NoObject(t *testing.T) {
	_, err := parseJSONObject("no json here")
	assert.Error(t, err)
}

func TestParseJSONObject_InvalidJSON(t *testing.T) {
	_, err := parseJSONObject(`{"a": }`)
	assert.Error(t, err)
}
