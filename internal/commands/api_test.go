package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskchain/pmq/internal/output"
)

func TestParseAPIPath(t *testing.T) {
	t.Run("bare path", func(t *testing.T) {
		path, query, err := parseAPIPath([]string{"/api/tasks"})
		require.NoError(t, err)
		assert.Equal(t, "/api/tasks", path)
		assert.Nil(t, query)
	})

	t.Run("leading slash added", func(t *testing.T) {
		path, _, err := parseAPIPath([]string{"api/tasks"})
		require.NoError(t, err)
		assert.Equal(t, "/api/tasks", path)
	})

	t.Run("query params", func(t *testing.T) {
		path, query, err := parseAPIPath([]string{"/api/tasks", "status=pending", "per_page=5"})
		require.NoError(t, err)
		assert.Equal(t, "/api/tasks", path)
		assert.Equal(t, "pending", query.Get("status"))
		assert.Equal(t, "5", query.Get("per_page"))
	})

	t.Run("repeated keys accumulate", func(t *testing.T) {
		_, query, err := parseAPIPath([]string{"/api/tasks", "tag=a", "tag=b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, query["tag"])
	})

	t.Run("empty value allowed", func(t *testing.T) {
		_, query, err := parseAPIPath([]string{"/api/tasks", "q="})
		require.NoError(t, err)
		assert.Equal(t, "", query.Get("q"))
	})

	t.Run("malformed param is a usage error", func(t *testing.T) {
		_, _, err := parseAPIPath([]string{"/api/tasks", "status"})
		require.Error(t, err)
		assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
	})
}

func TestApplyJQ(t *testing.T) {
	input := []any{
		map[string]any{"id": 1.0, "name": "First"},
		map[string]any{"id": 2.0, "name": "Second"},
	}

	t.Run("single output returned bare", func(t *testing.T) {
		got, err := applyJQ("length", input)
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("multiple outputs collected into array", func(t *testing.T) {
		got, err := applyJQ(".[].name", input)
		require.NoError(t, err)
		assert.Equal(t, []any{"First", "Second"}, got)
	})

	t.Run("object field access", func(t *testing.T) {
		got, err := applyJQ(".[0].name", input)
		require.NoError(t, err)
		assert.Equal(t, "First", got)
	})

	t.Run("no output yields nil", func(t *testing.T) {
		got, err := applyJQ(".[] | select(.id > 10)", input)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("parse error is a usage error", func(t *testing.T) {
		_, err := applyJQ(".[", input)
		require.Error(t, err)
		assert.Equal(t, output.CodeUsage, output.AsError(err).Code)
	})

	t.Run("runtime error surfaces", func(t *testing.T) {
		_, err := applyJQ(".foo", []any{"not an object"})
		require.Error(t, err)
	})
}

func TestAPISummary(t *testing.T) {
	assert.Equal(t, "GET /api/tasks (2 items)", apiSummary("GET", "/api/tasks", []byte(`[{},{}]`)))
	assert.Equal(t, "POST /api/tasks", apiSummary("POST", "/api/tasks", []byte(`{"id":1}`)))
}
