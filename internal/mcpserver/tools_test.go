package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTextResult(t *testing.T) {
	result := textResult(map[string]any{"id": 7, "number": "2026-0007"})

	assert.False(t, result.IsError)
	body := textOf(t, result)
	assert.Contains(t, body, `"id": 7`)
	assert.Contains(t, body, `"number": "2026-0007"`)
}

func TestToolError(t *testing.T) {
	t.Run("validation error names the fields", func(t *testing.T) {
		err := &fakturoid.InvalidDataError{
			StatusCode: 422,
			Status:     "422 Unprocessable Entity",
			Fields:     map[string][]string{"lines": {"can't be blank"}},
		}

		result := toolError(err)
		assert.True(t, result.IsError)
		body := textOf(t, result)
		assert.Contains(t, body, "rejected the data")
		assert.Contains(t, body, "lines: can't be blank")
	})

	t.Run("api error keeps the provider code", func(t *testing.T) {
		err := &fakturoid.APIError{StatusCode: 402, Status: "402 Payment Required", Code: "blocked_account"}

		result := toolError(err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), "blocked_account")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		result := toolError(errors.New("connection refused"))
		assert.True(t, result.IsError)
		assert.Equal(t, "connection refused", textOf(t, result))
	})
}

func TestPagesOrDefault(t *testing.T) {
	assert.Equal(t, defaultMaxPages, pagesOrDefault(0))
	assert.Equal(t, defaultMaxPages, pagesOrDefault(-1))
	assert.Equal(t, 10, pagesOrDefault(10))
}
