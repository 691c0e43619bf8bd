package fakturoid

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	t.Run("error key wins over errors", func(t *testing.T) {
		err := classifyError(403, "403 Forbidden", []byte(`{"error":"blocked_account","errors":{"x":["y"]}}`))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "blocked_account", apiErr.Code)
	})

	t.Run("errors must be an object", func(t *testing.T) {
		err := classifyError(422, "422 Unprocessable Entity", []byte(`{"errors":["not a map"]}`))
		var unexpErr *UnexpectedError
		assert.ErrorAs(t, err, &unexpErr)
	})

	t.Run("empty body", func(t *testing.T) {
		err := classifyError(503, "503 Service Unavailable", nil)
		var unexpErr *UnexpectedError
		require.ErrorAs(t, err, &unexpErr)
		assert.Equal(t, 503, unexpErr.StatusCode)
	})
}

func TestErrorMessages(t *testing.T) {
	apiErr := &APIError{StatusCode: 401, Status: "401 Unauthorized", Code: "invalid_token", Description: "expired"}
	assert.Equal(t, "API error 401 401 Unauthorized: invalid_token (expired)", apiErr.Error())

	apiErr.Description = ""
	assert.Equal(t, "API error 401 401 Unauthorized: invalid_token", apiErr.Error())

	dataErr := &InvalidDataError{
		StatusCode: 422,
		Status:     "422 Unprocessable Entity",
		Fields: map[string][]string{
			"name":  {"can't be blank"},
			"lines": {"too long", "invalid"},
		},
	}
	// Field names sort deterministically.
	assert.Equal(t,
		"invalid data 422 422 Unprocessable Entity: lines: too long; invalid, name: can't be blank",
		dataErr.Error(),
	)
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&APIError{StatusCode: http.StatusTooManyRequests}, true},
		{&InvalidDataError{StatusCode: http.StatusTooManyRequests}, true},
		{&UnexpectedError{StatusCode: http.StatusTooManyRequests}, true},
		{&APIError{StatusCode: http.StatusUnauthorized}, false},
		{&UnexpectedError{StatusCode: http.StatusBadGateway}, false},
		{fmt.Errorf("wrapped: %w", &APIError{StatusCode: http.StatusTooManyRequests}), true},
		{fmt.Errorf("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRateLimited(tt.err), "err=%v", tt.err)
	}
}
