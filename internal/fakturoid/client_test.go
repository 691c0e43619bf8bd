package fakturoid

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticStrategy satisfies auth.Strategy with a fixed token.
type staticStrategy struct {
	token string
}

func (s *staticStrategy) AccessToken(context.Context) (string, error) { return s.token, nil }
func (s *staticStrategy) Refresh(context.Context) (string, error)     { return s.token, nil }
func (s *staticStrategy) ContactEmail() string                        { return "test@example.com" }

func (s *staticStrategy) Headers(_ context.Context, base http.Header) (http.Header, error) {
	headers := make(http.Header, len(base)+2)
	for k, v := range base {
		headers[k] = v
	}
	headers.Set("Authorization", "Bearer "+s.token)
	headers.Set("User-Agent", "fakturoid-mcp-test (test@example.com)")
	return headers, nil
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(&staticStrategy{token: "tok"}, srv.URL, "testslug", srv.Client(), logger)
}

func TestClient_EndpointURL(t *testing.T) {
	c := NewClient(&staticStrategy{}, "https://app.fakturoid.cz/api/v3/", "acme", nil, nil)

	assert.Equal(t,
		"https://app.fakturoid.cz/api/v3/accounts/acme/invoices.json",
		c.endpointURL("/invoices.json", nil),
	)
	assert.Equal(t,
		"https://app.fakturoid.cz/api/v3/user.json",
		c.endpointURL("user.json", nil),
	)

	q := url.Values{}
	q.Set("page", "2")
	assert.Equal(t,
		"https://app.fakturoid.cz/api/v3/accounts/acme/invoices.json?page=2",
		c.endpointURL("/invoices.json", q),
	)
}

func TestClient_RequestHeaders(t *testing.T) {
	var gotAuth, gotAgent, gotType string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	})

	_, err := c.request(context.Background(), http.MethodGet, "/invoices.json", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "fakturoid-mcp-test (test@example.com)", gotAgent)
	assert.Empty(t, gotType, "no Content-Type without a body")

	_, err = c.request(context.Background(), http.MethodPost, "/invoices.json", map[string]string{"a": "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotType)
}

func TestClient_RequestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "general error shape",
			status: http.StatusUnauthorized,
			body:   `{"error":"invalid_token","error_description":"expired"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, 401, apiErr.StatusCode)
				assert.Equal(t, "invalid_token", apiErr.Code)
				assert.Equal(t, "expired", apiErr.Description)
			},
		},
		{
			name:   "validation error shape",
			status: http.StatusUnprocessableEntity,
			body:   `{"errors":{"name":["can't be blank"],"lines":["too long","invalid"]}}`,
			check: func(t *testing.T, err error) {
				var dataErr *InvalidDataError
				require.ErrorAs(t, err, &dataErr)
				assert.Equal(t, 422, dataErr.StatusCode)
				assert.Equal(t, []string{"can't be blank"}, dataErr.Fields["name"])
				assert.Equal(t, []string{"too long", "invalid"}, dataErr.Fields["lines"])
			},
		},
		{
			name:   "unrecognized body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			check: func(t *testing.T, err error) {
				var unexpErr *UnexpectedError
				require.ErrorAs(t, err, &unexpErr)
				assert.Equal(t, 502, unexpErr.StatusCode)
				assert.Contains(t, unexpErr.Body, "bad gateway")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.request(context.Background(), http.MethodGet, "/invoices.json", nil, nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_RequestRetriesRateLimit(t *testing.T) {
	slept := captureSleeps(t)

	attempts := 0
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate_limited"}`))
			return
		}
		w.Write([]byte(`{"id":7}`))
	})

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, c.get(context.Background(), "/invoices/7.json", nil, &out))
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestClient_RequestGivesUpAfterRetries(t *testing.T) {
	captureSleeps(t)

	attempts := 0
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate_limited"}`))
	})

	_, err := c.request(context.Background(), http.MethodGet, "/invoices.json", nil, nil)
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.Equal(t, 4, attempts)
}

func TestClient_RequestJSONEmptyBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	require.NoError(t, c.requestJSON(context.Background(), http.MethodDelete, "/invoices/1.json", nil, nil, &out))
	assert.Nil(t, out)
}

func TestClient_GetInvoice(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/testslug/invoices/7.json", r.URL.Path)
		w.Write([]byte(`{"id":7,"number":"2026-0007","total":"1210.00"}`))
	})

	inv, err := c.GetInvoice(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), inv.ID)
	assert.Equal(t, "2026-0007", inv.Number)
	assert.Equal(t, "1210.00", inv.Total)
}

func TestClient_FireInvoice(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/testslug/invoices/7/fire.json", r.URL.Path)
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.FireInvoice(context.Background(), 7, "pay"))
	assert.Equal(t, "pay", gotQuery.Get("event"))
}
