package auth

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCreds(baseURL string) Credentials {
	return Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AppName:      "fakturoid-mcp-test",
		ContactEmail: "test@example.com",
		BaseURL:      baseURL,
	}
}

// tokenServer is a fake identity provider counting token requests.
func tokenServer(t *testing.T, calls *atomic.Int32, response string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/token", r.URL.Path)
		calls.Add(1)

		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		assert.Equal(t, expectedAuth, r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "client_credentials", gjson.GetBytes(body, "grant_type").String())

		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLocalStrategy_TokenReuse(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, `{"access_token":"tok1","token_type":"Bearer","expires_in":3600}`, http.StatusOK)

	s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())

	tok, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)

	// Second call within the expiry window must not hit the network.
	tok, err = s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok1", tok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLocalStrategy_ExpiryMargin(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, `{"access_token":"tok1","token_type":"Bearer","expires_in":3600}`, http.StatusOK)

	start := time.Now()
	now := start
	s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())
	s.now = func() time.Time { return now }

	_, err := s.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	// 3299s after issuance: still inside expires_in - 5min, no refresh.
	now = start.Add(3299 * time.Second)
	_, err = s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	// At the margin boundary the token counts as expired.
	now = start.Add(3300 * time.Second)
	_, err = s.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLocalStrategy_RefreshErrorSurfacesStatusAndBody(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, `{"error":"invalid_client"}`, http.StatusUnauthorized)

	s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())

	_, err := s.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid_client")
}

func TestLocalStrategy_RejectsMalformedTokenResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  string
	}{
		{"missing access_token", `{"token_type":"Bearer","expires_in":3600}`, "access_token"},
		{"missing token_type", `{"access_token":"tok","expires_in":3600}`, "token_type"},
		{"zero expires_in", `{"access_token":"tok","token_type":"Bearer","expires_in":0}`, "expires_in"},
		{"not JSON", `<html>oops</html>`, "decoding token response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := tokenServer(t, &calls, tt.response, http.StatusOK)
			s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())

			_, err := s.AccessToken(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocalStrategy_ConcurrentRefreshDeduplicated(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond) // hold concurrent callers in flight
		w.Write([]byte(`{"access_token":"tok1","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)

	s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := s.AccessToken(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "tok1", tok)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestLocalStrategy_Headers(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, &calls, `{"access_token":"tok1","token_type":"Bearer","expires_in":3600}`, http.StatusOK)

	s := NewLocalStrategy(testCreds(srv.URL), nil, testLogger())

	base := make(http.Header)
	base.Set("Content-Type", "application/json")

	headers, err := s.Headers(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", headers.Get("Authorization"))
	assert.Equal(t, "fakturoid-mcp-test (test@example.com)", headers.Get("User-Agent"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))

	// The base header map must not be mutated.
	assert.Empty(t, base.Get("Authorization"))
}
