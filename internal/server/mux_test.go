package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookielab/fakturoid-mcp/internal/auth"
)

// newTestMux wires a mux against a fake Fakturoid issuing tokens for user
// id 42. The MCP handler echoes the user bound to the request context.
func newTestMux(t *testing.T) (*http.ServeMux, *Sessions) {
	t.Helper()

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			w.Write([]byte(`{"access_token":"tok1","expires_in":3600,"refresh_token":"ref1"}`))
		case "/user.json":
			w.Write([]byte(`{"id":42,"email":"a@b.com","full_name":"A B"}`))
		default:
			t.Errorf("unexpected provider request to %s", r.URL.Path)
		}
	}))
	t.Cleanup(provider.Close)

	creds := auth.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AppName:      "fakturoid-mcp-test",
		ContactEmail: "test@example.com",
		BaseURL:      provider.URL,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	strategy := auth.NewOAuthStrategy(creds, auth.NewMemoryTokenStore(), nil, logger)

	sessions := NewSessions()
	t.Cleanup(sessions.Stop)

	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserFromContext(r.Context())
		w.Write([]byte("user:" + userID))
	})

	mux := NewMux(MuxConfig{
		Strategy:   strategy,
		Sessions:   sessions,
		MCPHandler: mcpHandler,
		Logger:     logger,
		ServerURL:  "https://mcp.example.com/",
	})
	return mux, sessions
}

func TestMux_AuthorizeRedirects(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)

	q := loc.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "https://mcp.example.com/oauth/callback", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.NotEmpty(t, q.Get("state"))
}

func TestMux_AuthorizeRejectsPost(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/oauth/authorize", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMux_FullHandshake(t *testing.T) {
	mux, _ := newTestMux(t)

	// Authorize redirect mints the state.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/authorize", nil))
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")

	// Callback exchanges the code and shows the bearer token.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?code=authcode123&state="+state, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "A B")

	m := regexp.MustCompile(`<pre>([0-9a-f]{64})</pre>`).FindStringSubmatch(body)
	require.Len(t, m, 2, "page contains the session token")
	token := m[1]

	// The token now unlocks the MCP endpoint with the user bound.
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:42", rec.Body.String())
}

func TestMux_CallbackRejections(t *testing.T) {
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"provider error param", "/oauth/callback?error=access_denied", http.StatusForbidden},
		{"unknown state", "/oauth/callback?code=x&state=bogus", http.StatusBadRequest},
		{"missing state", "/oauth/callback?code=x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newTestMux(t)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMux_CallbackMissingCode(t *testing.T) {
	mux, sessions := newTestMux(t)
	state := sessions.NewState()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/callback?state="+state, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMux_Bootstrap(t *testing.T) {
	mux, _ := newTestMux(t)

	body := strings.NewReader(`{"user_id":"7","access_token":"preissued"}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/oauth/bootstrap", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Token, 64)

	// The issued session token unlocks the MCP endpoint as that user.
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:7", rec.Body.String())
}

func TestMux_BootstrapRejections(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"GET not allowed", http.MethodGet, "", http.StatusMethodNotAllowed},
		{"broken JSON", http.MethodPost, `{{{`, http.StatusBadRequest},
		{"missing user id", http.MethodPost, `{"access_token":"tok"}`, http.StatusBadRequest},
		{"missing access token", http.MethodPost, `{"user_id":"7"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _ := newTestMux(t)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, "/oauth/bootstrap", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMux_BearerMiddleware(t *testing.T) {
	mux, sessions := newTestMux(t)

	// No Authorization header.
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	// Unknown token.
	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer deadbeef")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token binds the user.
	token := sessions.NewSession("7")
	req = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:7", rec.Body.String())
}
