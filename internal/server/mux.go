package server

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cookielab/fakturoid-mcp/internal/auth"
)

// maxBootstrapBytes caps the bootstrap request body. It carries one user
// id and one token.
const maxBootstrapBytes = 64 * 1024

// MuxConfig holds dependencies for building the HTTP mux.
type MuxConfig struct {
	Strategy   *auth.OAuthStrategy
	Sessions   *Sessions
	MCPHandler http.Handler
	Logger     *slog.Logger

	// ServerURL is the external URL of this server, used to derive the
	// OAuth redirect URI.
	ServerURL string
}

// NewMux builds the HTTP mux with the Fakturoid OAuth handshake and the
// bearer-protected MCP endpoint.
func NewMux(cfg MuxConfig) *http.ServeMux {
	redirectURI := strings.TrimSuffix(cfg.ServerURL, "/") + "/oauth/callback"

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/authorize", handleAuthorize(cfg, redirectURI))
	mux.HandleFunc("/oauth/callback", handleCallback(cfg, redirectURI))
	mux.HandleFunc("/oauth/bootstrap", handleBootstrap(cfg))
	mux.Handle("/mcp", bearerMiddleware(cfg.Sessions, cfg.Logger)(cfg.MCPHandler))

	return mux
}

// handleAuthorize starts the handshake: mints a state value and redirects
// the browser to Fakturoid's authorization page.
func handleAuthorize(cfg MuxConfig, redirectURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		state := cfg.Sessions.NewState()
		http.Redirect(w, r, cfg.Strategy.AuthorizationURL(redirectURI, state), http.StatusFound)
	}
}

// handleCallback finishes the handshake: verifies state, exchanges the
// code, and shows the newly issued MCP bearer token.
func handleCallback(cfg MuxConfig, redirectURI string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		if errParam := q.Get("error"); errParam != "" {
			cfg.Logger.Warn("authorization denied", slog.String("error", errParam))
			http.Error(w, "authorization denied: "+errParam, http.StatusForbidden)
			return
		}

		if !cfg.Sessions.ConsumeState(q.Get("state")) {
			http.Error(w, "invalid or expired state", http.StatusBadRequest)
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		result, err := cfg.Strategy.ExchangeCode(r.Context(), code, redirectURI)
		if err != nil {
			cfg.Logger.Error("code exchange failed", slog.String("error", err.Error()))
			http.Error(w, "token exchange failed", http.StatusBadGateway)
			return
		}

		token := cfg.Sessions.NewSession(result.UserID)
		cfg.Logger.Info("user authorized",
			slog.String("user_id", result.UserID),
			slog.String("email", result.User.Email),
		)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, successPage, html.EscapeString(result.User.FullName), html.EscapeString(token))
	}
}

// handleBootstrap binds a session to a pre-issued Fakturoid access token,
// skipping the browser handshake. Intended for operators who already hold
// a token for the user; the stored record keeps no refresh token, so the
// session lasts only as long as the supplied token.
func handleBootstrap(cfg MuxConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req struct {
			UserID      string `json:"user_id"`
			AccessToken string `json:"access_token"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBootstrapBytes)).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.AccessToken == "" {
			http.Error(w, "user_id and access_token are required", http.StatusBadRequest)
			return
		}

		if _, err := cfg.Strategy.Bootstrap(r.Context(), req.UserID, req.AccessToken); err != nil {
			cfg.Logger.Error("bootstrap failed",
				slog.String("user_id", req.UserID),
				slog.String("error", err.Error()),
			)
			http.Error(w, "bootstrap failed", http.StatusInternalServerError)
			return
		}

		token := cfg.Sessions.NewSession(req.UserID)
		cfg.Logger.Info("user bootstrapped", slog.String("user_id", req.UserID))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}
}

const successPage = `<!DOCTYPE html>
<html>
<head><title>Connected to Fakturoid</title></head>
<body>
<h1>Connected</h1>
<p>Signed in as %s.</p>
<p>Configure your MCP client with this bearer token:</p>
<pre>%s</pre>
<p>You can close this window.</p>
</body>
</html>
`

// bearerMiddleware validates the MCP session token and binds the resolved
// user to the request context, so every downstream Fakturoid call uses
// that user's credentials. Identity travels per request; nothing is
// shared between concurrent users.
func bearerMiddleware(sessions *Sessions, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				w.Header().Set("WWW-Authenticate", "Bearer")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			userID := sessions.Resolve(strings.TrimPrefix(authHeader, "Bearer "))
			if userID == "" {
				logger.Debug("invalid bearer token", slog.String("path", r.URL.Path))
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx := auth.WithUser(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
