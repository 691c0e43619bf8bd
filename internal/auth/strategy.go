// Package auth implements the Fakturoid OAuth2 token lifecycle.
// Two strategies satisfy the same contract: LocalStrategy authenticates
// the process itself via the client-credentials grant, OAuthStrategy
// manages per-user tokens obtained through the authorization-code grant.
package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
)

// Strategy is the capability set every authenticated HTTP call depends on.
// AccessToken must return a token valid for immediate use or fail; Refresh
// unconditionally contacts the identity provider for a fresh token.
type Strategy interface {
	AccessToken(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
	ContactEmail() string
	Headers(ctx context.Context, base http.Header) (http.Header, error)
}

// Credentials holds the OAuth client identity plus the metadata Fakturoid's
// usage policy requires on every request.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AppName      string
	ContactEmail string

	// BaseURL is the Fakturoid API root, e.g. https://app.fakturoid.cz/api/v3.
	BaseURL string
}

// basicAuth returns the Authorization header value for the token endpoint.
func (c Credentials) basicAuth() string {
	encoded := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	return "Basic " + encoded
}

// userAgent builds the User-Agent string Fakturoid requires:
// "<appName> (<contactEmail>)".
func (c Credentials) userAgent() string {
	return fmt.Sprintf("%s (%s)", c.AppName, c.ContactEmail)
}

// buildHeaders merges base headers with Authorization and User-Agent.
// The base headers are not mutated.
func buildHeaders(creds Credentials, token string, base http.Header) http.Header {
	h := make(http.Header, len(base)+2)
	for k, v := range base {
		h[k] = append([]string(nil), v...)
	}
	h.Set("Authorization", "Bearer "+token)
	h.Set("User-Agent", creds.userAgent())
	return h
}
