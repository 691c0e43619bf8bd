package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// expiryMargin is subtracted from the provider-declared token lifetime
	// so a token is treated as expired slightly before Fakturoid actually
	// invalidates it. Absorbs clock skew and in-flight request latency.
	expiryMargin = 5 * time.Minute

	// defaultTokenLifetime is assumed when a token response omits
	// expires_in (the authorization-code and refresh grants may).
	defaultTokenLifetime = time.Hour
)

// TokenInfo is the persisted credential record for a single user.
// At most one record exists per user id; refreshes overwrite it wholesale.
type TokenInfo struct {
	AccessToken  string    `json:"access_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
}

// validate gates every deserialization of a stored record. A record that
// fails here is treated as corrupt and self-healed (deleted) by the caller.
func (t *TokenInfo) validate() error {
	if t.AccessToken == "" {
		return fmt.Errorf("stored token record has empty access_token")
	}
	if t.ExpiresAt.IsZero() {
		return fmt.Errorf("stored token record has no expiry")
	}
	return nil
}

// Expired reports whether the record's access token should no longer be
// used. ExpiresAt already includes the expiry margin.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// tokenResponse is the OAuth2 token endpoint response shape.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// parseTokenResponse decodes a token endpoint body. When strict is true
// (client-credentials grant) token_type and a positive expires_in are
// required; the authorization-code and refresh grants only require a
// non-empty access_token.
func parseTokenResponse(body []byte, strict bool) (*tokenResponse, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	if strict {
		if tr.TokenType == "" {
			return nil, fmt.Errorf("token response missing token_type")
		}
		if tr.ExpiresIn <= 0 {
			return nil, fmt.Errorf("token response has non-positive expires_in %d", tr.ExpiresIn)
		}
	}
	return &tr, nil
}

// computeExpiry converts a declared expires_in (seconds, 0 meaning absent)
// into the internal expiry instant, applying the safety margin.
func computeExpiry(now time.Time, expiresIn int) time.Time {
	lifetime := defaultTokenLifetime
	if expiresIn > 0 {
		lifetime = time.Duration(expiresIn) * time.Second
	}
	return now.Add(lifetime - expiryMargin)
}
