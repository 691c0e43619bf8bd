package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// authorizationScope is the fixed scope requested during the
// authorization-code flow.
const authorizationScope = "email profile"

// Authentication failure modes surfaced to callers. These are never
// retried; the user has to (re-)authorize.
var (
	ErrNoUser         = errors.New("no user bound to request context")
	ErrNoStoredToken  = errors.New("no stored token for user")
	ErrNoRefreshToken = errors.New("token expired and no refresh token available")
)

type userContextKey struct{}

// WithUser returns a context carrying the user whose credentials apply to
// subsequent calls. Identity travels with the request rather than living
// in strategy state, so concurrent requests for different users cannot
// leak credentials into each other.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey{}, userID)
}

// UserFromContext extracts the user bound by WithUser.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userContextKey{}).(string)
	return userID, ok && userID != ""
}

// UserInfo is the identity resolved from GET /user.json after a code
// exchange.
type UserInfo struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ExchangeResult is returned by ExchangeCode to complete the handshake
// with the caller that drove the authorization redirect.
type ExchangeResult struct {
	AccessToken string
	UserID      string
	User        UserInfo
}

// OAuthStrategy manages per-user tokens obtained through the
// authorization-code grant. Records persist in a TokenStore keyed by the
// stringified Fakturoid user id.
type OAuthStrategy struct {
	creds      Credentials
	store      TokenStore
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	// refreshGroup serializes refreshes per user id. Fakturoid rotates
	// refresh tokens, so a losing concurrent refresh would persist a
	// stale record; all concurrent callers share one upstream request.
	refreshGroup singleflight.Group
}

// NewOAuthStrategy creates a multi-tenant authorization-code strategy
// backed by the given token store. If httpClient is nil, a client with a
// 30-second timeout is used.
func NewOAuthStrategy(creds Credentials, store TokenStore, httpClient *http.Client, logger *slog.Logger) *OAuthStrategy {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OAuthStrategy{
		creds:      creds,
		store:      store,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// ContactEmail returns the configured contact address used in User-Agent.
func (s *OAuthStrategy) ContactEmail() string {
	return s.creds.ContactEmail
}

// Headers merges base with Authorization and User-Agent for the user bound
// to ctx.
func (s *OAuthStrategy) Headers(ctx context.Context, base http.Header) (http.Header, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return buildHeaders(s.creds, token, base), nil
}

// AuthorizationURL builds the browser-facing authorization redirect URL.
// Pure string construction, no I/O.
func (s *OAuthStrategy) AuthorizationURL(redirectURI, state string) string {
	q := url.Values{}
	q.Set("client_id", s.creds.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", authorizationScope)
	q.Set("response_type", "code")
	q.Set("state", state)
	return s.creds.BaseURL + "/oauth?" + q.Encode()
}

// AccessToken returns a usable token for the user bound to ctx, refreshing
// through the stored refresh token when the record has expired.
func (s *OAuthStrategy) AccessToken(ctx context.Context) (string, error) {
	userID, ok := UserFromContext(ctx)
	if !ok {
		return "", ErrNoUser
	}

	info, err := s.getToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", fmt.Errorf("user %s: %w", userID, ErrNoStoredToken)
	}

	if !info.Expired(s.now()) {
		return info.AccessToken, nil
	}
	if info.RefreshToken == "" {
		return "", fmt.Errorf("user %s: %w", userID, ErrNoRefreshToken)
	}

	return s.Refresh(ctx)
}

// Refresh exchanges the stored refresh token for a new access token and
// persists the updated record. At most one refresh is in flight per user;
// concurrent callers receive the shared result.
func (s *OAuthStrategy) Refresh(ctx context.Context) (string, error) {
	userID, ok := UserFromContext(ctx)
	if !ok {
		return "", ErrNoUser
	}

	token, err, _ := s.refreshGroup.Do(userID, func() (any, error) {
		return s.refresh(ctx, userID)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (s *OAuthStrategy) refresh(ctx context.Context, userID string) (string, error) {
	prev, err := s.getToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if prev == nil {
		return "", fmt.Errorf("user %s: %w", userID, ErrNoStoredToken)
	}
	if prev.RefreshToken == "" {
		return "", fmt.Errorf("user %s: %w", userID, ErrNoRefreshToken)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", prev.RefreshToken)

	tr, err := s.postTokenForm(ctx, form)
	if err != nil {
		s.logger.Error("token refresh failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	// Carry forward the previous refresh token and email when the
	// provider omits them from the refresh response.
	next := &TokenInfo{
		AccessToken:  tr.AccessToken,
		ExpiresAt:    computeExpiry(s.now(), tr.ExpiresIn),
		RefreshToken: tr.RefreshToken,
		UserEmail:    prev.UserEmail,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = prev.RefreshToken
	}

	if err := s.setToken(ctx, userID, next); err != nil {
		return "", err
	}

	return next.AccessToken, nil
}

// ExchangeCode trades an authorization code for tokens, resolves the user
// identity via /user.json, and persists the resulting record.
func (s *OAuthStrategy) ExchangeCode(ctx context.Context, code, redirectURI string) (*ExchangeResult, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	tr, err := s.postTokenForm(ctx, form)
	if err != nil {
		s.logger.Error("authorization code exchange failed", slog.String("error", err.Error()))
		return nil, err
	}

	user, err := s.fetchUser(ctx, tr.AccessToken)
	if err != nil {
		s.logger.Error("resolving user identity failed", slog.String("error", err.Error()))
		return nil, err
	}

	userID := strconv.FormatInt(user.ID, 10)
	info := &TokenInfo{
		AccessToken:  tr.AccessToken,
		ExpiresAt:    computeExpiry(s.now(), tr.ExpiresIn),
		RefreshToken: tr.RefreshToken,
		UserEmail:    user.Email,
	}
	if err := s.setToken(ctx, userID, info); err != nil {
		return nil, err
	}

	return &ExchangeResult{
		AccessToken: tr.AccessToken,
		UserID:      userID,
		User:        *user,
	}, nil
}

// Bootstrap binds a session to an externally-obtained access token
// without performing the code exchange. A record is persisted only when
// none exists yet for the user, with the default lifetime and no refresh
// token. Returns a context carrying the user.
func (s *OAuthStrategy) Bootstrap(ctx context.Context, userID, accessToken string) (context.Context, error) {
	existing, err := s.getToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		info := &TokenInfo{
			AccessToken: accessToken,
			ExpiresAt:   computeExpiry(s.now(), 0),
		}
		if err := s.setToken(ctx, userID, info); err != nil {
			return nil, err
		}
	}

	return WithUser(ctx, userID), nil
}

// postTokenForm sends a form-encoded request to the token endpoint with
// client Basic auth and parses the response loosely.
func (s *OAuthStrategy) postTokenForm(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.creds.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Authorization", s.creds.basicAuth())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.creds.userAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("token endpoint returned %d %s: %s", resp.StatusCode, resp.Status, body)
	}

	return parseTokenResponse(body, false)
}

// fetchUser resolves the authenticated identity behind an access token.
func (s *OAuthStrategy) fetchUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.creds.BaseURL+"/user.json", nil)
	if err != nil {
		return nil, fmt.Errorf("creating user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", s.creds.userAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting user identity: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading user response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("user endpoint returned %d %s: %s", resp.StatusCode, resp.Status, body)
	}

	var user UserInfo
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decoding user response: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("user response missing id")
	}

	return &user, nil
}

// getToken loads and validates the persisted record for a user. A record
// that fails to deserialize or validate is deleted and reported as absent,
// so storage corruption or schema drift never hard-fails a request.
func (s *OAuthStrategy) getToken(ctx context.Context, userID string) (*TokenInfo, error) {
	value, err := s.store.Get(ctx, userID)
	if errors.Is(err, ErrTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading token for user %s: %w", userID, err)
	}

	var info TokenInfo
	if err := json.Unmarshal(value, &info); err != nil {
		s.selfHeal(ctx, userID, err)
		return nil, nil
	}
	if err := info.validate(); err != nil {
		s.selfHeal(ctx, userID, err)
		return nil, nil
	}

	return &info, nil
}

// selfHeal deletes a corrupt record so the user falls back to
// re-authorization instead of failing on every request.
func (s *OAuthStrategy) selfHeal(ctx context.Context, userID string, cause error) {
	s.logger.Warn("deleting corrupt token record",
		slog.String("user_id", userID),
		slog.String("error", cause.Error()),
	)
	if err := s.store.Delete(ctx, userID); err != nil {
		s.logger.Error("deleting corrupt token record failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// setToken serializes and persists a record, replacing any previous one.
func (s *OAuthStrategy) setToken(ctx context.Context, userID string, info *TokenInfo) error {
	value, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshalling token for user %s: %w", userID, err)
	}
	if err := s.store.Put(ctx, userID, value); err != nil {
		return fmt.Errorf("storing token for user %s: %w", userID, err)
	}
	return nil
}
