package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxTokenResponseBytes caps token endpoint body reads. Token responses
// are small JSON payloads.
const maxTokenResponseBytes = 64 * 1024

// LocalStrategy authenticates the whole process as a single OAuth client
// via the client-credentials grant. One in-memory token, lazily minted on
// first use and replaced wholesale on every refresh.
type LocalStrategy struct {
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time

	// refreshGroup collapses concurrent refresh attempts into a single
	// upstream request. The grant is idempotent, but duplicate round trips
	// are wasted work.
	refreshGroup singleflight.Group
}

// NewLocalStrategy creates a client-credentials strategy. If httpClient is
// nil, a client with a 30-second timeout is used.
func NewLocalStrategy(creds Credentials, httpClient *http.Client, logger *slog.Logger) *LocalStrategy {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LocalStrategy{
		creds:      creds,
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// ContactEmail returns the configured contact address used in User-Agent.
func (s *LocalStrategy) ContactEmail() string {
	return s.creds.ContactEmail
}

// Headers merges base with Authorization and User-Agent, acquiring a valid
// access token first.
func (s *LocalStrategy) Headers(ctx context.Context, base http.Header) (http.Header, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return buildHeaders(s.creds, token, base), nil
}

// AccessToken returns the cached token when it is still within its expiry
// window, otherwise mints a new one.
func (s *LocalStrategy) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.accessToken != "" && s.tokenExpiry.After(s.now()) {
		token := s.accessToken
		s.mu.Unlock()
		return token, nil
	}
	s.accessToken = ""
	s.tokenExpiry = time.Time{}
	s.mu.Unlock()

	return s.Refresh(ctx)
}

// Refresh mints a new token via the client-credentials grant and replaces
// the cached one. Concurrent callers share a single upstream request.
func (s *LocalStrategy) Refresh(ctx context.Context) (string, error) {
	token, err, _ := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (s *LocalStrategy) refresh(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"grant_type": "client_credentials"})
	if err != nil {
		return "", fmt.Errorf("marshalling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.creds.BaseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Authorization", s.creds.basicAuth())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.creds.userAgent())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("token refresh request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("requesting client credentials token: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("token endpoint returned %d %s: %s", resp.StatusCode, resp.Status, respBody)
		s.logger.Error("token refresh rejected", slog.Int("status", resp.StatusCode))
		return "", err
	}

	tr, err := parseTokenResponse(respBody, true)
	if err != nil {
		s.logger.Error("malformed token response", slog.String("error", err.Error()))
		return "", err
	}

	s.mu.Lock()
	s.accessToken = tr.AccessToken
	s.tokenExpiry = computeExpiry(s.now(), tr.ExpiresIn)
	s.mu.Unlock()

	return tr.AccessToken, nil
}
