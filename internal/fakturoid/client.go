// Package fakturoid is a client for the Fakturoid v3 REST API. It builds
// authenticated requests through an auth.Strategy, discriminates the API's
// error shapes, paginates list endpoints, and retries rate-limited calls.
package fakturoid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cookielab/fakturoid-mcp/internal/auth"
)

const (
	// DefaultBaseURL is the production Fakturoid API root.
	DefaultBaseURL = "https://app.fakturoid.cz/api/v3"

	// httpClientTimeout is the timeout for the default HTTP client used
	// when no custom client is provided.
	httpClientTimeout = 30 * time.Second

	// maxResponseBytes caps response body reads. Covers JSON payloads and
	// PDF downloads alike.
	maxResponseBytes = 16 * 1024 * 1024
)

// Client talks to the Fakturoid REST API on behalf of one account slug.
type Client struct {
	httpClient *http.Client
	strategy   auth.Strategy
	baseURL    string
	slug       string
	logger     *slog.Logger
}

// NewClient creates an API client. If httpClient is nil, a client with a
// 30-second timeout is used.
func NewClient(strategy auth.Strategy, baseURL, slug string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpClientTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		strategy:   strategy,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		slug:       slug,
		logger:     logger,
	}
}

// Slug returns the account slug this client operates on.
func (c *Client) Slug() string {
	return c.slug
}

// endpointURL resolves an endpoint against the account base path.
// Endpoints starting with "/" are account-scoped
// ({base}/accounts/{slug}{endpoint}); the rare account-independent
// endpoints (e.g. user.json) pass straight through.
func (c *Client) endpointURL(endpoint string, query url.Values) string {
	u := c.baseURL + "/accounts/" + c.slug + endpoint
	if !strings.HasPrefix(endpoint, "/") {
		u = c.baseURL + "/" + endpoint
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// request issues an authenticated API call and returns the raw response
// body, retrying rate-limited responses with backoff. Fakturoid rejects a
// 429'd request before processing it, so the retry is safe for every
// method. Non-2xx responses are classified into the typed error taxonomy.
// 2xx bodies pass through as-is: JSON for regular endpoints, binary for
// PDF downloads, empty for DELETE and fire-action responses.
func (c *Client) request(ctx context.Context, method, endpoint string, body any, query url.Values) ([]byte, error) {
	return WithRetry(ctx, func(ctx context.Context) ([]byte, error) {
		return c.do(ctx, method, endpoint, body, query)
	}, DefaultMaxRetries)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, query url.Values) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(endpoint, query), payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	base := make(http.Header)
	if body != nil {
		base.Set("Content-Type", "application/json")
	}
	headers, err := c.strategy.Headers(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("authenticating request: %w", err)
	}
	req.Header = headers

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := classifyError(resp.StatusCode, resp.Status, respBody)
		c.logger.Error("API request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
		)
		return nil, err
	}

	return respBody, nil
}

// requestJSON issues a call and decodes the JSON response into out.
// Pass nil out for endpoints with empty response bodies.
func (c *Client) requestJSON(ctx context.Context, method, endpoint string, body any, query url.Values, out any) error {
	respBody, err := c.request(ctx, method, endpoint, body, query)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

// get is shorthand for a JSON GET.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	return c.requestJSON(ctx, http.MethodGet, endpoint, nil, query, out)
}

// post is shorthand for a JSON POST.
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.requestJSON(ctx, http.MethodPost, endpoint, body, nil, out)
}

// patch is shorthand for a JSON PATCH.
func (c *Client) patch(ctx context.Context, endpoint string, body, out any) error {
	return c.requestJSON(ctx, http.MethodPatch, endpoint, body, nil, out)
}

// delete issues a DELETE, discarding the (empty) response body.
func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.requestJSON(ctx, http.MethodDelete, endpoint, nil, nil, nil)
}
