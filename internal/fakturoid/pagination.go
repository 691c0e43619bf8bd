package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

const (
	// pageSize is the fixed Fakturoid list page size. A page shorter than
	// this signals end-of-data.
	pageSize = 40

	// firstPage is where every list endpoint starts. Fakturoid pages are
	// 1-indexed.
	firstPage = 1
)

// Pager iterates a list endpoint one page at a time. Each Pager carries an
// independent cursor; create a new one to restart.
type Pager struct {
	client   *Client
	endpoint string
	query    url.Values
	page     int
	done     bool
}

// paginate creates a pager for an account-scoped list endpoint. Query
// params are copied, so the caller's values are never mutated.
func (c *Client) paginate(endpoint string, query url.Values) *Pager {
	q := make(url.Values, len(query))
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}

	return &Pager{
		client:   c,
		endpoint: endpoint,
		query:    q,
		page:     firstPage,
	}
}

// Next fetches the next page and returns its items. A nil slice with a nil
// error means the sequence is exhausted. Errors terminate the pager.
func (p *Pager) Next(ctx context.Context) ([]json.RawMessage, error) {
	if p.done {
		return nil, nil
	}

	p.query.Set("page", strconv.Itoa(p.page))
	body, err := p.client.request(ctx, http.MethodGet, p.endpoint, nil, p.query)
	if err != nil {
		p.done = true
		return nil, err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		p.done = true
		return nil, fmt.Errorf("expected JSON array from %s page %d", p.endpoint, p.page)
	}

	var items []json.RawMessage
	parsed.ForEach(func(_, value gjson.Result) bool {
		items = append(items, json.RawMessage(value.Raw))
		return true
	})

	p.page++
	if len(items) < pageSize {
		p.done = true
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// AllPages drains a list endpoint into one concatenated slice, stopping
// early after maxPages pages (0 means no limit). The first page-level
// error is propagated along with whatever was collected before it.
func (c *Client) AllPages(ctx context.Context, endpoint string, query url.Values, maxPages int) ([]json.RawMessage, error) {
	pager := c.paginate(endpoint, query)

	var all []json.RawMessage
	for fetched := 0; maxPages == 0 || fetched < maxPages; fetched++ {
		items, err := pager.Next(ctx)
		if err != nil {
			return all, err
		}
		if items == nil {
			break
		}
		all = append(all, items...)
		if pager.done {
			break
		}
	}

	return all, nil
}

// listAll decodes a fully drained list endpoint into a typed slice.
func listAll[T any](ctx context.Context, c *Client, endpoint string, query url.Values, maxPages int) ([]T, error) {
	items, err := c.AllPages(ctx, endpoint, query, maxPages)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, fmt.Errorf("decoding item from %s: %w", endpoint, err)
		}
		out = append(out, v)
	}
	return out, nil
}
