package fakturoid

import (
	"context"
	"fmt"
	"net/url"
)

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	Since string
	Until string
}

func (f SubjectFilter) query() url.Values {
	q := url.Values{}
	if f.Since != "" {
		q.Set("since", f.Since)
	}
	if f.Until != "" {
		q.Set("until", f.Until)
	}
	return q
}

// ListSubjects returns subjects matching the filter.
func (c *Client) ListSubjects(ctx context.Context, filter SubjectFilter, maxPages int) ([]Subject, error) {
	return listAll[Subject](ctx, c, "/subjects.json", filter.query(), maxPages)
}

// SearchSubjects runs a fulltext search over subjects.
func (c *Client) SearchSubjects(ctx context.Context, query string, maxPages int) ([]Subject, error) {
	q := url.Values{}
	q.Set("query", query)
	return listAll[Subject](ctx, c, "/subjects/search.json", q, maxPages)
}

// GetSubject returns a single subject by id.
func (c *Client) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	var subj Subject
	if err := c.get(ctx, fmt.Sprintf("/subjects/%d.json", id), nil, &subj); err != nil {
		return nil, err
	}
	return &subj, nil
}

// CreateSubject creates a subject and returns the stored record.
func (c *Client) CreateSubject(ctx context.Context, subject Subject) (*Subject, error) {
	var created Subject
	if err := c.post(ctx, "/subjects.json", subject, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSubject applies a partial update and returns the stored record.
func (c *Client) UpdateSubject(ctx context.Context, id int64, subject Subject) (*Subject, error) {
	var updated Subject
	if err := c.patch(ctx, fmt.Sprintf("/subjects/%d.json", id), subject, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteSubject removes a subject.
func (c *Client) DeleteSubject(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/subjects/%d.json", id))
}
