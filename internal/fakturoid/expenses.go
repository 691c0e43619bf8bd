package fakturoid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Status    string
	SubjectID int64
	Since     string
	Until     string
	Number    string
}

func (f ExpenseFilter) query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.SubjectID != 0 {
		q.Set("subject_id", fmt.Sprintf("%d", f.SubjectID))
	}
	if f.Since != "" {
		q.Set("since", f.Since)
	}
	if f.Until != "" {
		q.Set("until", f.Until)
	}
	if f.Number != "" {
		q.Set("number", f.Number)
	}
	return q
}

// ListExpenses returns expenses matching the filter.
func (c *Client) ListExpenses(ctx context.Context, filter ExpenseFilter, maxPages int) ([]Expense, error) {
	return listAll[Expense](ctx, c, "/expenses.json", filter.query(), maxPages)
}

// SearchExpenses runs a fulltext search over expenses.
func (c *Client) SearchExpenses(ctx context.Context, query string, maxPages int) ([]Expense, error) {
	q := url.Values{}
	q.Set("query", query)
	return listAll[Expense](ctx, c, "/expenses/search.json", q, maxPages)
}

// GetExpense returns a single expense by id.
func (c *Client) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	var exp Expense
	if err := c.get(ctx, fmt.Sprintf("/expenses/%d.json", id), nil, &exp); err != nil {
		return nil, err
	}
	return &exp, nil
}

// CreateExpense creates an expense and returns the stored record.
func (c *Client) CreateExpense(ctx context.Context, expense Expense) (*Expense, error) {
	var created Expense
	if err := c.post(ctx, "/expenses.json", expense, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateExpense applies a partial update and returns the stored record.
func (c *Client) UpdateExpense(ctx context.Context, id int64, expense Expense) (*Expense, error) {
	var updated Expense
	if err := c.patch(ctx, fmt.Sprintf("/expenses/%d.json", id), expense, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteExpense removes an expense.
func (c *Client) DeleteExpense(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/expenses/%d.json", id))
}

// FireExpense triggers a state transition on an expense, e.g. "pay",
// "remove_payment", "lock".
func (c *Client) FireExpense(ctx context.Context, id int64, event string) error {
	q := url.Values{}
	q.Set("event", event)
	_, err := c.request(ctx, http.MethodPost, fmt.Sprintf("/expenses/%d/fire.json", id), nil, q)
	return err
}
