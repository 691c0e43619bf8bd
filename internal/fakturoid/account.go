package fakturoid

import (
	"context"
	"fmt"
	"net/url"
)

// GetAccount returns the account detail record.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	var acct Account
	if err := c.get(ctx, "/account.json", nil, &acct); err != nil {
		return nil, err
	}
	return &acct, nil
}

// CurrentUser returns the identity behind the active credentials. This is
// one of the few account-independent endpoints.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "user.json", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all members of the account.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/users.json", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListBankAccounts returns the account's configured bank accounts.
func (c *Client) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	var accounts []BankAccount
	if err := c.get(ctx, "/bank_accounts.json", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// ListNumberFormats returns the invoice numbering schemes.
func (c *Client) ListNumberFormats(ctx context.Context) ([]NumberFormat, error) {
	var formats []NumberFormat
	if err := c.get(ctx, "/number_formats/invoices.json", nil, &formats); err != nil {
		return nil, err
	}
	return formats, nil
}

// EventFilter narrows event listings.
type EventFilter struct {
	Since string
}

// ListEvents returns audit trail entries, newest first.
func (c *Client) ListEvents(ctx context.Context, filter EventFilter, maxPages int) ([]Event, error) {
	q := url.Values{}
	if filter.Since != "" {
		q.Set("since", filter.Since)
	}
	return listAll[Event](ctx, c, "/events.json", q, maxPages)
}

// ListTodos returns open actionable items for the account.
func (c *Client) ListTodos(ctx context.Context, maxPages int) ([]Todo, error) {
	return listAll[Todo](ctx, c, "/todos.json", nil, maxPages)
}

// ToggleTodoCompletion flips a todo between done and open.
func (c *Client) ToggleTodoCompletion(ctx context.Context, id int64) (*Todo, error) {
	var todo Todo
	if err := c.post(ctx, fmt.Sprintf("/todos/%d/toggle_completion.json", id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}
