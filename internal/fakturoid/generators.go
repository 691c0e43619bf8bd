package fakturoid

import (
	"context"
	"fmt"
)

// ListGenerators returns all invoice templates.
func (c *Client) ListGenerators(ctx context.Context, maxPages int) ([]Generator, error) {
	return listAll[Generator](ctx, c, "/generators.json", nil, maxPages)
}

// GetGenerator returns a single template by id.
func (c *Client) GetGenerator(ctx context.Context, id int64) (*Generator, error) {
	var gen Generator
	if err := c.get(ctx, fmt.Sprintf("/generators/%d.json", id), nil, &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}

// CreateGenerator creates a template and returns the stored record.
func (c *Client) CreateGenerator(ctx context.Context, generator Generator) (*Generator, error) {
	var created Generator
	if err := c.post(ctx, "/generators.json", generator, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateGenerator applies a partial update and returns the stored record.
func (c *Client) UpdateGenerator(ctx context.Context, id int64, generator Generator) (*Generator, error) {
	var updated Generator
	if err := c.patch(ctx, fmt.Sprintf("/generators/%d.json", id), generator, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteGenerator removes a template.
func (c *Client) DeleteGenerator(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/generators/%d.json", id))
}

// ListRecurringGenerators returns all recurring templates.
func (c *Client) ListRecurringGenerators(ctx context.Context, maxPages int) ([]RecurringGenerator, error) {
	return listAll[RecurringGenerator](ctx, c, "/recurring_generators.json", nil, maxPages)
}

// GetRecurringGenerator returns a single recurring template by id.
func (c *Client) GetRecurringGenerator(ctx context.Context, id int64) (*RecurringGenerator, error) {
	var gen RecurringGenerator
	if err := c.get(ctx, fmt.Sprintf("/recurring_generators/%d.json", id), nil, &gen); err != nil {
		return nil, err
	}
	return &gen, nil
}

// CreateRecurringGenerator creates a recurring template.
func (c *Client) CreateRecurringGenerator(ctx context.Context, generator RecurringGenerator) (*RecurringGenerator, error) {
	var created RecurringGenerator
	if err := c.post(ctx, "/recurring_generators.json", generator, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRecurringGenerator applies a partial update.
func (c *Client) UpdateRecurringGenerator(ctx context.Context, id int64, generator RecurringGenerator) (*RecurringGenerator, error) {
	var updated RecurringGenerator
	if err := c.patch(ctx, fmt.Sprintf("/recurring_generators/%d.json", id), generator, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRecurringGenerator removes a recurring template.
func (c *Client) DeleteRecurringGenerator(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/recurring_generators/%d.json", id))
}
