package fakturoid

import (
	"context"
	"fmt"
)

// ListWebhooks returns all registered webhooks.
func (c *Client) ListWebhooks(ctx context.Context, maxPages int) ([]Webhook, error) {
	return listAll[Webhook](ctx, c, "/webhooks.json", nil, maxPages)
}

// GetWebhook returns a single webhook by id.
func (c *Client) GetWebhook(ctx context.Context, id int64) (*Webhook, error) {
	var wh Webhook
	if err := c.get(ctx, fmt.Sprintf("/webhooks/%d.json", id), nil, &wh); err != nil {
		return nil, err
	}
	return &wh, nil
}

// CreateWebhook registers a webhook. Delivery is Fakturoid's concern;
// this client only manages registrations.
func (c *Client) CreateWebhook(ctx context.Context, webhook Webhook) (*Webhook, error) {
	var created Webhook
	if err := c.post(ctx, "/webhooks.json", webhook, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWebhook applies a partial update to a registration.
func (c *Client) UpdateWebhook(ctx context.Context, id int64, webhook Webhook) (*Webhook, error) {
	var updated Webhook
	if err := c.patch(ctx, fmt.Sprintf("/webhooks/%d.json", id), webhook, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteWebhook removes a registration.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/webhooks/%d.json", id))
}
