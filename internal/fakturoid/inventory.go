package fakturoid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// InventoryFilter narrows inventory item listings.
type InventoryFilter struct {
	SKU      string
	Archived bool
}

func (f InventoryFilter) query() url.Values {
	q := url.Values{}
	if f.SKU != "" {
		q.Set("sku", f.SKU)
	}
	if f.Archived {
		q.Set("archived", "true")
	}
	return q
}

// ListInventoryItems returns inventory items matching the filter.
func (c *Client) ListInventoryItems(ctx context.Context, filter InventoryFilter, maxPages int) ([]InventoryItem, error) {
	return listAll[InventoryItem](ctx, c, "/inventory_items.json", filter.query(), maxPages)
}

// SearchInventoryItems runs a fulltext search over inventory items.
func (c *Client) SearchInventoryItems(ctx context.Context, query string, maxPages int) ([]InventoryItem, error) {
	q := url.Values{}
	q.Set("query", query)
	return listAll[InventoryItem](ctx, c, "/inventory_items/search.json", q, maxPages)
}

// GetInventoryItem returns a single inventory item by id.
func (c *Client) GetInventoryItem(ctx context.Context, id int64) (*InventoryItem, error) {
	var item InventoryItem
	if err := c.get(ctx, fmt.Sprintf("/inventory_items/%d.json", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateInventoryItem creates an inventory item.
func (c *Client) CreateInventoryItem(ctx context.Context, item InventoryItem) (*InventoryItem, error) {
	var created InventoryItem
	if err := c.post(ctx, "/inventory_items.json", item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInventoryItem applies a partial update.
func (c *Client) UpdateInventoryItem(ctx context.Context, id int64, item InventoryItem) (*InventoryItem, error) {
	var updated InventoryItem
	if err := c.patch(ctx, fmt.Sprintf("/inventory_items/%d.json", id), item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteInventoryItem removes an inventory item.
func (c *Client) DeleteInventoryItem(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/inventory_items/%d.json", id))
}

// ArchiveInventoryItem moves an item into the archive.
func (c *Client) ArchiveInventoryItem(ctx context.Context, id int64) (*InventoryItem, error) {
	var item InventoryItem
	if err := c.requestJSON(ctx, http.MethodPost, fmt.Sprintf("/inventory_items/%d/archive.json", id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UnarchiveInventoryItem restores an archived item.
func (c *Client) UnarchiveInventoryItem(ctx context.Context, id int64) (*InventoryItem, error) {
	var item InventoryItem
	if err := c.requestJSON(ctx, http.MethodPost, fmt.Sprintf("/inventory_items/%d/unarchive.json", id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListInventoryMoves returns stock movements for an inventory item.
func (c *Client) ListInventoryMoves(ctx context.Context, itemID int64, maxPages int) ([]InventoryMove, error) {
	return listAll[InventoryMove](ctx, c, fmt.Sprintf("/inventory_items/%d/inventory_moves.json", itemID), nil, maxPages)
}

// CreateInventoryMove records a stock movement for an inventory item.
func (c *Client) CreateInventoryMove(ctx context.Context, itemID int64, move InventoryMove) (*InventoryMove, error) {
	var created InventoryMove
	if err := c.post(ctx, fmt.Sprintf("/inventory_items/%d/inventory_moves.json", itemID), move, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
