package fakturoid

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// InvoiceFilter narrows invoice listings. Zero values are omitted from the
// query string.
type InvoiceFilter struct {
	Status    string
	SubjectID int64
	Since     string
	Until     string
	Number    string
}

func (f InvoiceFilter) query() url.Values {
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

// ListInvoices returns invoices matching the filter, draining up to
// maxPages pages (0 = all).
func (c *Client) ListInvoices(ctx context.Context, filter InvoiceFilter, maxPages int) ([]Invoice, error) {
	return listAll[Invoice](ctx, c, "/invoices.json", filter.query(), maxPages)
}

// SearchInvoices runs a fulltext search over invoices.
func (c *Client) SearchInvoices(ctx context.Context, query string, maxPages int) ([]Invoice, error) {
	q := url.Values{}
	q.Set("query", query)
	return listAll[Invoice](ctx, c, "/invoices/search.json", q, maxPages)
}

// GetInvoice returns a single invoice by id.
func (c *Client) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	if err := c.get(ctx, fmt.Sprintf("/invoices/%d.json", id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvoice creates an invoice and returns the stored record.
func (c *Client) CreateInvoice(ctx context.Context, invoice Invoice) (*Invoice, error) {
	var created Invoice
	if err := c.post(ctx, "/invoices.json", invoice, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateInvoice applies a partial update and returns the stored record.
func (c *Client) UpdateInvoice(ctx context.Context, id int64, invoice Invoice) (*Invoice, error) {
	var updated Invoice
	if err := c.patch(ctx, fmt.Sprintf("/invoices/%d.json", id), invoice, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteInvoice removes an invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/invoices/%d.json", id))
}

// FireInvoice triggers a state transition on an invoice, e.g. "deliver",
// "pay", "cancel", "lock".
func (c *Client) FireInvoice(ctx context.Context, id int64, event string) error {
	q := url.Values{}
	q.Set("event", event)
	_, err := c.request(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/fire.json", id), nil, q)
	return err
}

// DownloadInvoicePDF returns the rendered PDF bytes for an invoice.
// Fakturoid responds 204 while the PDF is still being generated; callers
// should retry shortly when the returned slice is empty.
func (c *Client) DownloadInvoicePDF(ctx context.Context, id int64) ([]byte, error) {
	return c.request(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d/download.pdf", id), nil, nil)
}
