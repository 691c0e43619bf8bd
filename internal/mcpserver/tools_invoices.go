package mcpserver

import (
	"context"
	"encoding/base64"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// ListInvoicesInput holds parameters for fakturoid_list_invoices.
type ListInvoicesInput struct {
	Status    string `json:"status,omitempty" jsonschema:"invoice status filter: open, sent, overdue, paid, cancelled"`
	SubjectID int64  `json:"subject_id,omitempty" jsonschema:"only invoices for this subject id"`
	Since     string `json:"since,omitempty" jsonschema:"only invoices created at or after this ISO 8601 timestamp"`
	Until     string `json:"until,omitempty" jsonschema:"only invoices created at or before this ISO 8601 timestamp"`
	MaxPages  int    `json:"max_pages,omitempty" jsonschema:"page fetch limit (40 invoices per page), defaults to 5"`
}

// SearchInvoicesInput holds parameters for fakturoid_search_invoices.
type SearchInvoicesInput struct {
	Query    string `json:"query" jsonschema:"required,fulltext search query"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"page fetch limit, defaults to 5"`
}

// InvoiceIDInput identifies one invoice.
type InvoiceIDInput struct {
	ID int64 `json:"id" jsonschema:"required,invoice id"`
}

// CreateInvoiceInput holds the invoice payload for fakturoid_create_invoice.
type CreateInvoiceInput struct {
	Invoice fakturoid.Invoice `json:"invoice" jsonschema:"required,invoice payload; subject_id and lines are required by Fakturoid"`
}

// UpdateInvoiceInput holds a partial update for fakturoid_update_invoice.
type UpdateInvoiceInput struct {
	ID      int64             `json:"id" jsonschema:"required,invoice id"`
	Invoice fakturoid.Invoice `json:"invoice" jsonschema:"required,fields to change"`
}

// FireInvoiceInput triggers an invoice state transition.
type FireInvoiceInput struct {
	ID    int64  `json:"id" jsonschema:"required,invoice id"`
	Event string `json:"event" jsonschema:"required,transition event: deliver, pay, pay_proforma, pay_partial_proforma, remove_payment, lock, unlock, cancel, undo_cancel"`
}

func registerInvoiceTools(server *mcp.Server, client *fakturoid.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_invoices",
		Description: "List invoices with optional status/subject/date filters. Returns up to 40 invoices per page.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ListInvoicesInput) (*mcp.CallToolResult, []fakturoid.Invoice, error) {
		invoices, err := client.ListInvoices(ctx, fakturoid.InvoiceFilter{
			Status:    input.Status,
			SubjectID: input.SubjectID,
			Since:     input.Since,
			Until:     input.Until,
		}, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(invoices), invoices, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_search_invoices",
		Description: "Fulltext search across invoices (numbers, subject names, line items, notes).",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInvoicesInput) (*mcp.CallToolResult, []fakturoid.Invoice, error) {
		invoices, err := client.SearchInvoices(ctx, input.Query, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(invoices), invoices, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_get_invoice",
		Description: "Get one invoice with all lines and totals by id.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input InvoiceIDInput) (*mcp.CallToolResult, *fakturoid.Invoice, error) {
		invoice, err := client.GetInvoice(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(invoice), invoice, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_invoice",
		Description: "Create a new invoice. Requires subject_id and at least one line with name and unit_price.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateInvoiceInput) (*mcp.CallToolResult, *fakturoid.Invoice, error) {
		invoice, err := client.CreateInvoice(ctx, input.Invoice)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(invoice), invoice, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_update_invoice",
		Description: "Update fields of an existing invoice. Only the provided fields change.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInvoiceInput) (*mcp.CallToolResult, *fakturoid.Invoice, error) {
		invoice, err := client.UpdateInvoice(ctx, input.ID, input.Invoice)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(invoice), invoice, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_delete_invoice",
		Description: "Permanently delete an invoice.",
		Annotations: destructiveAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input InvoiceIDInput) (*mcp.CallToolResult, any, error) {
		if err := client.DeleteInvoice(ctx, input.ID); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"deleted": input.ID}), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_fire_invoice",
		Description: "Trigger an invoice state transition such as marking it paid, delivered, locked, or cancelled.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input FireInvoiceInput) (*mcp.CallToolResult, any, error) {
		if err := client.FireInvoice(ctx, input.ID, input.Event); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"id": input.ID, "event": input.Event}), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_invoice_pdf",
		Description: "Download the invoice PDF. Returns base64-encoded bytes; empty while Fakturoid is still rendering, retry shortly.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input InvoiceIDInput) (*mcp.CallToolResult, any, error) {
		pdf, err := client.DownloadInvoicePDF(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(pdf) == 0 {
			return textResult(map[string]any{"status": "pending", "detail": "PDF still rendering, retry shortly"}), nil, nil
		}
		encoded := base64.StdEncoding.EncodeToString(pdf)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: encoded}},
		}, nil, nil
	})
}
