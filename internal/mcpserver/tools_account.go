package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// EmptyInput has no parameters.
type EmptyInput struct{}

// ListEventsInput holds parameters for fakturoid_list_events.
type ListEventsInput struct {
	Since    string `json:"since,omitempty" jsonschema:"only events at or after this ISO 8601 timestamp"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"page fetch limit, defaults to 5"`
}

// TodoIDInput identifies one todo.
type TodoIDInput struct {
	ID int64 `json:"id" jsonschema:"required,todo id"`
}

// CreateWebhookInput holds the webhook registration payload.
type CreateWebhookInput struct {
	Webhook fakturoid.Webhook `json:"webhook" jsonschema:"required,registration with webhook_url and events"`
}

// WebhookIDInput identifies one webhook.
type WebhookIDInput struct {
	ID int64 `json:"id" jsonschema:"required,webhook id"`
}

func registerAccountTools(server *mcp.Server, client *fakturoid.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_get_account",
		Description: "Get the account detail: name, VAT mode, currency, default due days, plan.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, *fakturoid.Account, error) {
		account, err := client.GetAccount(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(account), account, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_users",
		Description: "List users who are members of the account.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, []fakturoid.User, error) {
		users, err := client.ListUsers(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(users), users, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_bank_accounts",
		Description: "List the account's bank accounts with pairing settings.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, []fakturoid.BankAccount, error) {
		accounts, err := client.ListBankAccounts(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(accounts), accounts, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_events",
		Description: "List the account audit trail, newest first.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ListEventsInput) (*mcp.CallToolResult, []fakturoid.Event, error) {
		events, err := client.ListEvents(ctx, fakturoid.EventFilter{Since: input.Since}, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(events), events, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_todos",
		Description: "List open todos Fakturoid generated for the account (e.g. unpaired payments).",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MaxPagesInput) (*mcp.CallToolResult, []fakturoid.Todo, error) {
		todos, err := client.ListTodos(ctx, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(todos), todos, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_toggle_todo",
		Description: "Flip a todo between done and open.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TodoIDInput) (*mcp.CallToolResult, *fakturoid.Todo, error) {
		todo, err := client.ToggleTodoCompletion(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(todo), todo, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_webhooks",
		Description: "List registered webhooks.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MaxPagesInput) (*mcp.CallToolResult, []fakturoid.Webhook, error) {
		webhooks, err := client.ListWebhooks(ctx, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(webhooks), webhooks, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_webhook",
		Description: "Register a webhook for account events. Delivery is handled by Fakturoid.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateWebhookInput) (*mcp.CallToolResult, *fakturoid.Webhook, error) {
		webhook, err := client.CreateWebhook(ctx, input.Webhook)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(webhook), webhook, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_delete_webhook",
		Description: "Remove a webhook registration.",
		Annotations: destructiveAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input WebhookIDInput) (*mcp.CallToolResult, any, error) {
		if err := client.DeleteWebhook(ctx, input.ID); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"deleted": input.ID}), nil, nil
	})
}
