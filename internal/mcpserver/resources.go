package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// RegisterResources adds curated read-only resources to the MCP server.
// Resources are stable account context an agent typically needs once per
// conversation, as opposed to the parameterized tools.
func RegisterResources(server *mcp.Server, client *fakturoid.Client) {
	server.AddResource(&mcp.Resource{
		URI:         "fakturoid://account",
		Name:        "account",
		Description: "Account detail: name, VAT mode, currency, default due days.",
		MIMEType:    "application/json",
	}, jsonResource("fakturoid://account", func(ctx context.Context) (any, error) {
		return client.GetAccount(ctx)
	}))

	server.AddResource(&mcp.Resource{
		URI:         "fakturoid://bank_accounts",
		Name:        "bank_accounts",
		Description: "Configured bank accounts with numbers and pairing settings.",
		MIMEType:    "application/json",
	}, jsonResource("fakturoid://bank_accounts", func(ctx context.Context) (any, error) {
		return client.ListBankAccounts(ctx)
	}))

	server.AddResource(&mcp.Resource{
		URI:         "fakturoid://number_formats",
		Name:        "number_formats",
		Description: "Invoice numbering schemes configured on the account.",
		MIMEType:    "application/json",
	}, jsonResource("fakturoid://number_formats", func(ctx context.Context) (any, error) {
		return client.ListNumberFormats(ctx)
	}))

	server.AddResource(&mcp.Resource{
		URI:         "fakturoid://users",
		Name:        "users",
		Description: "Members of the account and their permission levels.",
		MIMEType:    "application/json",
	}, jsonResource("fakturoid://users", func(ctx context.Context) (any, error) {
		return client.ListUsers(ctx)
	}))
}

// jsonResource adapts a fetch function to the SDK's resource handler,
// rendering the result as indented JSON.
func jsonResource(uri string, fetch func(ctx context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", uri, err)
		}

		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
