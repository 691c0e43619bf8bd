// Package mcpserver registers MCP tools, resources, and prompts that
// expose the Fakturoid API. It adapts the fakturoid client to the MCP
// SDK's handler interfaces.
package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// defaultMaxPages bounds list tools so a single tool call cannot drain an
// arbitrarily large account. Callers can raise it per call.
const defaultMaxPages = 5

// RegisterTools adds all Fakturoid tools to the given MCP server.
func RegisterTools(server *mcp.Server, client *fakturoid.Client) {
	registerInvoiceTools(server, client)
	registerExpenseTools(server, client)
	registerSubjectTools(server, client)
	registerCatalogTools(server, client)
	registerAccountTools(server, client)
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations marks tools that never mutate account data.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
	}
}

// destructiveAnnotations marks delete tools.
func destructiveAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
	}
}

// textResult builds a CallToolResult with JSON text content from any
// value, alongside the structured output the SDK populates automatically.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("error marshaling result: %v", err)}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// toolError translates a pipeline error into a tool-level error result so
// the agent sees a readable message instead of a protocol failure. The
// error taxonomy matters to agents: validation failures name the fields
// to fix, API errors name the provider's rejection.
func toolError(err error) *mcp.CallToolResult {
	var msg string

	var dataErr *fakturoid.InvalidDataError
	var apiErr *fakturoid.APIError

	switch {
	case errors.As(err, &dataErr):
		msg = "Fakturoid rejected the data: " + dataErr.Error()
	case errors.As(err, &apiErr):
		msg = "Fakturoid API error: " + apiErr.Error()
	default:
		msg = err.Error()
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func pagesOrDefault(maxPages int) int {
	if maxPages <= 0 {
		return defaultMaxPages
	}
	return maxPages
}
