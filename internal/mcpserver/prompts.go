package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterPrompts adds canned workflow prompts to the MCP server.
func RegisterPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "chase_overdue_invoices",
		Description: "Draft polite payment reminders for all overdue invoices.",
	}, func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "Overdue invoice follow-up",
			Messages: []*mcp.PromptMessage{{
				Role: "user",
				Content: &mcp.TextContent{
					Text: "List all overdue invoices with fakturoid_list_invoices " +
						"(status=overdue). For each, look up the subject's contact " +
						"email and draft a short, polite payment reminder that names " +
						"the invoice number, amount due, and original due date. " +
						"Group reminders by subject so one customer gets one email.",
				},
			}},
		}, nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "monthly_billing",
		Description: "Create this month's invoices from the account's generators.",
		Arguments: []*mcp.PromptArgument{{
			Name:        "month",
			Description: "Month to bill, e.g. 2026-08. Defaults to the current month.",
		}},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		month := req.Params.Arguments["month"]
		text := "Review the invoice templates from fakturoid_list_generators " +
			"and create the recurring invoices due"
		if month != "" {
			text += " for " + month
		} else {
			text += " this month"
		}
		text += ". Before creating each invoice, confirm the subject still " +
			"exists and show me a summary table of what will be issued."

		return &mcp.GetPromptResult{
			Description: "Monthly billing run",
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			}},
		}, nil
	})

	server.AddPrompt(&mcp.Prompt{
		Name:        "cashflow_summary",
		Description: "Summarize receivables and payables for the account.",
	}, func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "Cashflow summary",
			Messages: []*mcp.PromptMessage{{
				Role: "user",
				Content: &mcp.TextContent{
					Text: "Using fakturoid_list_invoices (status=open and " +
						"status=overdue) and fakturoid_list_expenses (status=open), " +
						"summarize outstanding receivables and payables by currency, " +
						"flag anything overdue more than 30 days, and finish with a " +
						"net position figure.",
				},
			}},
		}, nil
	})
}
