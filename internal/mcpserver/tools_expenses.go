package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// ListExpensesInput holds parameters for fakturoid_list_expenses.
type ListExpensesInput struct {
	Status    string `json:"status,omitempty" jsonschema:"expense status filter: open, overdue, paid"`
	SubjectID int64  `json:"subject_id,omitempty" jsonschema:"only expenses from this subject id"`
	Since     string `json:"since,omitempty" jsonschema:"only expenses created at or after this ISO 8601 timestamp"`
	Until     string `json:"until,omitempty" jsonschema:"only expenses created at or before this ISO 8601 timestamp"`
	MaxPages  int    `json:"max_pages,omitempty" jsonschema:"page fetch limit (40 expenses per page), defaults to 5"`
}

// ExpenseIDInput identifies one expense.
type ExpenseIDInput struct {
	ID int64 `json:"id" jsonschema:"required,expense id"`
}

// CreateExpenseInput holds the expense payload.
type CreateExpenseInput struct {
	Expense fakturoid.Expense `json:"expense" jsonschema:"required,expense payload; subject_id is required by Fakturoid"`
}

// UpdateExpenseInput holds a partial update.
type UpdateExpenseInput struct {
	ID      int64             `json:"id" jsonschema:"required,expense id"`
	Expense fakturoid.Expense `json:"expense" jsonschema:"required,fields to change"`
}

// FireExpenseInput triggers an expense state transition.
type FireExpenseInput struct {
	ID    int64  `json:"id" jsonschema:"required,expense id"`
	Event string `json:"event" jsonschema:"required,transition event: pay, remove_payment, lock, unlock"`
}

func registerExpenseTools(server *mcp.Server, client *fakturoid.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_expenses",
		Description: "List expenses with optional status/subject/date filters.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ListExpensesInput) (*mcp.CallToolResult, []fakturoid.Expense, error) {
		expenses, err := client.ListExpenses(ctx, fakturoid.ExpenseFilter{
			Status:    input.Status,
			SubjectID: input.SubjectID,
			Since:     input.Since,
			Until:     input.Until,
		}, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(expenses), expenses, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_get_expense",
		Description: "Get one expense with all lines and totals by id.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExpenseIDInput) (*mcp.CallToolResult, *fakturoid.Expense, error) {
		expense, err := client.GetExpense(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(expense), expense, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_expense",
		Description: "Create a new expense. Requires subject_id.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateExpenseInput) (*mcp.CallToolResult, *fakturoid.Expense, error) {
		expense, err := client.CreateExpense(ctx, input.Expense)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(expense), expense, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_update_expense",
		Description: "Update fields of an existing expense. Only the provided fields change.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateExpenseInput) (*mcp.CallToolResult, *fakturoid.Expense, error) {
		expense, err := client.UpdateExpense(ctx, input.ID, input.Expense)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(expense), expense, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_delete_expense",
		Description: "Permanently delete an expense.",
		Annotations: destructiveAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExpenseIDInput) (*mcp.CallToolResult, any, error) {
		if err := client.DeleteExpense(ctx, input.ID); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"deleted": input.ID}), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_fire_expense",
		Description: "Trigger an expense state transition such as marking it paid or locked.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input FireExpenseInput) (*mcp.CallToolResult, any, error) {
		if err := client.FireExpense(ctx, input.ID, input.Event); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"id": input.ID, "event": input.Event}), nil, nil
	})
}
