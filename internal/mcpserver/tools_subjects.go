package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// ListSubjectsInput holds parameters for fakturoid_list_subjects.
type ListSubjectsInput struct {
	Since    string `json:"since,omitempty" jsonschema:"only subjects created at or after this ISO 8601 timestamp"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"page fetch limit (40 subjects per page), defaults to 5"`
}

// SearchSubjectsInput holds parameters for fakturoid_search_subjects.
type SearchSubjectsInput struct {
	Query    string `json:"query" jsonschema:"required,fulltext search over names, emails, registration numbers"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"page fetch limit, defaults to 5"`
}

// SubjectIDInput identifies one subject.
type SubjectIDInput struct {
	ID int64 `json:"id" jsonschema:"required,subject id"`
}

// CreateSubjectInput holds the subject payload.
type CreateSubjectInput struct {
	Subject fakturoid.Subject `json:"subject" jsonschema:"required,subject payload; name is required"`
}

// UpdateSubjectInput holds a partial update.
type UpdateSubjectInput struct {
	ID      int64             `json:"id" jsonschema:"required,subject id"`
	Subject fakturoid.Subject `json:"subject" jsonschema:"required,fields to change"`
}

func registerSubjectTools(server *mcp.Server, client *fakturoid.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_subjects",
		Description: "List customer and supplier contacts.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ListSubjectsInput) (*mcp.CallToolResult, []fakturoid.Subject, error) {
		subjects, err := client.ListSubjects(ctx, fakturoid.SubjectFilter{Since: input.Since}, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(subjects), subjects, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_search_subjects",
		Description: "Fulltext search across subjects. Useful for resolving a company name to a subject_id before invoicing.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchSubjectsInput) (*mcp.CallToolResult, []fakturoid.Subject, error) {
		subjects, err := client.SearchSubjects(ctx, input.Query, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(subjects), subjects, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_get_subject",
		Description: "Get one subject by id.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SubjectIDInput) (*mcp.CallToolResult, *fakturoid.Subject, error) {
		subject, err := client.GetSubject(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(subject), subject, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_subject",
		Description: "Create a new customer or supplier contact. Requires a name.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateSubjectInput) (*mcp.CallToolResult, *fakturoid.Subject, error) {
		subject, err := client.CreateSubject(ctx, input.Subject)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(subject), subject, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_update_subject",
		Description: "Update fields of an existing subject. Only the provided fields change.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UpdateSubjectInput) (*mcp.CallToolResult, *fakturoid.Subject, error) {
		subject, err := client.UpdateSubject(ctx, input.ID, input.Subject)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(subject), subject, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_delete_subject",
		Description: "Permanently delete a subject. Fails if documents reference it.",
		Annotations: destructiveAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SubjectIDInput) (*mcp.CallToolResult, any, error) {
		if err := client.DeleteSubject(ctx, input.ID); err != nil {
			return toolError(err), nil, nil
		}
		return textResult(map[string]any{"deleted": input.ID}), nil, nil
	})
}
