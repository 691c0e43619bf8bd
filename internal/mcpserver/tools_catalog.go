package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cookielab/fakturoid-mcp/internal/fakturoid"
)

// MaxPagesInput is the common input for unfiltered list tools.
type MaxPagesInput struct {
	MaxPages int `json:"max_pages,omitempty" jsonschema:"page fetch limit (40 items per page), defaults to 5"`
}

// GeneratorIDInput identifies one generator.
type GeneratorIDInput struct {
	ID int64 `json:"id" jsonschema:"required,generator id"`
}

// CreateGeneratorInput holds the template payload.
type CreateGeneratorInput struct {
	Generator fakturoid.Generator `json:"generator" jsonschema:"required,template payload; name is required"`
}

// SearchItemsInput holds parameters for fakturoid_search_inventory.
type SearchItemsInput struct {
	Query    string `json:"query" jsonschema:"required,fulltext search over item names and SKUs"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"page fetch limit, defaults to 5"`
}

// ItemIDInput identifies one inventory item.
type ItemIDInput struct {
	ID int64 `json:"id" jsonschema:"required,inventory item id"`
}

// CreateItemInput holds the inventory item payload.
type CreateItemInput struct {
	Item fakturoid.InventoryItem `json:"item" jsonschema:"required,inventory item payload; name is required"`
}

// CreateMoveInput records a stock movement.
type CreateMoveInput struct {
	ItemID int64                   `json:"item_id" jsonschema:"required,inventory item id"`
	Move   fakturoid.InventoryMove `json:"move" jsonschema:"required,movement payload with direction (in/out), moved_on, quantity_change"`
}

func registerCatalogTools(server *mcp.Server, client *fakturoid.Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_generators",
		Description: "List invoice templates (generators), including recurring ones.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MaxPagesInput) (*mcp.CallToolResult, map[string]any, error) {
		generators, err := client.ListGenerators(ctx, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		recurring, err := client.ListRecurringGenerators(ctx, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		result := map[string]any{"generators": generators, "recurring_generators": recurring}
		return textResult(result), result, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_get_generator",
		Description: "Get one invoice template by id.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input GeneratorIDInput) (*mcp.CallToolResult, *fakturoid.Generator, error) {
		generator, err := client.GetGenerator(ctx, input.ID)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(generator), generator, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_generator",
		Description: "Create an invoice template for repeated billing.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateGeneratorInput) (*mcp.CallToolResult, *fakturoid.Generator, error) {
		generator, err := client.CreateGenerator(ctx, input.Generator)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(generator), generator, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_inventory",
		Description: "List inventory items with stock levels and prices.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MaxPagesInput) (*mcp.CallToolResult, []fakturoid.InventoryItem, error) {
		items, err := client.ListInventoryItems(ctx, fakturoid.InventoryFilter{}, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(items), items, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_search_inventory",
		Description: "Fulltext search across inventory items.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchItemsInput) (*mcp.CallToolResult, []fakturoid.InventoryItem, error) {
		items, err := client.SearchInventoryItems(ctx, input.Query, pagesOrDefault(input.MaxPages))
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(items), items, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_inventory_item",
		Description: "Create an inventory item (product or service).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateItemInput) (*mcp.CallToolResult, *fakturoid.InventoryItem, error) {
		item, err := client.CreateInventoryItem(ctx, input.Item)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(item), item, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_list_inventory_moves",
		Description: "List stock movements for one inventory item.",
		Annotations: readOnlyAnnotations(),
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ItemIDInput) (*mcp.CallToolResult, []fakturoid.InventoryMove, error) {
		moves, err := client.ListInventoryMoves(ctx, input.ID, defaultMaxPages)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(moves), moves, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fakturoid_create_inventory_move",
		Description: "Record a stock movement (in or out) for an inventory item.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CreateMoveInput) (*mcp.CallToolResult, *fakturoid.InventoryMove, error) {
		move, err := client.CreateInventoryMove(ctx, input.ItemID, input.Move)
		if err != nil {
			return toolError(err), nil, nil
		}
		return textResult(move), move, nil
	})
}
