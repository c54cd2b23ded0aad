// Package mcptool exposes the stored collection to assistants as MCP
// tools: search, list, stats and recommendation over stdio.
package mcptool

import (
	"context"
	"fmt"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PoojaB26/tweet-tool-finder/internal/store"
)

type searchArgs struct {
	Query    string `json:"query" jsonschema:"Search query — tool name, category, keyword, or problem description"`
	Category string `json:"category,omitempty" jsonschema:"Filter by category: tool, hack, productivity, or all"`
}

type listArgs struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category: tool, hack, productivity, or all"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum items to return (default: 30)"`
}

type statsArgs struct{}

type recommendArgs struct {
	Problem string `json:"problem" jsonschema:"The problem or task the user needs a tool for"`
}

// Register adds the four query tools to the MCP server.
func Register(server *mcp.Server, st *store.Store) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_tools",
		Description: "Search your saved developer tools, hacks, and productivity tips from Twitter. Use this when the user asks things like 'is there a tool for X?' or 'do I have anything saved about Y?'",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
		return handleSearch(st, args), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_all_tools",
		Description: "List all saved developer tools, hacks, and tips collected from Twitter. Use this for a full overview or when the user asks 'what tools do I have saved?' or 'show me everything'.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args listArgs) (*mcp.CallToolResult, any, error) {
		return handleList(st, args), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get statistics about your saved tools collection — total count, breakdown by category, most recent additions.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ statsArgs) (*mcp.CallToolResult, any, error) {
		return handleStats(st), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_tool",
		Description: "Given a problem or task description, find the most relevant saved tool or hack. Use when the user says things like 'I need something for...' or 'what should I use to...'",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args recommendArgs) (*mcp.CallToolResult, any, error) {
		return handleRecommend(st, args), nil, nil
	})
}

func handleSearch(st *store.Store, args searchArgs) *mcp.CallToolResult {
	tweets, err := st.List()
	if err != nil {
		return toolError(fmt.Sprintf("Failed to read collection: %v", err))
	}

	results := store.Search(tweets, args.Query, args.Category)
	return toolResult(store.FormatSearch(args.Query, results, len(tweets)))
}

func handleList(st *store.Store, args listArgs) *mcp.CallToolResult {
	tweets, err := st.List()
	if err != nil {
		return toolError(fmt.Sprintf("Failed to read collection: %v", err))
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 30
	}

	filtered := store.Search(tweets, "", args.Category)
	return toolResult(store.FormatList(filtered, args.Category, limit, len(tweets)))
}

func handleStats(st *store.Store) *mcp.CallToolResult {
	tweets, err := st.List()
	if err != nil {
		return toolError(fmt.Sprintf("Failed to read collection: %v", err))
	}
	return toolResult(store.FormatStats(tweets))
}

func handleRecommend(st *store.Store, args recommendArgs) *mcp.CallToolResult {
	tweets, err := st.List()
	if err != nil {
		return toolError(fmt.Sprintf("Failed to read collection: %v", err))
	}

	scored := store.Recommend(tweets, args.Problem)
	return toolResult(store.FormatRecommend(args.Problem, scored, len(tweets)))
}

func toolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
