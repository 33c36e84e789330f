// Package mcp exposes the built-in web tools over the Model Context
// Protocol so MCP clients such as Claude Desktop can discover and call
// them directly, without the conversation loop in between.
//
// Example:
//
//	srv := mcp.NewServer(
//	    tool.NewDuckDuckGoSearcher(),
//	    tool.NewHTTPFetcher(),
//	    tool.NewDuckDuckGoInstant(),
//	)
//
//	if err := server.ServeStdio(srv); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spindlehq/spindle"
	"github.com/spindlehq/spindle/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server exposing web_search, read_url and
// instant_answer. A nil backend leaves its tool unregistered.
func NewServer(searcher tool.Searcher, fetcher tool.Fetcher, instant tool.InstantAnswerer, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "spindle-mcp-server",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	if searcher != nil {
		s.AddTool(mcp.NewTool(string(ai.ToolWebSearch),
			mcp.WithDescription("Search the web and return a list of results with title, URL and snippet."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The search query."),
			),
			mcp.WithString("engine",
				mcp.Description("Search engine variant: duckduckgo (default) or lite."),
			),
		), webSearchHandler(searcher))
	}

	if fetcher != nil {
		s.AddTool(mcp.NewTool(string(ai.ToolReadURL),
			mcp.WithDescription("Fetch a web page and return a slice of its text content."),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("The http or https URL to fetch."),
			),
			mcp.WithNumber("start",
				mcp.Description("Character offset to read from. Defaults to 0."),
			),
			mcp.WithNumber("length",
				mcp.Description(fmt.Sprintf("Number of characters to return. Defaults to %d.", ai.DefaultReadChunkSize)),
			),
		), readURLHandler(fetcher))
	}

	if instant != nil {
		s.AddTool(mcp.NewTool(string(ai.ToolInstantAnswer),
			mcp.WithDescription("Look up a factual query against the DuckDuckGo instant answer API and return the raw JSON answer."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("The query to answer."),
			),
		), instantAnswerHandler(instant))
	}

	return s
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as
// subprocesses.
func ServeStdio(searcher tool.Searcher, fetcher tool.Fetcher, instant tool.InstantAnswerer, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(searcher, fetcher, instant, opts...))
}

// parseCall routes MCP request arguments through the same typed parser
// the conversation loop uses, so defaults and validation stay uniform.
func parseCall(name string, req mcp.CallToolRequest) (ai.ToolCall, error) {
	args := map[string]any{}
	if req.Params.Arguments != nil {
		data, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return ai.ToolCall{}, fmt.Errorf("failed to marshal arguments: %w", err)
		}
		if err := json.Unmarshal(data, &args); err != nil {
			return ai.ToolCall{}, fmt.Errorf("arguments must be a JSON object: %w", err)
		}
	}
	return ai.ParseToolCall(ai.RawToolCall{Tool: name, Arguments: args})
}

func webSearchHandler(searcher tool.Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := parseCall(string(ai.ToolWebSearch), req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if call.WebSearch.Query == "" {
			return mcp.NewToolResultError("query must not be empty"), nil
		}

		results, err := searcher.Search(ctx, call.WebSearch.Query, call.WebSearch.Engine)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func readURLHandler(fetcher tool.Fetcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := parseCall(string(ai.ToolReadURL), req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		args := call.ReadURL
		if args.URL == "" {
			return mcp.NewToolResultError("url must not be empty"), nil
		}

		content, err := fetcher.Fetch(ctx, args.URL)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		slice, end, total := sliceContent(content, args.Start, args.Length)
		if slice == "" {
			return mcp.NewToolResultText(fmt.Sprintf("%s has no content at offset %d (total %d characters).", args.URL, args.Start, total)), nil
		}

		marker := "[end of content]"
		if end < total {
			marker = "[more content available]"
		}
		return mcp.NewToolResultText(fmt.Sprintf("Content of %s (characters %d-%d of %d):\n\n%s\n\n%s",
			args.URL, args.Start, end, total, slice, marker)), nil
	}
}

func instantAnswerHandler(instant tool.InstantAnswerer) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		call, err := parseCall(string(ai.ToolInstantAnswer), req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if call.InstantAnswer.Query == "" {
			return mcp.NewToolResultError("query must not be empty"), nil
		}

		answer, err := instant.InstantAnswer(ctx, call.InstantAnswer.Query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(answer)), nil
	}
}

// sliceContent returns content[start:start+length] in characters, the
// exclusive end offset of the slice, and the total character count.
func sliceContent(content string, start, length int) (string, int, int) {
	runes := []rune(content)
	total := len(runes)
	if start < 0 {
		start = 0
	}
	if start >= total {
		return "", start, total
	}
	end := start + length
	if end > total {
		end = total
	}
	return string(runes[start:end]), end, total
}
