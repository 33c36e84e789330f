package main

import (
	"github.com/spf13/cobra"

	"github.com/spindlehq/spindle/mcp"
	"github.com/spindlehq/spindle/tool"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the web tools over MCP stdio",
	Long: `Expose web_search, read_url and instant_answer as an MCP server
communicating over stdin/stdout, for MCP clients such as Claude Desktop.

Example Claude Desktop configuration:

  {
      "mcpServers": {
          "spindle-tools": {
              "command": "spindle",
              "args": ["mcp"]
          }
      }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcp.ServeStdio(
			tool.NewDuckDuckGoSearcher(),
			tool.NewHTTPFetcher(),
			tool.NewDuckDuckGoInstant(),
			mcp.WithName("spindle-tools"),
			mcp.WithVersion(version),
		)
	},
}
