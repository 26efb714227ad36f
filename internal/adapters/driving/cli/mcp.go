package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sanctrack/internal/adapters/driving/mcp"
	"github.com/custodia-labs/sanctrack/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server exposes:
  preview_changes     compare a document with the baseline (dry run)
  compare_documents   compare two documents
  sanctrack://baseline, sanctrack://history resources

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  sanctrack mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  sanctrack mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if err := requireStore(); err != nil {
		return err
	}

	ports := &mcp.Ports{
		Tracker:  trackerService,
		Baseline: baselineService,
		History:  historyService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	logger.SetSilent(true)
	return server.Run(cmd.Context())
}
