package main

import (
	"github.com/spf13/cobra"

	"github.com/promptvault/promptvault/internal/mcp"
)

var mcpServerCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "Serve the vault over the Model Context Protocol",
	Long: `Run an MCP server on stdio so AI agents can browse prompts.

Agents only ever see metadata and plaintext prompts. Locked content is never
decrypted for an agent and no tool accepts a password.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(ops)
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpServerCmd)
}
