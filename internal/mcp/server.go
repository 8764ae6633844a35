// Package mcp exposes the prompt vault to AI agents over the Model Context
// Protocol. Tools serve metadata and plaintext prompts only: locked content
// is never decrypted for an agent, and there is no tool that takes a
// password.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/promptvault/promptvault/pkg/vault"
)

const serverVersion = "1.0.0"

// Server wraps the MCP server around a read-only view of the vault.
type Server struct {
	server *mcp.Server
	ops    *vault.Ops
}

// NewServer creates an MCP server over the given vault.
func NewServer(ops *vault.Ops) *Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "promptvault",
			Version: serverVersion,
		},
		nil,
	)

	s := &Server{server: mcpServer, ops: ops}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_list",
		Description: "List prompts with metadata: title, folder, tags, favorite and lock state. Does NOT return locked content.",
	}, s.handlePromptList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "prompt_get",
		Description: "Get a prompt's content by id. Locked prompts return metadata only; their content is never served.",
	}, s.handlePromptGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "folder_list",
		Description: "List folders with their lock state and prompt counts.",
	}, s.handleFolderList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "tag_list",
		Description: "List the global tag registry.",
	}, s.handleTagList)
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
