package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/cdp-assistant/internal/assistant"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Source tags questions asked through MCP.
const Source = "mcp"

// Server wraps an MCP server that exposes the CDP assistant as tools.
type Server struct {
	assistant *assistant.Assistant
	backlog   BacklogReader
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server answering from a.
func NewServer(a *assistant.Assistant) *Server {
	s := &Server{assistant: a}

	s.mcp = server.NewMCPServer(
		"cdpassist",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askQuestionTool, s.handleAskQuestion)
	s.mcp.AddTool(listTopicsTool, s.handleListTopics)
	s.mcp.AddTool(explainMatchTool, s.handleExplainMatch)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
