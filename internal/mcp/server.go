package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/texotip/internal/annotate"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes glossary annotation tools.
type Server struct {
	annotator *annotate.Annotator
	mcp       *server.MCPServer
}

// NewServer creates a new MCP server backed by the given annotator.
func NewServer(annotator *annotate.Annotator) *Server {
	s := &Server{annotator: annotator}

	s.mcp = server.NewMCPServer(
		"texotip",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(annotateHTMLTool, s.handleAnnotateHTML)
	s.mcp.AddTool(lookupTermTool, s.handleLookupTerm)
	s.mcp.AddTool(listTermsTool, s.handleListTerms)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
