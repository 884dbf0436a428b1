// Package mcp exposes remod's display-name and story operations as Model
// Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/remod/pkg/displayname"
	"github.com/gnana997/remod/pkg/scanner"
	"github.com/gnana997/remod/pkg/storybook"
)

// Config wires a Server to the engines it drives.
type Config struct {
	Scanner    *scanner.Scanner
	Engine     *displayname.Engine
	Generator  *storybook.Generator
	Typescript *bool
	// RootDir resolves relative paths and ignore patterns.
	RootDir string
	Ignore  []string
	// Prefix is the default display-name prefix for add_display_names.
	Prefix  string
	Version string
	// Journal, when set, records every tool call.
	Journal *Journal
	Logger  *slog.Logger
}

// Server implements the MCP server for remod.
type Server struct {
	mcpServer *server.MCPServer
	cfg       Config
	log       *slog.Logger
}

// NewServer creates a new MCP server with all tools registered.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}
	s := &Server{cfg: cfg, log: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if cfg.Journal != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(journalMiddleware(cfg.Journal)))
	}
	s.mcpServer = server.NewMCPServer("remod", cfg.Version, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: listComponentsTool(), Handler: s.handleListComponents},
		server.ServerTool{Tool: addDisplayNamesTool(), Handler: s.handleAddDisplayNames},
		server.ServerTool{Tool: removeDisplayNamesTool(), Handler: s.handleRemoveDisplayNames},
		server.ServerTool{Tool: renameDisplayNamesTool(), Handler: s.handleRenameDisplayNames},
		server.ServerTool{Tool: createStoryTool(), Handler: s.handleCreateStory},
	)

	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}
