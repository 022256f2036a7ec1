// ABOUTME: MCP server initialization for wpbridge.
// ABOUTME: Exposes publish and status tools to AI agents over stdio.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/draftsmith/wpbridge/internal/models"
)

// PublishFunc runs one publish invocation. An empty file uses the project's
// configured source document.
type PublishFunc func(ctx context.Context, file string) (int, error)

// MetadataReader reads the local post metadata binding.
type MetadataReader interface {
	Load() (*models.Metadata, error)
}

// Server wraps the MCP server with the publish capability and metadata access.
type Server struct {
	mcp     *gomcp.Server
	publish PublishFunc
	meta    MetadataReader
}

// NewServer creates an MCP server exposing the publish tools.
func NewServer(publish PublishFunc, meta MetadataReader) (*Server, error) {
	if publish == nil {
		return nil, fmt.Errorf("publish function is required")
	}
	if meta == nil {
		return nil, fmt.Errorf("metadata reader is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "wpbridge",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		publish: publish,
		meta:    meta,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}
