// ABOUTME: MCP tool implementations for publishing operations.
// ABOUTME: Registers publish_document and post_status.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "publish_document",
		Description: "Publish the project's source document to its bound remote post. Creates a draft on first publish; subsequent publishes update the same post and sync embedded images.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string", "description": "Optional path to a markdown file, overriding the configured source document"}
			}
		}`),
	}, s.handlePublishDocument)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "post_status",
		Description: "Report the local binding between this project and its remote post: post id, status, and slug.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {}
		}`),
	}, s.handlePostStatus)
}

func (s *Server) handlePublishDocument(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		File string `json:"file"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError("invalid arguments: %v", err), nil
		}
	}

	status, err := s.publish(ctx, args.File)
	if err != nil {
		return toolError("publish failed (status %d): %v", status, err), nil
	}

	text := fmt.Sprintf("Published with status %d.", status)
	if meta, err := s.meta.Load(); err == nil && meta.ID != nil {
		text += fmt.Sprintf(" Post id %d", *meta.ID)
		if meta.Slug != "" {
			text += fmt.Sprintf(", slug %q", meta.Slug)
		}
		text += "."
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}, nil
}

func (s *Server) handlePostStatus(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	meta, err := s.meta.Load()
	if err != nil {
		return toolError("failed to read metadata: %v", err), nil
	}

	if meta.ID == nil {
		return &gomcp.CallToolResult{
			Content: []gomcp.Content{&gomcp.TextContent{Text: "Not yet published: no remote post is bound to this project."}},
		}, nil
	}

	text := fmt.Sprintf("Post id %d, status %s", *meta.ID, meta.Status)
	if meta.Slug != "" {
		text += fmt.Sprintf(", slug %q", meta.Slug)
	}

	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}, nil
}

// toolError creates an error result for MCP tool responses.
func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}
