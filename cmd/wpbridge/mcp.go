// ABOUTME: MCP server command implementation for wpbridge.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/draftsmith/wpbridge/internal/config"
	mcppkg "github.com/draftsmith/wpbridge/internal/mcp"
	"github.com/draftsmith/wpbridge/internal/publish"
	"github.com/draftsmith/wpbridge/internal/wordpress"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, allowing AI agents to publish the
project's document and inspect its remote binding through a standardized
protocol.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	if !config.Initialized(".") {
		return fmt.Errorf("project not initialised - run 'wpbridge init' first")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store := config.NewMetadataStore(".")

	publishFn := func(ctx context.Context, file string) (int, error) {
		cfg, err := resolveProject(".", config.Project{File: file})
		if err != nil {
			return 0, err
		}
		if cfg.BaseURL == "" || cfg.APIVersion == "" || cfg.File == "" {
			return 0, fmt.Errorf("base URL, API version, and file are all required")
		}
		if !cfg.Credentials.Complete() {
			return 0, fmt.Errorf("missing credentials - run 'wpbridge authenticate' first")
		}
		client := wordpress.NewClient(cfg.BaseURL, cfg.APIVersion, cfg.Credentials, globalLog)
		return publish.New(client, store, cfg.File, globalLog).Publish(ctx)
	}

	server, err := mcppkg.NewServer(publishFn, store)
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
