// Package server wires the tool registry onto an mcp-go server and exposes it over
// the configured transport.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"hello-mcp/internal/config"
	"hello-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server exposing the registry's tools that cfg enables.
func NewServer(cfg *config.Config, registry *tools.Registry, logger *slog.Logger) (*server.MCPServer, error) {
	if err := cfg.ValidateTools(registry.Names()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithHooks(newHooks(logger)),
	)

	toolManager := NewToolManager(registry.Filter(cfg.IsToolEnabled), logger)
	if err := toolManager.RegisterTools(mcpServer); err != nil {
		return nil, err
	}

	return mcpServer, nil
}

func newHooks(logger *slog.Logger) *server.Hooks {
	hooks := &server.Hooks{}

	hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info("client initialized",
			"client", message.Params.ClientInfo.Name,
			"client_version", message.Params.ClientInfo.Version,
			"protocol", result.ProtocolVersion,
		)
	})

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		logger.Debug("tool call", "id", id, "tool", message.Params.Name)
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		logger.Debug("tool call finished", "id", id, "tool", message.Params.Name, "is_error", result.IsError)
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logger.Warn("request failed", "id", id, "method", method, "error", err)
	})

	return hooks
}
