package server

import (
	"context"
	"fmt"
	"log/slog"

	"hello-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ToolManager registers registry tools with an MCP server
type ToolManager struct {
	registry *tools.Registry
	logger   *slog.Logger
}

// NewToolManager creates a new tool manager
func NewToolManager(registry *tools.Registry, logger *slog.Logger) *ToolManager {
	return &ToolManager{
		registry: registry,
		logger:   logger,
	}
}

// RegisterTools registers every tool of the registry with the MCP server, in order
func (tm *ToolManager) RegisterTools(s *server.MCPServer) error {
	list, err := ListMCPTools(tm.registry)
	if err != nil {
		return err
	}
	for _, tool := range list {
		s.AddTool(tool, tm.handleCallTool)
		tm.logger.Debug("registered tool", "tool", tool.Name)
	}
	return nil
}

// NewMCPTool converts a descriptor into an mcp-go tool definition.
func NewMCPTool(desc tools.Descriptor) (mcp.Tool, error) {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}

	for _, p := range desc.InputSchema.Properties {
		var propOpts []mcp.PropertyOption
		if desc.InputSchema.IsRequired(p.Name) {
			propOpts = append(propOpts, mcp.Required())
		}
		if p.Description != "" {
			propOpts = append(propOpts, mcp.Description(p.Description))
		}

		switch p.Type {
		case "string":
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			return mcp.Tool{}, fmt.Errorf("tool %s: unsupported type %q for property %s", desc.Name, p.Type, p.Name)
		}
	}

	return mcp.NewTool(desc.Name, opts...), nil
}

// ListMCPTools returns the registry's tools as they are advertised over MCP, in order.
func ListMCPTools(registry *tools.Registry) ([]mcp.Tool, error) {
	list := registry.List()
	out := make([]mcp.Tool, 0, len(list))
	for _, desc := range list {
		tool, err := NewMCPTool(desc)
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}

// handleCallTool dispatches to the registry. Argument errors are reported to the client
// as an error result; anything else becomes a protocol error.
func (tm *ToolManager) handleCallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.Params.Name

	result, err := tm.registry.Call(ctx, name, tools.Arguments(request.GetArguments()))
	if err != nil {
		if tools.IsArgumentError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	return toCallToolResult(result), nil
}

func toCallToolResult(result tools.Result) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(result.Content))
	for _, c := range result.Content {
		content = append(content, mcp.NewTextContent(c.Text))
	}
	return &mcp.CallToolResult{Content: content}
}
