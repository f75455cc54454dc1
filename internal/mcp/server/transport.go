package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"hello-mcp/internal/config"
	"hello-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/server"
)

// MCPBasePath is where the SSE endpoints live when served by the HTTP transport.
const MCPBasePath = "/mcp"

// TransportManager manages different transport types for MCP communication
type TransportManager struct {
	config   *config.Config
	server   *server.MCPServer
	registry *tools.Registry
	logger   *slog.Logger

	stdin  io.Reader
	stdout io.Writer
}

// NewTransportManager creates a new transport manager reading and writing the process's
// standard streams for the stdio transport
func NewTransportManager(cfg *config.Config, mcpServer *server.MCPServer, registry *tools.Registry, logger *slog.Logger) *TransportManager {
	return &TransportManager{
		config:   cfg,
		server:   mcpServer,
		registry: registry.Filter(cfg.IsToolEnabled),
		logger:   logger,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
}

// WithStdio replaces the streams used by the stdio transport
func (tm *TransportManager) WithStdio(in io.Reader, out io.Writer) *TransportManager {
	tm.stdin = in
	tm.stdout = out
	return tm
}

// StartTransport starts the configured transport type and blocks until ctx is done or
// the transport fails
func (tm *TransportManager) StartTransport(ctx context.Context) error {
	switch tm.config.Transport.Type {
	case config.TransportStdio:
		return tm.startStdioTransport(ctx)
	case config.TransportSSE:
		return tm.startSSETransport(ctx)
	case config.TransportHTTP:
		return tm.startHTTPTransport(ctx)
	default:
		return fmt.Errorf("unsupported transport type: %s", tm.config.Transport.Type)
	}
}

// startStdioTransport serves newline-delimited JSON-RPC on the configured streams
func (tm *TransportManager) startStdioTransport(ctx context.Context) error {
	stdio := server.NewStdioServer(tm.server)
	stdio.SetErrorLogger(slog.NewLogLogger(tm.logger.Handler(), slog.LevelError))

	tm.logger.Info("serving MCP over stdio")
	if err := stdio.Listen(ctx, tm.stdin, tm.stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

// startSSETransport serves the SSE transport on its own listener
func (tm *TransportManager) startSSETransport(ctx context.Context) error {
	httpServer := &http.Server{Addr: tm.config.Addr()}
	sse := server.NewSSEServer(tm.server,
		server.WithBaseURL(tm.baseURL()),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = sse

	tm.logger.Info("serving MCP over SSE", "addr", httpServer.Addr, "endpoint", tm.baseURL()+"/sse")
	return tm.serveHTTP(ctx, httpServer, sse)
}

// startHTTPTransport serves the REST surface with the SSE endpoints mounted under MCPBasePath
func (tm *TransportManager) startHTTPTransport(ctx context.Context) error {
	httpServer := &http.Server{Addr: tm.config.Addr()}
	sse := server.NewSSEServer(tm.server,
		server.WithBaseURL(tm.baseURL()),
		server.WithStaticBasePath(MCPBasePath),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = NewHTTPHandler(tm.config, tm.registry, sse, tm.logger)

	tm.logger.Info("serving MCP over HTTP", "addr", httpServer.Addr, "endpoint", tm.baseURL()+MCPBasePath+"/sse")
	return tm.serveHTTP(ctx, httpServer, sse)
}

func (tm *TransportManager) serveHTTP(ctx context.Context, httpServer *http.Server, sse *server.SSEServer) error {
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("failed to serve on %s: %w", httpServer.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	// Graceful shutdown. The SSE server owns httpServer: it closes open
	// event streams before shutting the listener down.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), tm.config.Transport.Timeout)
	defer cancel()

	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down %s: %w", httpServer.Addr, err)
	}
	tm.logger.Info("transport stopped", "type", tm.config.Transport.Type)
	return nil
}

func (tm *TransportManager) baseURL() string {
	if tm.config.Transport.BaseURL != "" {
		return tm.config.Transport.BaseURL
	}
	return "http://" + tm.config.Addr()
}

// GetTransportInfo returns information about the current transport configuration
func (tm *TransportManager) GetTransportInfo() map[string]interface{} {
	info := map[string]interface{}{
		"type":    tm.config.Transport.Type,
		"timeout": tm.config.Transport.Timeout.String(),
	}

	switch tm.config.Transport.Type {
	case config.TransportSSE:
		info["host"] = tm.config.Transport.Host
		info["port"] = tm.config.Transport.Port
		info["sse_endpoint"] = tm.baseURL() + "/sse"
	case config.TransportHTTP:
		info["host"] = tm.config.Transport.Host
		info["port"] = tm.config.Transport.Port
		info["sse_endpoint"] = tm.baseURL() + MCPBasePath + "/sse"
	}

	return info
}
