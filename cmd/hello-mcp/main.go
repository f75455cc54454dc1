package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hello-mcp/internal/config"
	"hello-mcp/internal/logging"
	mcpserver "hello-mcp/internal/mcp/server"
	"hello-mcp/internal/tools"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hello-mcp",
		Short: "MCP server exposing the hello and time tools",
		Long: `hello-mcp serves two Model Context Protocol tools:

  hello  greets someone by name
  time   reports the current time

Without a subcommand it serves MCP over the configured transport (stdio by default).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (.yaml, .yml or .json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	serve := serveCmd()
	rootCmd.Flags().AddFlagSet(serve.Flags())
	rootCmd.RunE = serve.RunE

	rootCmd.AddCommand(
		serve,
		toolsCmd(),
		callCmd(),
		configCmd(),
	)

	return rootCmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio, sse or http",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			registry := tools.NewDefaultRegistry(tools.SystemClock)
			mcpServer, err := mcpserver.NewServer(cfg, registry, logger)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			logger.Info("starting MCP server",
				"name", cfg.Name,
				"version", cfg.Version,
				"transport", cfg.Transport.Type,
				"tools", registry.Filter(cfg.IsToolEnabled).Names(),
			)

			transport := mcpserver.NewTransportManager(cfg, mcpServer, registry, logger)
			if err := transport.StartTransport(cmd.Context()); err != nil {
				return err
			}

			logger.Info("MCP server shutdown complete")
			return nil
		},
	}

	addTransportFlags(cmd)
	return cmd
}

// addTransportFlags registers the flags loadConfig applies over the transport section.
func addTransportFlags(cmd *cobra.Command) {
	cmd.Flags().String("transport", "", "Transport type (stdio, sse, http)")
	cmd.Flags().String("host", "", "Host for sse/http transport")
	cmd.Flags().Int("port", 0, "Port for sse/http transport")
	cmd.Flags().String("base-url", "", "Public base URL advertised to SSE clients")
}

// loadConfig reads the config file (if any), applies command line overrides and validates
// the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Lookup("transport") != nil {
		if flags.Changed("transport") {
			cfg.Transport.Type, _ = flags.GetString("transport")
		}
		if flags.Changed("host") {
			cfg.Transport.Host, _ = flags.GetString("host")
		}
		if flags.Changed("port") {
			cfg.Transport.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("base-url") {
			cfg.Transport.BaseURL, _ = flags.GetString("base-url")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ValidateTools(tools.NewDefaultRegistry(nil).Names()); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
}
