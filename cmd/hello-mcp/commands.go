package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"hello-mcp/internal/config"
	mcpserver "hello-mcp/internal/mcp/server"
	"hello-mcp/internal/tools"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools this server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			registry := tools.NewDefaultRegistry(tools.SystemClock).Filter(cfg.IsToolEnabled)
			list := registry.List()

			format, _ := cmd.Flags().GetString("format")
			out := cmd.OutOrStdout()

			switch format {
			case "json":
				wire, err := mcpserver.ListMCPTools(registry)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(wire, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode tools: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(list)
				if err != nil {
					return fmt.Errorf("failed to encode tools: %w", err)
				}
				fmt.Fprint(out, string(data))
			case "text":
				for _, desc := range list {
					fmt.Fprintf(out, "%-8s %s\n", desc.Name, desc.Description)
					for _, p := range desc.InputSchema.Properties {
						required := ""
						if desc.InputSchema.IsRequired(p.Name) {
							required = ", required"
						}
						fmt.Fprintf(out, "         --arg %s=<%s%s>  %s\n", p.Name, p.Type, required, p.Description)
					}
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format (text, json, yaml)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}
	cmd.AddCommand(configInitCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults and any flag overrides",
		Example: `  hello-mcp config init
  hello-mcp config init --output server.json --transport http --port 9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", output)
			}

			if err := config.SaveConfig(cfg, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "hello-mcp.yaml", "Path of the file to write (.yaml, .yml or .json)")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	addTransportFlags(cmd)
	return cmd
}

func callCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Invoke a tool locally and print its result",
		Example: `  hello-mcp call hello --arg name=Ada
  hello-mcp call hello --json '{"name":"Ada"}'
  hello-mcp call time`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			registry := tools.NewDefaultRegistry(tools.SystemClock).Filter(cfg.IsToolEnabled)

			arguments, err := parseArguments(cmd)
			if err != nil {
				return err
			}

			result, err := registry.Call(cmd.Context(), args[0], arguments)
			if err != nil {
				return err
			}

			for _, c := range result.Content {
				fmt.Fprintln(cmd.OutOrStdout(), c.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringArray("arg", nil, "Tool argument as key=value (repeatable)")
	cmd.Flags().String("json", "", "Tool arguments as a JSON object")
	return cmd
}

// parseArguments merges --json and --arg values; --arg wins on conflicts.
func parseArguments(cmd *cobra.Command) (tools.Arguments, error) {
	arguments := tools.Arguments{}

	if raw, _ := cmd.Flags().GetString("json"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
			return nil, fmt.Errorf("invalid --json arguments: %w", err)
		}
		if arguments == nil {
			arguments = tools.Arguments{}
		}
	}

	pairs, _ := cmd.Flags().GetStringArray("arg")
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		arguments[key] = value
	}

	return arguments, nil
}
