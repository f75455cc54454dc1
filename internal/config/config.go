package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Supported transport types
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
	TransportHTTP  = "http"
)

// Config holds the complete application configuration
type Config struct {
	// Server information
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`

	// Transport configuration
	Transport TransportConfig `yaml:"transport" json:"transport"`

	// Tool configuration
	Tools ToolsConfig `yaml:"tools,omitempty" json:"tools,omitempty"`

	// Logging configuration
	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// TransportConfig defines how the MCP server is exposed
type TransportConfig struct {
	Type string `yaml:"type" json:"type"` // stdio, sse, http

	// For network transports
	Host    string `yaml:"host,omitempty" json:"host,omitempty"`
	Port    int    `yaml:"port,omitempty" json:"port,omitempty"`
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Graceful shutdown timeout
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ToolsConfig restricts which tools are exposed. An empty Enabled list means all tools.
type ToolsConfig struct {
	Enabled  []string `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Disabled []string `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Name:    "hello-mcp",
		Version: "1.0.0",
		Transport: TransportConfig{
			Type:    TransportStdio,
			Host:    "localhost",
			Port:    8080,
			Timeout: 5 * time.Second,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadConfig loads configuration from a file, on top of DefaultConfig
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := decodeConfig(filepath.Ext(configPath), data, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig validates config and writes it to configPath in the format implied by the
// extension. The file is replaced atomically.
func SaveConfig(config *Config, configPath string) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := encodeConfig(filepath.Ext(configPath), config)
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(configPath)+".*")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func decodeConfig(ext string, data []byte, config *Config) error {
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

func encodeConfig(ext string, config *Config) ([]byte, error) {
	switch ext {
	case ".yaml", ".yml":
		data, err := yaml.Marshal(config)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML config: %w", err)
		}
		return data, nil
	case ".json":
		data, err := json.MarshalIndent(config, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON config: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
}

// plainTransport has TransportConfig's fields without its JSON methods.
type plainTransport TransportConfig

// MarshalJSON writes the timeout as a duration string such as "5s".
func (t TransportConfig) MarshalJSON() ([]byte, error) {
	aux := struct {
		plainTransport
		Timeout string `json:"timeout,omitempty"`
	}{plainTransport: plainTransport(t)}
	if t.Timeout != 0 {
		aux.Timeout = t.Timeout.String()
	}
	return json.Marshal(aux)
}

// UnmarshalJSON reads the timeout as a duration string, matching the YAML form. Bare
// numbers are rejected rather than read as nanoseconds.
func (t *TransportConfig) UnmarshalJSON(data []byte) error {
	aux := struct {
		*plainTransport
		Timeout any `json:"timeout,omitempty"`
	}{plainTransport: (*plainTransport)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch v := aux.Timeout.(type) {
	case nil:
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: "transport.timeout", Message: err.Error()}
		}
		t.Timeout = d
	default:
		return &ConfigError{Field: "transport.timeout", Message: fmt.Sprintf("must be a duration string such as \"10s\", got %v", v)}
	}
	return nil
}

// Validate validates the configuration and fills in transport defaults
func (c *Config) Validate() error {
	if c.Name == "" {
		return &ConfigError{Field: "name", Message: "server name is required"}
	}

	if c.Version == "" {
		return &ConfigError{Field: "version", Message: "server version is required"}
	}

	switch c.Transport.Type {
	case TransportStdio:
		// No additional validation needed for stdio
	case TransportSSE, TransportHTTP:
		if c.Transport.Host == "" {
			c.Transport.Host = "localhost"
		}
		if c.Transport.Port <= 0 || c.Transport.Port > 65535 {
			return &ConfigError{Field: "transport.port", Message: "valid port number is required for " + c.Transport.Type + " transport"}
		}
	default:
		return &ConfigError{Field: "transport.type", Message: "unsupported transport type: " + c.Transport.Type}
	}

	if c.Transport.Timeout <= 0 {
		c.Transport.Timeout = 5 * time.Second
	}

	for _, enabled := range c.Tools.Enabled {
		for _, disabled := range c.Tools.Disabled {
			if enabled == disabled {
				return &ConfigError{Field: "tools", Message: "tool " + enabled + " is both enabled and disabled"}
			}
		}
	}

	return nil
}

// ValidateTools rejects tool names in the enabled and disabled lists that are not in known.
func (c *Config) ValidateTools(known []string) error {
	isKnown := make(map[string]bool, len(known))
	for _, name := range known {
		isKnown[name] = true
	}

	check := func(field string, names []string) error {
		for _, name := range names {
			if !isKnown[name] {
				return &ConfigError{Field: field, Message: fmt.Sprintf("unknown tool %q (available: %s)", name, strings.Join(known, ", "))}
			}
		}
		return nil
	}

	if err := check("tools.enabled", c.Tools.Enabled); err != nil {
		return err
	}
	return check("tools.disabled", c.Tools.Disabled)
}

// Addr returns the host:port listen address for network transports
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Transport.Host, c.Transport.Port)
}

// IsToolEnabled checks if a tool is enabled based on configuration
func (c *Config) IsToolEnabled(toolName string) bool {
	for _, disabled := range c.Tools.Disabled {
		if disabled == toolName {
			return false
		}
	}

	// An empty enabled list means every tool not explicitly disabled
	if len(c.Tools.Enabled) == 0 {
		return true
	}

	for _, enabled := range c.Tools.Enabled {
		if enabled == toolName {
			return true
		}
	}

	return false
}
