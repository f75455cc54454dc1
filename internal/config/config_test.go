package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "hello-mcp", config.Name)
	assert.Equal(t, "1.0.0", config.Version)
	assert.Equal(t, TransportStdio, config.Transport.Type)
	assert.Equal(t, "localhost:8080", config.Addr())
	assert.Equal(t, "info", config.LogLevel)
	assert.Equal(t, "text", config.LogFormat)
	require.NoError(t, config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "missing name",
			config: &Config{
				Version:   "1.0.0",
				Transport: TransportConfig{Type: TransportStdio},
			},
			wantErr: true,
			errMsg:  "server name is required",
		},
		{
			name: "missing version",
			config: &Config{
				Name:      "Test",
				Transport: TransportConfig{Type: TransportStdio},
			},
			wantErr: true,
			errMsg:  "server version is required",
		},
		{
			name: "unsupported transport",
			config: &Config{
				Name:      "Test",
				Version:   "1.0.0",
				Transport: TransportConfig{Type: "websocket"},
			},
			wantErr: true,
			errMsg:  "unsupported transport type",
		},
		{
			name: "invalid port for sse",
			config: &Config{
				Name:      "Test",
				Version:   "1.0.0",
				Transport: TransportConfig{Type: TransportSSE, Port: 0},
			},
			wantErr: true,
			errMsg:  "valid port number is required",
		},
		{
			name: "port out of range for http",
			config: &Config{
				Name:      "Test",
				Version:   "1.0.0",
				Transport: TransportConfig{Type: TransportHTTP, Port: 70000},
			},
			wantErr: true,
			errMsg:  "valid port number is required",
		},
		{
			name: "valid http config",
			config: &Config{
				Name:      "Test",
				Version:   "1.0.0",
				Transport: TransportConfig{Type: TransportHTTP, Port: 9090},
			},
			wantErr: false,
		},
		{
			name: "tool both enabled and disabled",
			config: &Config{
				Name:      "Test",
				Version:   "1.0.0",
				Transport: TransportConfig{Type: TransportStdio},
				Tools: ToolsConfig{
					Enabled:  []string{"hello"},
					Disabled: []string{"hello"},
				},
			},
			wantErr: true,
			errMsg:  "both enabled and disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)

				var cfgErr *ConfigError
				assert.True(t, errors.As(err, &cfgErr))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateFillsDefaults(t *testing.T) {
	config := &Config{
		Name:      "Test",
		Version:   "1.0.0",
		Transport: TransportConfig{Type: TransportSSE, Port: 8081},
	}

	require.NoError(t, config.Validate())
	assert.Equal(t, "localhost", config.Transport.Host)
	assert.Equal(t, 5*time.Second, config.Transport.Timeout)
}

func TestConfig_IsToolEnabled(t *testing.T) {
	tests := []struct {
		name        string
		tools       ToolsConfig
		toolName    string
		wantEnabled bool
	}{
		{
			name:        "no filters - all enabled",
			toolName:    "hello",
			wantEnabled: true,
		},
		{
			name:        "explicitly enabled",
			tools:       ToolsConfig{Enabled: []string{"hello"}},
			toolName:    "hello",
			wantEnabled: true,
		},
		{
			name:        "not in enabled list",
			tools:       ToolsConfig{Enabled: []string{"hello"}},
			toolName:    "time",
			wantEnabled: false,
		},
		{
			name:        "explicitly disabled",
			tools:       ToolsConfig{Disabled: []string{"time"}},
			toolName:    "time",
			wantEnabled: false,
		},
		{
			name:        "not in disabled list",
			tools:       ToolsConfig{Disabled: []string{"time"}},
			toolName:    "hello",
			wantEnabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Tools = tt.tools
			assert.Equal(t, tt.wantEnabled, config.IsToolEnabled(tt.toolName))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "config.yaml")
		configContent := `
name: "Test Server"
version: "2.0.0"
log_level: debug

transport:
  type: sse
  host: 0.0.0.0
  port: 9000
  timeout: 10s

tools:
  disabled: ["time"]
`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)

		assert.Equal(t, "Test Server", config.Name)
		assert.Equal(t, "2.0.0", config.Version)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, "text", config.LogFormat, "unset fields keep their defaults")
		assert.Equal(t, TransportSSE, config.Transport.Type)
		assert.Equal(t, "0.0.0.0:9000", config.Addr())
		assert.Equal(t, 10*time.Second, config.Transport.Timeout)
		assert.False(t, config.IsToolEnabled("time"))
		assert.True(t, config.IsToolEnabled("hello"))
	})

	t.Run("json", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "config.json")
		configContent := `{"name": "Json Server", "transport": {"type": "http", "port": 8181}}`
		require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

		config, err := LoadConfig(configPath)
		require.NoError(t, err)

		assert.Equal(t, "Json Server", config.Name)
		assert.Equal(t, "1.0.0", config.Version)
		assert.Equal(t, TransportHTTP, config.Transport.Type)
		assert.Equal(t, 8181, config.Transport.Port)
	})

	t.Run("json timeout", func(t *testing.T) {
		tests := []struct {
			name    string
			timeout string
			want    time.Duration
			wantErr string
		}{
			{name: "duration string", timeout: `"10s"`, want: 10 * time.Second},
			{name: "compound duration", timeout: `"1m30s"`, want: 90 * time.Second},
			{name: "bare number", timeout: `10`, wantErr: "must be a duration string"},
			{name: "bad string", timeout: `"soon"`, wantErr: "transport.timeout"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.json")
				configContent := `{"transport": {"type": "stdio", "timeout": ` + tt.timeout + `}}`
				require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

				config, err := LoadConfig(configPath)
				if tt.wantErr != "" {
					require.Error(t, err)
					assert.Contains(t, err.Error(), tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, config.Transport.Timeout)
				assert.Equal(t, "localhost", config.Transport.Host, "unset transport fields keep their defaults")
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tempDir, "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "config.toml")
		require.NoError(t, os.WriteFile(configPath, []byte("name = 'x'"), 0644))

		_, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file format")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "broken.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("name: [unclosed"), 0644))

		_, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML config")
	})
}

func TestSaveConfig(t *testing.T) {
	tempDir := t.TempDir()

	for _, file := range []string{"saved.yaml", "nested/saved.json"} {
		t.Run(file, func(t *testing.T) {
			configPath := filepath.Join(tempDir, file)

			config := DefaultConfig()
			config.Name = "Test Saved Config"
			config.Tools.Enabled = []string{"hello"}

			require.NoError(t, SaveConfig(config, configPath))

			loaded, err := LoadConfig(configPath)
			require.NoError(t, err)
			assert.Equal(t, config.Name, loaded.Name)
			assert.Equal(t, []string{"hello"}, loaded.Tools.Enabled)
			assert.Equal(t, config.Transport, loaded.Transport)
		})
	}

	t.Run("json timeout is a duration string", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "timeout.json")
		require.NoError(t, SaveConfig(DefaultConfig(), configPath))

		data, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"timeout": "5s"`)
	})

	t.Run("replaces existing file", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("name: old\n"), 0600))

		require.NoError(t, SaveConfig(DefaultConfig(), configPath))

		loaded, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "hello-mcp", loaded.Name)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "no temporary files left behind")
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		config := DefaultConfig()
		config.Name = ""

		err := SaveConfig(config, filepath.Join(tempDir, "invalid.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestConfig_ValidateTools(t *testing.T) {
	known := []string{"hello", "time"}

	tests := []struct {
		name      string
		tools     ToolsConfig
		wantField string
	}{
		{name: "empty lists", tools: ToolsConfig{}},
		{name: "known names", tools: ToolsConfig{Enabled: []string{"hello"}, Disabled: []string{"time"}}},
		{name: "misspelled enabled", tools: ToolsConfig{Enabled: []string{"hallo"}}, wantField: "tools.enabled"},
		{name: "misspelled disabled", tools: ToolsConfig{Disabled: []string{"tme"}}, wantField: "tools.disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Tools = tt.tools

			err := config.ValidateTools(known)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			assert.Equal(t, tt.wantField, configErr.Field)
			assert.Contains(t, err.Error(), "unknown tool")
		})
	}
}
