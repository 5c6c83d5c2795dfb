// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/stratagem/internal/logger"
	"github.com/mark3labs/stratagem/internal/upload"
)

// Config holds all configuration values for stratagem.
type Config struct {
	DataDir     string       `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel    string       `mapstructure:"log_level" yaml:"log_level"`
	LogFile     string       `mapstructure:"log_file" yaml:"log_file"`
	ContentFile string       `mapstructure:"content_file" yaml:"content_file"`
	Campaign    string       `mapstructure:"campaign" yaml:"campaign"`
	MCP         bool         `mapstructure:"mcp" yaml:"mcp"`
	MCPPort     int          `mapstructure:"mcp_port" yaml:"mcp_port"`
	Upload      upload.Rules `mapstructure:"upload" yaml:"upload"`
}

// envKeys are bound explicitly so nested keys and bools parse from the
// environment even when no config file mentions them.
var envKeys = []string{
	"data_dir",
	"log_level",
	"log_file",
	"content_file",
	"campaign",
	"mcp",
	"mcp_port",
	"upload.max_bytes",
	"upload.allowed_types",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stratagem")

	defaults := Default()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("content_file", "")
	v.SetDefault("campaign", "")
	v.SetDefault("mcp", false)
	v.SetDefault("mcp_port", 0)
	v.SetDefault("upload.max_bytes", defaults.Upload.MaxBytes)
	v.SetDefault("upload.allowed_types", defaults.Upload.AllowedTypes)

	// Setup ENV binding with STRATAGEM_ prefix
	v.SetEnvPrefix("STRATAGEM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		env := "STRATAGEM_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Upload.AllowedTypes = splitTypes(cfg.Upload.AllowedTypes)

	logger.Debug("config loaded: data_dir=%s content_file=%q mcp=%v", cfg.DataDir, cfg.ContentFile, cfg.MCP)
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:  ".stratagem",
		LogLevel: "info",
		Upload:   upload.DefaultRules(),
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if len(c.Upload.AllowedTypes) == 0 {
		return fmt.Errorf("upload.allowed_types must list at least one content type")
	}
	if c.MCPPort < 0 || c.MCPPort > 65535 {
		return fmt.Errorf("mcp_port out of range: %d", c.MCPPort)
	}
	return nil
}

// Rules returns the upload rules configured for this run.
func (c *Config) Rules() upload.Rules {
	return upload.Rules{
		AllowedTypes: append([]string(nil), c.Upload.AllowedTypes...),
		MaxBytes:     c.Upload.MaxBytes,
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stratagem/stratagem.yml or $XDG_CONFIG_HOME/stratagem/stratagem.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stratagem", "stratagem.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stratagem", "stratagem.yml")
}

// ProjectPath returns the project-local config path.
// Returns ./stratagem.yml in the current working directory.
func ProjectPath() string {
	return "stratagem.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// splitTypes accepts both a YAML list and a single comma-separated env value.
func splitTypes(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
