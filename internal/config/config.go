package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProductName = "Bot Framework Emulator"
	DefaultSplashPage  = "splash.html"
	DefaultMainPage    = "index.html"
	DefaultListen      = "127.0.0.1:0"
)

// ContentConfig locates the pages loaded into the main window.
type ContentConfig struct {
	Dir    string `yaml:"dir"`
	Splash string `yaml:"splash"`
	Main   string `yaml:"main"`
}

// LoggingConfig controls the slog level and the rotating log file.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// ServiceConfig controls the background service started at process entry.
type ServiceConfig struct {
	// Listen is the HTTP address for health, metrics and MCP. Empty disables
	// the HTTP listener; the IPC socket is always served.
	Listen  string `yaml:"listen"`
	Metrics bool   `yaml:"metrics"`
	MCP     bool   `yaml:"mcp"`
}

// Config is the effective application configuration.
type Config struct {
	ProductName  string        `yaml:"product_name"`
	Platform     string        `yaml:"platform"`
	Display      string        `yaml:"display"`
	SettingsFile string        `yaml:"settings_file"`
	Content      ContentConfig `yaml:"content"`
	Logging      LoggingConfig `yaml:"logging"`
	Service      ServiceConfig `yaml:"service"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ProductName: DefaultProductName,
		Content: ContentConfig{
			Splash: DefaultSplashPage,
			Main:   DefaultMainPage,
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
		Service: ServiceConfig{
			Listen:  DefaultListen,
			Metrics: true,
			MCP:     true,
		},
	}
}

// GetPlatform returns the configured platform override or runtime.GOOS.
func (c *Config) GetPlatform() string {
	if c == nil || strings.TrimSpace(c.Platform) == "" {
		return runtime.GOOS
	}
	return c.Platform
}

// GetContentDir returns the content directory, defaulting to a "client"
// directory next to the executable.
func (c *Config) GetContentDir() string {
	if c != nil && c.Content.Dir != "" {
		return c.Content.Dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "client"
	}
	return filepath.Join(filepath.Dir(exe), "client")
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/appshell/appshell.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProductName) == "" {
		return &ValidationError{Path: "product_name", Err: fmt.Errorf("product_name is required")}
	}
	if strings.TrimSpace(c.Content.Splash) == "" {
		return &ValidationError{Path: "content.splash", Err: fmt.Errorf("splash page is required")}
	}
	if strings.TrimSpace(c.Content.Main) == "" {
		return &ValidationError{Path: "content.main", Err: fmt.Errorf("main page is required")}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging.max_files", Err: fmt.Errorf("max_files must be >= 0")}
	}
	if c.Service.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Service.Listen); err != nil {
			return &ValidationError{Path: "service.listen", Err: fmt.Errorf("listen must be host:port: %w", err)}
		}
	}
	return nil
}
