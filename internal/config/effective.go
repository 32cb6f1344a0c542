package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Source.Kind == SourceEnv && e.Source.Name != "" {
		return fmt.Sprintf("%s (from $%s): %v", e.Path, e.Source.Name, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies a merged raw layer on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.ProductName != nil {
		cfg.ProductName = *raw.ProductName
	}
	if raw.Platform != nil {
		cfg.Platform = *raw.Platform
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.SettingsFile != nil {
		cfg.SettingsFile = *raw.SettingsFile
	}

	if raw.Content != nil {
		if raw.Content.Dir != nil {
			cfg.Content.Dir = *raw.Content.Dir
		}
		if raw.Content.Splash != nil {
			cfg.Content.Splash = *raw.Content.Splash
		}
		if raw.Content.Main != nil {
			cfg.Content.Main = *raw.Content.Main
		}
	}

	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		if raw.Logging.MaxSizeMB != nil {
			cfg.Logging.MaxSizeMB = *raw.Logging.MaxSizeMB
		}
		if raw.Logging.MaxFiles != nil {
			cfg.Logging.MaxFiles = *raw.Logging.MaxFiles
		}
	}

	if raw.Service != nil {
		if raw.Service.Listen != nil {
			cfg.Service.Listen = *raw.Service.Listen
		}
		if raw.Service.Metrics != nil {
			cfg.Service.Metrics = *raw.Service.Metrics
		}
		if raw.Service.MCP != nil {
			cfg.Service.MCP = *raw.Service.MCP
		}
	}

	return cfg
}
