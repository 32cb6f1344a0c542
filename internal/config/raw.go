package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawContentConfig struct {
	Dir    *string `yaml:"dir"`
	Splash *string `yaml:"splash"`
	Main   *string `yaml:"main"`
}

type RawLoggingConfig struct {
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawServiceConfig struct {
	Listen  *string `yaml:"listen"`
	Metrics *bool   `yaml:"metrics"`
	MCP     *bool   `yaml:"mcp"`
}

// RawConfig is one configuration layer; nil fields are unset.
type RawConfig struct {
	Include      IncludeList       `yaml:"include"`
	ProductName  *string           `yaml:"product_name"`
	Platform     *string           `yaml:"platform"`
	Display      *string           `yaml:"display"`
	SettingsFile *string           `yaml:"settings_file"`
	Content      *RawContentConfig `yaml:"content"`
	Logging      *RawLoggingConfig `yaml:"logging"`
	Service      *RawServiceConfig `yaml:"service"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.ProductName != nil {
		out.ProductName = overlay.ProductName
	}
	if overlay.Platform != nil {
		out.Platform = overlay.Platform
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.SettingsFile != nil {
		out.SettingsFile = overlay.SettingsFile
	}
	if overlay.Content != nil {
		merged := RawContentConfig{}
		if out.Content != nil {
			merged = *out.Content
		}
		if overlay.Content.Dir != nil {
			merged.Dir = overlay.Content.Dir
		}
		if overlay.Content.Splash != nil {
			merged.Splash = overlay.Content.Splash
		}
		if overlay.Content.Main != nil {
			merged.Main = overlay.Content.Main
		}
		out.Content = &merged
	}
	if overlay.Logging != nil {
		merged := RawLoggingConfig{}
		if out.Logging != nil {
			merged = *out.Logging
		}
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		if overlay.Logging.MaxSizeMB != nil {
			merged.MaxSizeMB = overlay.Logging.MaxSizeMB
		}
		if overlay.Logging.MaxFiles != nil {
			merged.MaxFiles = overlay.Logging.MaxFiles
		}
		out.Logging = &merged
	}
	if overlay.Service != nil {
		merged := RawServiceConfig{}
		if out.Service != nil {
			merged = *out.Service
		}
		if overlay.Service.Listen != nil {
			merged.Listen = overlay.Service.Listen
		}
		if overlay.Service.Metrics != nil {
			merged.Metrics = overlay.Service.Metrics
		}
		if overlay.Service.MCP != nil {
			merged.MCP = overlay.Service.MCP
		}
		out.Service = &merged
	}

	return out
}
