package config

import "fmt"

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	product_name
//	platform
//	display
//	settings_file
//	content.dir
//	content.splash
//	content.main
//	logging.level
//	logging.file
//	logging.max_size_mb
//	logging.max_files
//	service.listen
//	service.metrics
//	service.mcp
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "product_name":
		return cfg.ProductName, nil
	case "platform":
		return cfg.GetPlatform(), nil
	case "display":
		return cfg.Display, nil
	case "settings_file":
		return cfg.SettingsFile, nil
	case "content.dir":
		return cfg.GetContentDir(), nil
	case "content.splash":
		return cfg.Content.Splash, nil
	case "content.main":
		return cfg.Content.Main, nil
	case "logging.level":
		return cfg.Logging.Level, nil
	case "logging.file":
		return cfg.GetLoggingConfig().File, nil
	case "logging.max_size_mb":
		return cfg.Logging.MaxSizeMB, nil
	case "logging.max_files":
		return cfg.Logging.MaxFiles, nil
	case "service.listen":
		return cfg.Service.Listen, nil
	case "service.metrics":
		return cfg.Service.Metrics, nil
	case "service.mcp":
		return cfg.Service.MCP, nil
	default:
		return nil, fmt.Errorf("unknown config path %q", path)
	}
}
