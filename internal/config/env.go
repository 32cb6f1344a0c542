package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides, e.g. APPSHELL_LOG_LEVEL.
const EnvPrefix = "APPSHELL"

type envOverrides struct {
	ProductName  *string `split_words:"true"`
	Platform     *string
	Display      *string
	SettingsFile *string `split_words:"true"`
	ContentDir   *string `split_words:"true"`
	LogLevel     *string `split_words:"true"`
	LogFile      *string `split_words:"true"`
	Listen       *string
}

// loadEnvLayer reads APPSHELL_* variables into a raw layer applied after all
// files.
func loadEnvLayer() (RawConfig, map[string]Source, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return RawConfig{}, nil, fmt.Errorf("environment overrides: %w", err)
	}

	raw := RawConfig{}
	sources := map[string]Source{}
	set := func(path, name string) {
		sources[path] = Source{Kind: SourceEnv, Name: EnvPrefix + "_" + name}
	}

	if env.ProductName != nil {
		raw.ProductName = env.ProductName
		set("product_name", "PRODUCT_NAME")
	}
	if env.Platform != nil {
		raw.Platform = env.Platform
		set("platform", "PLATFORM")
	}
	if env.Display != nil {
		raw.Display = env.Display
		set("display", "DISPLAY")
	}
	if env.SettingsFile != nil {
		raw.SettingsFile = env.SettingsFile
		set("settings_file", "SETTINGS_FILE")
	}
	if env.ContentDir != nil {
		raw.Content = &RawContentConfig{Dir: env.ContentDir}
		set("content.dir", "CONTENT_DIR")
	}
	if env.LogLevel != nil || env.LogFile != nil {
		raw.Logging = &RawLoggingConfig{Level: env.LogLevel, File: env.LogFile}
		if env.LogLevel != nil {
			set("logging.level", "LOG_LEVEL")
		}
		if env.LogFile != nil {
			set("logging.file", "LOG_FILE")
		}
	}
	if env.Listen != nil {
		raw.Service = &RawServiceConfig{Listen: env.Listen}
		set("service.listen", "LISTEN")
	}

	return raw, sources, nil
}
