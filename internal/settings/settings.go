// Package settings holds the process-wide settings aggregate. State changes
// only through Dispatch, which runs an Action through Reduce and hands the
// result to storage.
package settings

import (
	"github.com/1broseidon/appshell/internal/geometry"
)

// Settings is the persisted configuration aggregate.
type Settings struct {
	Framework   Framework         `yaml:"framework" json:"framework"`
	WindowState geometry.Geometry `yaml:"windowState" json:"windowState"`
}

// Framework holds the embedded service options edited from the UI.
type Framework struct {
	NgrokPath            string `yaml:"ngrokPath,omitempty" json:"ngrokPath,omitempty"`
	BypassNgrokLocalhost bool   `yaml:"bypassNgrokLocalhost" json:"bypassNgrokLocalhost"`
	StateSizeLimitKB     int    `yaml:"stateSizeLimitKB" json:"stateSizeLimitKB"`
	Locale               string `yaml:"locale,omitempty" json:"locale,omitempty"`
}

// Default returns the settings used when nothing has been persisted yet.
func Default() Settings {
	return Settings{
		Framework: Framework{
			BypassNgrokLocalhost: true,
			StateSizeLimitKB:     64,
			Locale:               "en-US",
		},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.WindowState = s.WindowState.Clone()
	return out
}
