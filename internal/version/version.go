package version

import "runtime"

// Build information, injected via ldflags at build time
var (
	// Version is the release version shown in the window title
	Version = "dev"
	// Commit is the git commit SHA
	Commit = "unknown"
)

// Info holds build information reported over IPC.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
	}
}
