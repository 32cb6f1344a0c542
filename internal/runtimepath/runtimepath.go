// Package runtimepath locates the per-user files a running appshell shares
// with later launches: the single-instance socket and the crash log.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the per-user directory a second launch looks in to find the
// running instance: $XDG_RUNTIME_DIR, else /run/user/<uid>, else a 0700
// /tmp/appshell-runtime-<uid> created on demand.
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/appshell-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the IPC socket the running instance listens on. A new
// launch that can ping it activates that instance and exits.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "appshell.sock"), nil
}

// CrashLogPath returns the file passed to debug.SetCrashOutput. It lives
// beside the socket so a crash report survives the process that wrote it.
func CrashLogPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "appshell-crash.log"), nil
}
