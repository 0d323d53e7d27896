//go:build !windows

package log

import (
	"os"
	"path/filepath"
	"runtime"
)

// Logs are state, not configuration: ~/Library/Logs on macOS and
// $XDG_STATE_HOME elsewhere.
func getDefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", appDir), nil
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" || !filepath.IsAbs(state) {
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, appDir, "logs"), nil
}
