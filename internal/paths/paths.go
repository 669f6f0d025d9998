package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	settingsDirName = ".dmsweep"
	sessionFileName = "session.json"
	configFileName  = "config.yaml"
)

// SettingsDir returns the directory holding dmsweep's persisted state
// (session file, optional config file).
//
// Resolution order:
// 1. DMSWEEP_HOME environment variable, if set
// 2. ~/.dmsweep under the user's home directory.
func SettingsDir() (string, error) {
	if dir := os.Getenv("DMSWEEP_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, settingsDirName), nil
}

// EnsureSettingsDir returns the settings directory, creating it if needed.
// The directory is created with owner-only permissions because it holds
// the session file.
func EnsureSettingsDir() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create settings directory: %w", err)
	}
	return dir, nil
}

// SessionFile returns the path to the persisted session file.
func SessionFile(settingsDir string) string {
	return filepath.Join(settingsDir, sessionFileName)
}

// ConfigFile returns the path to the optional config file.
func ConfigFile(settingsDir string) string {
	return filepath.Join(settingsDir, configFileName)
}
