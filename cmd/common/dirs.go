package common

import (
	"os"
	"path/filepath"
)

const appName = "easywav"

// ConfigDir returns the per-user easywav directory holding config.json and the log file.
func ConfigDir() string {
	return filepath.Join(configHome(), appName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LogPath() string {
	return filepath.Join(ConfigDir(), appName+".log")
}

// https://specifications.freedesktop.org/basedir/latest/#variables
func configHome() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return dir
}
