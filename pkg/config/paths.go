package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath overrides the config file lookup.
	EnvConfigPath = "PLACER_CONFIG"

	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "placer.toml"

	// AppDirName names the per-user directories.
	AppDirName = "placer"
)

// FindConfigPath returns the first config file that exists, or "".
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}
		return ConfigFileName
	}

	if dir, err := ConfigDir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// DefaultConfigPath is where a new config file is written.
func DefaultConfigPath() string {
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, "config.toml")
	}
	return ConfigFileName
}

// ConfigDir returns $XDG_CONFIG_HOME/placer or ~/.config/placer.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/placer or ~/.cache/placer.
func CacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/placer or ~/.local/share/placer.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppDirName), nil
}

// EnsureConfigDir creates the directory holding configPath.
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
