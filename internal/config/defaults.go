package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppName = "uasset-packer"

	// Bundled tool layout
	ToolsSubdir       = "tools"
	DefaultConverter  = "UAssetGUI.exe"
	DefaultPacker     = "UnrealPak.exe"
	DefaultManifest   = "filelist.txt"
	DefaultArchiveExt = "pak"

	// Files under the data directory
	ConfigFileName = "config.yml"
	DBFileName     = "packer.db"
)

// DefaultDataDir returns <user config dir>/uasset-packer.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultConfigPath returns the config.yml path inside the default data dir.
// Falls back to a path relative to the working directory when no user
// config dir is available.
func DefaultConfigPath() string {
	dir, err := DefaultDataDir()
	if err != nil {
		return ConfigFileName
	}
	return filepath.Join(dir, ConfigFileName)
}
