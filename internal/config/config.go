package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration written to config.yml.
type Config struct {
	Tools   ToolsConfig   `yaml:"tools"`
	Archive ArchiveConfig `yaml:"archive"`
	DataDir string        `yaml:"data_dir"`
}

// ToolsConfig locates the two external executables.
type ToolsConfig struct {
	Dir       string   `yaml:"dir"`
	Converter string   `yaml:"converter"`
	Packer    string   `yaml:"packer"`
	Manifest  string   `yaml:"manifest"`
	Launcher  []string `yaml:"launcher,omitempty"`
}

type ArchiveConfig struct {
	Extension string `yaml:"extension"`
}

var extensionRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Default returns a config with every field set to its default.
func Default() *Config {
	return &Config{
		Tools: ToolsConfig{
			Converter: DefaultConverter,
			Packer:    DefaultPacker,
			Manifest:  DefaultManifest,
		},
		Archive: ArchiveConfig{
			Extension: DefaultArchiveExt,
		},
	}
}

// Load reads and parses a config file from the given path.
// A missing file is not an error: the defaults are returned instead.
// Fields left empty in the file fall back to their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Tools.Converter == "" {
		c.Tools.Converter = DefaultConverter
	}
	if c.Tools.Packer == "" {
		c.Tools.Packer = DefaultPacker
	}
	if c.Tools.Manifest == "" {
		c.Tools.Manifest = DefaultManifest
	}
	if c.Archive.Extension == "" {
		c.Archive.Extension = DefaultArchiveExt
	}
}

// Validate checks that all required fields are present and well-formed.
func (c *Config) Validate() error {
	for _, f := range []struct{ key, val string }{
		{"tools.converter", c.Tools.Converter},
		{"tools.packer", c.Tools.Packer},
		{"tools.manifest", c.Tools.Manifest},
	} {
		if strings.TrimSpace(f.val) == "" {
			return fmt.Errorf("%s is required", f.key)
		}
		if strings.ContainsAny(f.val, `/\`) {
			return fmt.Errorf("%s must be a file name, not a path (set tools.dir instead)", f.key)
		}
	}

	for i, arg := range c.Tools.Launcher {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("tools.launcher[%d] is empty", i)
		}
	}

	ext := c.Archive.Extension
	if ext == "" {
		return fmt.Errorf("archive.extension is required")
	}
	if strings.HasPrefix(ext, ".") {
		return fmt.Errorf("archive.extension must not start with '.'")
	}
	if !extensionRe.MatchString(ext) {
		return fmt.Errorf("archive.extension contains invalid characters")
	}

	return nil
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ResolveToolsDir returns the directory holding the external tools.
// An explicit tools.dir wins; otherwise the tools ship next to the
// executable, mirroring a bundled-resources layout.
func (c *Config) ResolveToolsDir() (string, error) {
	if c.Tools.Dir != "" {
		return filepath.Abs(c.Tools.Dir)
	}
	res, err := ResourceDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(res, ToolsSubdir), nil
}

// ResolveDataDir returns where the settings and run history live.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return filepath.Abs(c.DataDir)
	}
	return DefaultDataDir()
}

// ResourceDir is the directory containing the running executable.
// Overridden in tests.
var ResourceDir = func() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
