package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "VOXELIFY_CONFIG"

// Load builds the effective configuration: defaults, then the config file,
// then command-line flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first voxelify.yaml in the working directory
// or the user config directory.
func findConfigFile() string {
	for _, dir := range []string{".", ConfigDir()} {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "voxelify")
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			return filepath.Join(dir, "Voxelify")
		}
		return filepath.Join(dir, "voxelify")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "voxelify")
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelled setting does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
