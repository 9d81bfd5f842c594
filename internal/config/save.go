package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# voxelify configuration; command-line flags override these values.\n"

// Save writes the config to the user config directory.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), FileName))
}

// SaveTo writes the config as YAML to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	data, err := c.marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
