package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/EngoDev/voxelify/pkg/voxel"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Voxel.Depth != 1 {
		t.Errorf("expected depth 1, got %d", cfg.Voxel.Depth)
	}
	if cfg.Voxel.Scale != 1.0 {
		t.Errorf("expected scale 1.0, got %f", cfg.Voxel.Scale)
	}
	if !cfg.Voxel.YUp {
		t.Error("expected y_up to be true by default")
	}
	if cfg.Output.Generator != "voxelify" {
		t.Errorf("expected generator 'voxelify', got %s", cfg.Output.Generator)
	}
	if !cfg.Output.Overwrite {
		t.Error("expected overwrite to be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
voxel:
  depth: 4
  scale: 0.25
  y_up: false
  workers: 2

input:
  flip_horizontal: true
  color_key: true
  frame: 3
  action: "walk:sw"
  act_frame: 2
  grf_paths:
    - data.grf
    - rdata.grf

output:
  dir: "out"
  generator: "pipeline"
  overwrite: false

batch:
  concurrency: 6

logging:
  level: "debug"
  log_file: "voxelify.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Voxel.Depth != 4 {
		t.Errorf("expected depth 4, got %d", cfg.Voxel.Depth)
	}
	if cfg.Voxel.Scale != 0.25 {
		t.Errorf("expected scale 0.25, got %f", cfg.Voxel.Scale)
	}
	if cfg.Voxel.YUp {
		t.Error("expected y_up to be false")
	}
	if cfg.Voxel.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Voxel.Workers)
	}
	if !cfg.Input.FlipHorizontal || cfg.Input.FlipVertical {
		t.Errorf("expected only horizontal flip, got %+v", cfg.Input)
	}
	if !cfg.Input.ColorKey {
		t.Error("expected color_key to be true")
	}
	if cfg.Input.Frame != 3 {
		t.Errorf("expected frame 3, got %d", cfg.Input.Frame)
	}
	if cfg.Input.Action != "walk:sw" || cfg.Input.ActFrame != 2 {
		t.Errorf("expected pose walk:sw frame 2, got %q frame %d", cfg.Input.Action, cfg.Input.ActFrame)
	}
	if len(cfg.Input.GRFPaths) != 2 || cfg.Input.GRFPaths[1] != "rdata.grf" {
		t.Errorf("expected two GRF paths, got %v", cfg.Input.GRFPaths)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Generator != "pipeline" || cfg.Output.Overwrite {
		t.Errorf("unexpected output section %+v", cfg.Output)
	}
	if cfg.Batch.Concurrency != 6 {
		t.Errorf("expected concurrency 6, got %d", cfg.Batch.Concurrency)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "voxelify.log" {
		t.Errorf("unexpected logging section %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
voxel:
  depth: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/voxelify.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero depth", func(c *Config) { c.Voxel.Depth = 0 }},
		{"zero scale", func(c *Config) { c.Voxel.Scale = 0 }},
		{"negative scale", func(c *Config) { c.Voxel.Scale = -1 }},
		{"negative workers", func(c *Config) { c.Voxel.Workers = -1 }},
		{"negative frame", func(c *Config) { c.Input.Frame = -2 }},
		{"negative act frame", func(c *Config) { c.Input.ActFrame = -1 }},
		{"negative concurrency", func(c *Config) { c.Batch.Concurrency = -1 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, voxel.ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestConvertOptions(t *testing.T) {
	cfg := Default()
	cfg.Voxel.Depth = 3
	cfg.Voxel.Scale = 2
	cfg.Output.Generator = "tool"

	opts := cfg.ConvertOptions("poring")
	if opts.Voxel.Depth != 3 || opts.Voxel.Scale != 2 || !opts.Voxel.YUp {
		t.Errorf("unexpected voxel options %+v", opts.Voxel)
	}
	if opts.GLB.Generator != "tool" || opts.GLB.Name != "poring" {
		t.Errorf("unexpected GLB options %+v", opts.GLB)
	}

	if opts := cfg.ConvertOptions(""); opts.GLB.Name == "" {
		t.Error("expected default mesh name when none is given")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("voxel:\n  depth: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find voxelify.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "voxel flags",
			setup: func() {
				*flagDepth = 5
				*flagScale = 0.5
				*flagYDown = true
				*flagWorkers = 0
			},
			verify: func(cfg *Config) {
				if cfg.Voxel.Depth != 5 || cfg.Voxel.Scale != 0.5 || cfg.Voxel.YUp || cfg.Voxel.Workers != 0 {
					t.Errorf("unexpected voxel section %+v", cfg.Voxel)
				}
			},
			teardown: func() {
				*flagDepth = 0
				*flagScale = 0
				*flagYDown = false
				*flagWorkers = -1
			},
		},
		{
			name: "input flags",
			setup: func() {
				*flagFlipV = true
				*flagColorKey = true
				*flagFrame = 2
				*flagAction = "idle:n"
				*flagActFrame = 1
				*flagGRF = "data.grf, rdata.grf,"
			},
			verify: func(cfg *Config) {
				if !cfg.Input.FlipVertical || !cfg.Input.ColorKey || cfg.Input.Frame != 2 {
					t.Errorf("unexpected input section %+v", cfg.Input)
				}
				if cfg.Input.Action != "idle:n" || cfg.Input.ActFrame != 1 {
					t.Errorf("expected pose idle:n frame 1, got %q frame %d", cfg.Input.Action, cfg.Input.ActFrame)
				}
				if len(cfg.Input.GRFPaths) != 2 || cfg.Input.GRFPaths[0] != "data.grf" || cfg.Input.GRFPaths[1] != "rdata.grf" {
					t.Errorf("expected [data.grf rdata.grf], got %v", cfg.Input.GRFPaths)
				}
			},
			teardown: func() {
				*flagFlipV = false
				*flagColorKey = false
				*flagFrame = -1
				*flagAction = ""
				*flagActFrame = -1
				*flagGRF = ""
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "build"
				*flagGenerator = "ci"
				*flagNoOverwrite = true
				*flagConcurrency = 3
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "build" || cfg.Output.Generator != "ci" || cfg.Output.Overwrite {
					t.Errorf("unexpected output section %+v", cfg.Output)
				}
				if cfg.Batch.Concurrency != 3 {
					t.Errorf("expected concurrency 3, got %d", cfg.Batch.Concurrency)
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagGenerator = ""
				*flagNoOverwrite = false
				*flagConcurrency = -1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")

	yamlContent := `
voxel:
  depth: 3
  scale: 2.5
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagDepth = 8
	defer func() {
		*flagConfig = ""
		*flagDepth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// depth from flag, scale from file
	if cfg.Voxel.Depth != 8 {
		t.Errorf("expected depth 8 from flag, got %d", cfg.Voxel.Depth)
	}
	if cfg.Voxel.Scale != 2.5 {
		t.Errorf("expected scale 2.5 from file, got %f", cfg.Voxel.Scale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("voxel:\n  depth: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, voxel.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Voxel.Depth = 7
	cfg.Input.GRFPaths = []string{"data.grf"}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Voxel.Depth != 7 {
		t.Errorf("expected depth 7 after reload, got %d", loaded.Voxel.Depth)
	}
	if len(loaded.Input.GRFPaths) != 1 || loaded.Input.GRFPaths[0] != "data.grf" {
		t.Errorf("expected [data.grf], got %v", loaded.Input.GRFPaths)
	}
}

func TestLoadFromFileUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	if err := os.WriteFile(path, []byte("voxel:\n  detph: 3\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), path); err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("expected empty file to load, got %v", err)
	}
	if cfg.Voxel.Depth != 1 {
		t.Errorf("expected defaults to survive, got depth %d", cfg.Voxel.Depth)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("batch:\n  concurrency: 5\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	t.Setenv(EnvConfig, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Batch.Concurrency != 5 {
		t.Errorf("expected concurrency 5 from %s, got %d", EnvConfig, cfg.Batch.Concurrency)
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(fileHeader)) {
		t.Errorf("expected header comment, got %q", data)
	}
	if !bytes.Contains(data, []byte("  depth: 1")) {
		t.Errorf("expected two-space indented voxel section, got %q", data)
	}
}
