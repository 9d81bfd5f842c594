// Package config handles voxelify configuration loading and management.
package config

import (
	"fmt"

	"github.com/EngoDev/voxelify/internal/logger"
	"github.com/EngoDev/voxelify/pkg/convert"
	"github.com/EngoDev/voxelify/pkg/glb"
	"github.com/EngoDev/voxelify/pkg/voxel"
)

// FileName is the config file looked up in the working and config directories.
const FileName = "voxelify.yaml"

// Config holds all conversion settings.
type Config struct {
	Voxel   VoxelConfig   `yaml:"voxel"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// VoxelConfig holds grid and culling settings.
type VoxelConfig struct {
	Depth   uint32  `yaml:"depth"`
	Scale   float32 `yaml:"scale"`
	YUp     bool    `yaml:"y_up"`
	Workers int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// InputConfig holds source preprocessing settings.
type InputConfig struct {
	FlipHorizontal bool     `yaml:"flip_horizontal"`
	FlipVertical   bool     `yaml:"flip_vertical"`
	ColorKey       bool     `yaml:"color_key"` // magenta becomes transparent
	Frame          int      `yaml:"frame"`     // SPR image index
	Action         string   `yaml:"action"`    // ACT pose such as "walk:sw"; empty = raw SPR frame
	ActFrame       int      `yaml:"act_frame"` // frame within the action
	GRFPaths       []string `yaml:"grf_paths"` // archives searched for inputs
}

// OutputConfig holds destination settings.
type OutputConfig struct {
	Dir       string `yaml:"dir"` // empty = next to the input
	Generator string `yaml:"generator"`
	Overwrite bool   `yaml:"overwrite"`
}

// BatchConfig holds multi-file conversion settings.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"` // 0 = GOMAXPROCS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	vc := voxel.DefaultConfig()
	return &Config{
		Voxel: VoxelConfig{
			Depth:   vc.Depth,
			Scale:   vc.Scale,
			YUp:     vc.YUp,
			Workers: 0,
		},
		Input: InputConfig{
			Frame: 0,
		},
		Output: OutputConfig{
			Generator: glb.DefaultOptions().Generator,
			Overwrite: true,
		},
		Batch: BatchConfig{
			Concurrency: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// VoxelOptions converts the voxel section to the grid configuration.
func (c *Config) VoxelOptions() voxel.Config {
	return voxel.Config{
		Depth:   c.Voxel.Depth,
		Scale:   c.Voxel.Scale,
		YUp:     c.Voxel.YUp,
		Workers: c.Voxel.Workers,
	}
}

// ConvertOptions returns the pipeline options for an output named name.
func (c *Config) ConvertOptions(name string) convert.Options {
	opts := convert.DefaultOptions()
	opts.Voxel = c.VoxelOptions()
	opts.GLB.Generator = c.Output.Generator
	if name != "" {
		opts.GLB.Name = name
	}
	return opts
}

// Validate checks every section. Voxel errors wrap voxel.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if err := c.VoxelOptions().Validate(); err != nil {
		return err
	}
	if c.Input.Frame < 0 {
		return fmt.Errorf("%w: frame must not be negative, got %d", voxel.ErrInvalidConfiguration, c.Input.Frame)
	}
	if c.Input.ActFrame < 0 {
		return fmt.Errorf("%w: act frame must not be negative, got %d", voxel.ErrInvalidConfiguration, c.Input.ActFrame)
	}
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("%w: batch concurrency must not be negative, got %d", voxel.ErrInvalidConfiguration, c.Batch.Concurrency)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", voxel.ErrInvalidConfiguration, err)
	}
	return nil
}
