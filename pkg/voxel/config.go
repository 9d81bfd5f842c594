// Package voxel turns a pixel source into a sparse voxel grid and extracts
// the faces of that grid which are visible from outside.
package voxel

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned for settings that cannot produce a grid.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxVoxels bounds the grid size, opaque pixels times depth.
const MaxVoxels = 1 << 26

// Config controls how pixels are extruded into voxels.
type Config struct {
	// Depth is the number of voxel layers stacked along +Z for each pixel.
	Depth uint32
	// Scale is the edge length of one voxel in model units.
	Scale float32
	// YUp places image row 0 at the top of the grid (highest Y), matching
	// glTF's Y-up convention. When false, grid Y equals the image row.
	YUp bool
	// Workers bounds culling parallelism. 0 uses GOMAXPROCS, 1 runs inline.
	Workers int
}

// DefaultConfig returns a single-layer, unit-scale, Y-up configuration.
func DefaultConfig() Config {
	return Config{
		Depth: 1,
		Scale: 1.0,
		YUp:   true,
	}
}

// Validate reports the first setting that makes the configuration unusable.
func (c Config) Validate() error {
	if c.Depth == 0 {
		return fmt.Errorf("%w: depth must be at least 1", ErrInvalidConfiguration)
	}
	if c.Depth > MaxVoxels {
		return fmt.Errorf("%w: depth %d exceeds the %d voxel limit", ErrInvalidConfiguration, c.Depth, MaxVoxels)
	}
	if !(c.Scale > 0) || math.IsInf(float64(c.Scale), 1) {
		return fmt.Errorf("%w: scale must be a positive finite number, got %v", ErrInvalidConfiguration, c.Scale)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfiguration, c.Workers)
	}
	return nil
}
