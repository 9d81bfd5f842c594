package voxel

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/EngoDev/voxelify/pkg/pixel"
)

// Voxel is one occupied grid cell.
type Voxel struct {
	Coord Coord
	Color color.RGBA
}

// Grid is an immutable sparse voxel set. Voxels are kept in Z, Y, X order.
type Grid struct {
	cfg    Config
	voxels []Voxel
	index  map[Coord]int
	width  int
	height int
}

// Build extrudes every non-transparent pixel of src into cfg.Depth voxels.
// An empty source yields an empty grid.
func Build(src pixel.Source, cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w, h := src.Size()
	w, h = max(w, 0), max(h, 0)

	// Sample each pixel once; rows are stored in grid Y order.
	layer := make([]Voxel, 0, w*h)
	for gy := 0; gy < h; gy++ {
		y := gy
		if cfg.YUp {
			y = h - 1 - gy
		}
		for x := 0; x < w; x++ {
			c := src.RGBAAt(x, y)
			if pixel.Transparent(c) {
				continue
			}
			layer = append(layer, Voxel{Coord: Coord{X: int32(x), Y: int32(gy)}, Color: c})
		}
	}

	if total := uint64(len(layer)) * uint64(cfg.Depth); total > MaxVoxels {
		return nil, fmt.Errorf("%w: %d pixels at depth %d exceed the %d voxel limit",
			ErrInvalidConfiguration, len(layer), cfg.Depth, MaxVoxels)
	}

	depth := int(cfg.Depth)
	g := &Grid{
		cfg:    cfg,
		voxels: make([]Voxel, 0, len(layer)*depth),
		index:  make(map[Coord]int, len(layer)*depth),
		width:  w,
		height: h,
	}
	for z := 0; z < depth; z++ {
		for _, v := range layer {
			v.Coord.Z = int32(z)
			g.index[v.Coord] = len(g.voxels)
			g.voxels = append(g.voxels, v)
		}
	}
	return g, nil
}

// Config returns the configuration the grid was built with.
func (g *Grid) Config() Config {
	return g.cfg
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	return len(g.voxels)
}

// Dims returns the grid extent in cells along X, Y and Z.
func (g *Grid) Dims() (w, h, d int) {
	return g.width, g.height, int(g.cfg.Depth)
}

// At returns the voxel at c, if occupied.
func (g *Grid) At(c Coord) (Voxel, bool) {
	i, ok := g.index[c]
	if !ok {
		return Voxel{}, false
	}
	return g.voxels[i], true
}

// Occupied reports whether c holds a voxel.
func (g *Grid) Occupied(c Coord) bool {
	_, ok := g.index[c]
	return ok
}

// Voxels returns a copy of all voxels in Z, Y, X order.
func (g *Grid) Voxels() []Voxel {
	return slices.Clone(g.voxels)
}
