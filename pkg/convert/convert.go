// Package convert chains grid building, face culling, mesh assembly and GLB
// encoding into a single call.
package convert

import (
	"fmt"

	"github.com/EngoDev/voxelify/pkg/glb"
	"github.com/EngoDev/voxelify/pkg/mesh"
	"github.com/EngoDev/voxelify/pkg/pixel"
	"github.com/EngoDev/voxelify/pkg/voxel"
)

// Options configures a conversion.
type Options struct {
	Voxel voxel.Config
	GLB   glb.Options
}

// DefaultOptions returns depth 1, scale 1, y-up output.
func DefaultOptions() Options {
	return Options{
		Voxel: voxel.DefaultConfig(),
		GLB:   glb.DefaultOptions(),
	}
}

// Stats summarizes what a conversion produced.
type Stats struct {
	Voxels   int
	Faces    int
	Vertices int
	Indices  int
	Bytes    int
}

// Result holds the encoded asset.
type Result struct {
	GLB   []byte
	Stats Stats
}

// Run converts src into a GLB asset. Configuration and overflow errors are
// returned before any output exists.
func Run(src pixel.Source, opts Options) (*Result, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil pixel source", voxel.ErrInvalidConfiguration)
	}

	grid, err := voxel.Build(src, opts.Voxel)
	if err != nil {
		return nil, err
	}
	faces := voxel.Cull(grid)
	buf, err := mesh.Assemble(faces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", glb.ErrEncodingOverflow, err)
	}

	data, err := glb.Encode(buf, opts.GLB)
	if err != nil {
		return nil, fmt.Errorf("encoding %d faces: %w", len(faces), err)
	}

	return &Result{
		GLB: data,
		Stats: Stats{
			Voxels:   grid.Len(),
			Faces:    len(faces),
			Vertices: len(buf.Vertices),
			Indices:  len(buf.Indices),
			Bytes:    len(data),
		},
	}, nil
}
