package voxel

import (
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	vmath "github.com/EngoDev/voxelify/pkg/math"
)

// minParallelVoxels is the grid size below which culling runs inline.
const minParallelVoxels = 4096

// Face is one exposed, outward-facing quad of a voxel.
type Face struct {
	Voxel     Coord
	Direction Direction
	Corners   [4]vmath.Vec3 // counter-clockwise seen from outside
	Normal    vmath.Vec3
	Color     color.RGBA
}

// Cull returns every face whose neighbor cell is empty, ordered by voxel
// (Z, then Y, then X) and then by direction (+X, -X, +Y, -Y, +Z, -Z).
// The order is the same for any worker count.
func Cull(g *Grid) []Face {
	workers := g.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || len(g.voxels) < minParallelVoxels {
		return g.cullRange(g.voxels, nil)
	}

	// Contiguous chunks keep emission order; each chunk owns one slot.
	chunks := workers * 4
	size := (len(g.voxels) + chunks - 1) / chunks
	results := make([][]Face, chunks)

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i := range results {
		lo := i * size
		if lo >= len(g.voxels) {
			break
		}
		hi := min(lo+size, len(g.voxels))
		eg.Go(func() error {
			results[i] = g.cullRange(g.voxels[lo:hi], nil)
			return nil
		})
	}
	_ = eg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	faces := make([]Face, 0, total)
	for _, r := range results {
		faces = append(faces, r...)
	}
	return faces
}

// cullRange appends the exposed faces of voxels to dst.
func (g *Grid) cullRange(voxels []Voxel, dst []Face) []Face {
	scale := g.cfg.Scale
	for _, v := range voxels {
		origin := v.Coord.Vec3()
		for _, d := range Directions {
			if g.Occupied(v.Coord.Add(d.Offset())) {
				continue
			}
			f := Face{
				Voxel:     v.Coord,
				Direction: d,
				Normal:    d.Normal(),
				Color:     v.Color,
			}
			for i, c := range unitCorners[d] {
				f.Corners[i] = origin.Add(c).Scale(scale)
			}
			dst = append(dst, f)
		}
	}
	return dst
}
