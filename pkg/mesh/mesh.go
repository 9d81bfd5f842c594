// Package mesh flattens culled voxel faces into vertex and index buffers.
package mesh

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	vmath "github.com/EngoDev/voxelify/pkg/math"
	"github.com/EngoDev/voxelify/pkg/voxel"
)

// Vertex is one corner of a face. Vertices are never shared between faces,
// so every face keeps its own flat normal and exact color.
type Vertex struct {
	Position vmath.Vec3
	Normal   vmath.Vec3
	Color    color.RGBA
}

// Bounds is the axis-aligned bounding box of all vertex positions.
type Bounds struct {
	Min vmath.Vec3
	Max vmath.Vec3
}

// Buffer holds triangle-list geometry ready for encoding.
type Buffer struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Per-face layout: 4 vertices, 2 triangles.
const (
	VerticesPerFace = 4
	IndicesPerFace  = 6
)

// MaxFaces is the largest face count whose vertices are addressable with
// uint32 indices.
const MaxFaces = math.MaxUint32 / VerticesPerFace

// ErrTooManyFaces is returned when vertex indices would not fit in uint32.
var ErrTooManyFaces = errors.New("too many faces for uint32 indices")

// quadIndices splits a counter-clockwise quad into two counter-clockwise triangles.
var quadIndices = [IndicesPerFace]uint32{0, 1, 2, 0, 2, 3}

// Assemble appends 4 vertices and 6 indices per face, in face order.
// An empty face list yields an empty buffer.
func Assemble(faces []voxel.Face) (*Buffer, error) {
	if err := checkFaceCount(len(faces)); err != nil {
		return nil, err
	}
	buf := &Buffer{
		Vertices: make([]Vertex, 0, len(faces)*VerticesPerFace),
		Indices:  make([]uint32, 0, len(faces)*IndicesPerFace),
	}
	if len(faces) == 0 {
		return buf, nil
	}

	buf.Bounds = Bounds{Min: faces[0].Corners[0], Max: faces[0].Corners[0]}
	for _, f := range faces {
		base := uint32(len(buf.Vertices))
		for _, corner := range f.Corners {
			buf.Vertices = append(buf.Vertices, Vertex{
				Position: corner,
				Normal:   f.Normal,
				Color:    f.Color,
			})
			buf.Bounds.Min = buf.Bounds.Min.Min(corner)
			buf.Bounds.Max = buf.Bounds.Max.Max(corner)
		}
		for _, i := range quadIndices {
			buf.Indices = append(buf.Indices, base+i)
		}
	}
	return buf, nil
}

func checkFaceCount(n int) error {
	if uint64(n) > MaxFaces {
		return fmt.Errorf("%w: %d faces, limit %d", ErrTooManyFaces, n, MaxFaces)
	}
	return nil
}

// FaceCount returns the number of quads in the buffer.
func (b *Buffer) FaceCount() int {
	return len(b.Vertices) / VerticesPerFace
}

// Empty reports whether the buffer holds no geometry.
func (b *Buffer) Empty() bool {
	return len(b.Vertices) == 0
}
