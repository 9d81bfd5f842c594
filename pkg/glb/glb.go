// Package glb encodes a mesh buffer as a binary glTF 2.0 (GLB) asset.
//
// Binary layout:
//
//	header   magic "glTF", version 2, total length
//	JSON     chunk length, "JSON", document padded with spaces
//	BIN      chunk length, "BIN\x00", vertex data then index data padded with zeros;
//	         omitted when the mesh is empty
//
// Vertices are interleaved with a 28-byte stride: POSITION (3 x float32),
// NORMAL (3 x float32), COLOR_0 (4 x normalized uint8). Indices follow as
// uint16 when the vertex count fits, uint32 otherwise.
package glb

import (
	"errors"
)

// Container constants.
const (
	Magic     = "glTF"
	Version   = 2
	ChunkJSON = 0x4E4F534A
	ChunkBIN  = 0x004E4942

	HeaderSize      = 12
	ChunkHeaderSize = 8
)

// Vertex layout inside the BIN chunk.
const (
	VertexStride   = 28
	PositionOffset = 0
	NormalOffset   = 12
	ColorOffset    = 24
)

// MaxShortIndexVertices is the largest vertex count encoded with uint16 indices.
const MaxShortIndexVertices = 65535

// Encoding errors.
var (
	ErrEncodingOverflow = errors.New("glb encoding overflow")
	ErrInvalidMesh      = errors.New("invalid mesh buffer")
	ErrInvalidContainer = errors.New("invalid GLB container")
)

// Options controls document metadata.
type Options struct {
	// Generator is written to asset.generator.
	Generator string
	// Name labels the mesh and its node.
	Name string
}

// DefaultOptions returns the metadata used when none is configured.
func DefaultOptions() Options {
	return Options{
		Generator: "voxelify",
		Name:      "voxels",
	}
}

// align4 rounds n up to the next multiple of four.
func align4(n int) int {
	return (n + 3) &^ 3
}
