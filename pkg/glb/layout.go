package glb

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
)

// layout records where each array lives in the BIN chunk.
type layout struct {
	vertexCount int
	indexCount  int
	indexType   gltf.ComponentType
	indexSize   int
	vertexBytes int
	indexBytes  int
	binLength   int // padded to 4
}

// empty reports whether there is nothing to store. Empty files carry no
// buffer and no BIN chunk.
func (l layout) empty() bool {
	return l.binLength == 0
}

// planLayout sizes the BIN chunk, failing when a count or length cannot be
// represented by the container's 32-bit fields.
func planLayout(vertexCount, indexCount int) (layout, error) {
	if vertexCount < 0 || indexCount < 0 {
		return layout{}, fmt.Errorf("%w: negative count", ErrInvalidMesh)
	}
	if uint64(vertexCount) > math.MaxUint32 {
		return layout{}, fmt.Errorf("%w: %d vertices exceed uint32 indices", ErrEncodingOverflow, vertexCount)
	}
	if uint64(indexCount) > math.MaxUint32 {
		return layout{}, fmt.Errorf("%w: %d indices exceed accessor count range", ErrEncodingOverflow, indexCount)
	}

	l := layout{
		vertexCount: vertexCount,
		indexCount:  indexCount,
		indexType:   gltf.ComponentUshort,
		indexSize:   2,
	}
	if vertexCount > MaxShortIndexVertices {
		l.indexType = gltf.ComponentUint
		l.indexSize = 4
	}

	vertexBytes := uint64(vertexCount) * VertexStride
	indexBytes := uint64(indexCount) * uint64(l.indexSize)
	binLength := (vertexBytes + indexBytes + 3) &^ 3
	if binLength > math.MaxUint32-HeaderSize-2*ChunkHeaderSize {
		return layout{}, fmt.Errorf("%w: binary chunk of %d bytes exceeds the 4 GiB GLB limit", ErrEncodingOverflow, binLength)
	}
	l.vertexBytes = int(vertexBytes)
	l.indexBytes = int(indexBytes)
	l.binLength = int(binLength)
	return l, nil
}
