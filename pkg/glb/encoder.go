package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/EngoDev/voxelify/pkg/mesh"
)

type fileHeader struct {
	Magic   [4]byte
	Version uint32
	Length  uint32
}

type chunkHeader struct {
	Length uint32
	Type   uint32
}

// Encode serializes buf as a GLB file. Every size is checked before any
// output is produced, so the result is either complete or absent.
func Encode(buf *mesh.Buffer, opts Options) ([]byte, error) {
	if err := validate(buf); err != nil {
		return nil, err
	}
	l, err := planLayout(len(buf.Vertices), len(buf.Indices))
	if err != nil {
		return nil, err
	}

	doc, err := json.Marshal(buildDocument(buf, l, opts))
	if err != nil {
		return nil, fmt.Errorf("serializing glTF document: %w", err)
	}
	jsonLength := align4(len(doc))

	total := uint64(HeaderSize) + ChunkHeaderSize + uint64(jsonLength)
	if !l.empty() {
		total += ChunkHeaderSize + uint64(l.binLength)
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: file of %d bytes exceeds the 4 GiB GLB limit", ErrEncodingOverflow, total)
	}

	out := bytes.NewBuffer(make([]byte, 0, int(total)))
	header := fileHeader{Version: Version, Length: uint32(total)}
	copy(header.Magic[:], Magic)
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, err
	}

	if err := binary.Write(out, binary.LittleEndian, chunkHeader{Length: uint32(jsonLength), Type: ChunkJSON}); err != nil {
		return nil, err
	}
	out.Write(doc)
	out.Write(bytes.Repeat([]byte{' '}, jsonLength-len(doc)))

	if l.empty() {
		return out.Bytes(), nil
	}
	if err := binary.Write(out, binary.LittleEndian, chunkHeader{Length: uint32(l.binLength), Type: ChunkBIN}); err != nil {
		return nil, err
	}
	out.Write(encodeBinary(buf, l))

	return out.Bytes(), nil
}

// validate checks the invariants the encoder relies on.
func validate(buf *mesh.Buffer) error {
	if buf == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidMesh)
	}
	if len(buf.Indices) == 0 && len(buf.Vertices) > 0 {
		return fmt.Errorf("%w: %d vertices but no triangles", ErrInvalidMesh, len(buf.Vertices))
	}
	if len(buf.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidMesh, len(buf.Indices))
	}
	for i, idx := range buf.Indices {
		if int(idx) >= len(buf.Vertices) {
			return fmt.Errorf("%w: index %d references vertex %d of %d", ErrInvalidMesh, i, idx, len(buf.Vertices))
		}
	}
	return nil
}

// encodeBinary writes interleaved vertices, then indices, then zero padding.
func encodeBinary(buf *mesh.Buffer, l layout) []byte {
	bin := make([]byte, l.binLength)
	le := binary.LittleEndian

	for i, v := range buf.Vertices {
		p := bin[i*VertexStride : (i+1)*VertexStride]
		le.PutUint32(p[PositionOffset:], math.Float32bits(v.Position.X))
		le.PutUint32(p[PositionOffset+4:], math.Float32bits(v.Position.Y))
		le.PutUint32(p[PositionOffset+8:], math.Float32bits(v.Position.Z))
		le.PutUint32(p[NormalOffset:], math.Float32bits(v.Normal.X))
		le.PutUint32(p[NormalOffset+4:], math.Float32bits(v.Normal.Y))
		le.PutUint32(p[NormalOffset+8:], math.Float32bits(v.Normal.Z))
		p[ColorOffset] = v.Color.R
		p[ColorOffset+1] = v.Color.G
		p[ColorOffset+2] = v.Color.B
		p[ColorOffset+3] = v.Color.A
	}

	p := bin[l.vertexBytes:]
	for i, idx := range buf.Indices {
		if l.indexSize == 2 {
			le.PutUint16(p[i*2:], uint16(idx))
		} else {
			le.PutUint32(p[i*4:], idx)
		}
	}
	return bin
}
