package glb

import (
	"encoding/binary"
	"fmt"
)

// Container is a GLB file split into its chunks.
type Container struct {
	Version uint32
	Length  uint32
	JSON    []byte // padded JSON chunk payload
	BIN     []byte // padded binary chunk payload, nil when absent
}

// Parse splits a GLB file into its chunks and checks the framing rules:
// magic, version 2, declared length equal to the data length, and chunk
// lengths that are multiples of four and fit the file.
func Parse(data []byte) (*Container, error) {
	if len(data) < HeaderSize+ChunkHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a header", ErrInvalidContainer, len(data))
	}

	le := binary.LittleEndian
	if string(data[0:4]) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidContainer, data[0:4])
	}
	c := &Container{Version: le.Uint32(data[4:]), Length: le.Uint32(data[8:])}
	if c.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidContainer, c.Version)
	}
	if uint64(c.Length) != uint64(len(data)) {
		return nil, fmt.Errorf("%w: declared length %d, actual %d", ErrInvalidContainer, c.Length, len(data))
	}

	offset := HeaderSize
	for index := 0; offset < len(data); index++ {
		if len(data)-offset < ChunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk %d header is truncated", ErrInvalidContainer, index)
		}
		length := le.Uint32(data[offset:])
		typ := le.Uint32(data[offset+4:])
		offset += ChunkHeaderSize
		if length%4 != 0 {
			return nil, fmt.Errorf("%w: chunk %d length %d is not 4-byte aligned", ErrInvalidContainer, index, length)
		}
		if uint64(length) > uint64(len(data)-offset) {
			return nil, fmt.Errorf("%w: chunk %d overruns the file", ErrInvalidContainer, index)
		}
		payload := data[offset : offset+int(length)]
		offset += int(length)

		switch {
		case index == 0 && typ == ChunkJSON:
			c.JSON = payload
		case index == 1 && typ == ChunkBIN:
			c.BIN = payload
		case index == 0:
			return nil, fmt.Errorf("%w: first chunk is not JSON", ErrInvalidContainer)
		}
	}
	if c.JSON == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidContainer)
	}
	return c, nil
}
