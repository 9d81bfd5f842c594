// Package grftest builds small GRF archives in memory for tests.
package grftest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"

	"github.com/EngoDev/voxelify/pkg/encoding"
)

// File is one entry to pack.
type File struct {
	Name string
	Data []byte
}

// Build packs files into a version 0x200 archive with a zlib-compressed
// table. Names are stored as EUC-KR and contents are deflated.
func Build(files ...File) []byte {
	var body, table bytes.Buffer
	for _, f := range files {
		packed := deflate(f.Data)
		aligned := (len(packed) + 7) &^ 7
		offset := body.Len()
		body.Write(packed)
		body.Write(make([]byte, aligned-len(packed)))

		table.Write(encoding.UTF8ToEUCKR(f.Name))
		table.WriteByte(0)
		binary.Write(&table, binary.LittleEndian, []uint32{uint32(len(packed)), uint32(aligned), uint32(len(f.Data))})
		table.WriteByte(0x01)
		binary.Write(&table, binary.LittleEndian, uint32(offset))
	}

	header := make([]byte, 46)
	copy(header, "Master of Magic")
	binary.LittleEndian.PutUint32(header[30:], uint32(body.Len()))
	binary.LittleEndian.PutUint32(header[38:], uint32(len(files)+7))
	binary.LittleEndian.PutUint32(header[42:], 0x200)

	packed := deflate(table.Bytes())
	var out bytes.Buffer
	out.Write(header)
	out.Write(body.Bytes())
	binary.Write(&out, binary.LittleEndian, []uint32{uint32(len(packed)), uint32(table.Len())})
	out.Write(packed)
	return out.Bytes()
}

func deflate(data []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return buf.Bytes()
}
