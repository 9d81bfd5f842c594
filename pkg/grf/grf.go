// Package grf reads Ragnarok Online GRF archives (version 0x200).
package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/EngoDev/voxelify/pkg/encoding"
)

const (
	grfMagic      = "Master of Magic"
	headerSize    = 46
	entryInfoSize = 17
	version200    = 0x200

	flagFile      = 0x01
	flagEncrypted = 0x06 // mixed or DES header encryption
)

// Archive errors.
var (
	ErrInvalidArchive = errors.New("invalid GRF archive")
	ErrNotFound       = fmt.Errorf("file not found in archive: %w", fs.ErrNotExist)
	ErrEncrypted      = errors.New("encrypted GRF entries are not supported")
)

// Archive is an opened GRF archive. Reads go through io.ReaderAt, so an
// Archive may be shared between goroutines.
type Archive struct {
	r       io.ReaderAt
	closer  io.Closer
	header  Header
	entries map[string]*Entry
}

// Header contains GRF file header information.
type Header struct {
	Magic         [15]byte
	EncryptionKey [15]byte
	TableOffset   uint32
	Seed          uint32
	FileCount     uint32
	Version       uint32
}

// Entry describes one file stored in the archive.
type Entry struct {
	Name             string // normalized, UTF-8
	CompressedSize   uint32
	AlignedSize      uint32
	UncompressedSize uint32
	Flags            uint8
	Offset           uint32
}

// Open opens a GRF archive on disk.
func Open(name string) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	a, err := NewArchive(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	a.closer = f
	return a, nil
}

// NewArchive reads the header and file table from r.
func NewArchive(r io.ReaderAt) (*Archive, error) {
	a := &Archive{r: r, entries: make(map[string]*Entry)}
	if err := a.readHeader(); err != nil {
		return nil, err
	}
	if err := a.readFileTable(); err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header {
	return a.header
}

func (a *Archive) readHeader() error {
	raw := make([]byte, headerSize)
	if _, err := a.r.ReadAt(raw, 0); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrInvalidArchive, err)
	}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &a.header); err != nil {
		return fmt.Errorf("%w: decoding header: %v", ErrInvalidArchive, err)
	}
	if string(a.header.Magic[:]) != grfMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidArchive)
	}
	if a.header.Version != version200 {
		return fmt.Errorf("%w: unsupported version 0x%x", ErrInvalidArchive, a.header.Version)
	}
	if a.header.FileCount < a.header.Seed+7 {
		return fmt.Errorf("%w: file count %d below seed", ErrInvalidArchive, a.header.FileCount)
	}
	return nil
}

func (a *Archive) readFileTable() error {
	tableOffset := int64(a.header.TableOffset) + headerSize

	var sizes [8]byte
	if _, err := a.r.ReadAt(sizes[:], tableOffset); err != nil {
		return fmt.Errorf("%w: reading table sizes: %v", ErrInvalidArchive, err)
	}
	compressedSize := binary.LittleEndian.Uint32(sizes[0:])
	uncompressedSize := binary.LittleEndian.Uint32(sizes[4:])

	compressed := make([]byte, compressedSize)
	if _, err := a.r.ReadAt(compressed, tableOffset+8); err != nil {
		return fmt.Errorf("%w: reading table: %v", ErrInvalidArchive, err)
	}
	table, err := inflate(compressed, uncompressedSize)
	if err != nil {
		return fmt.Errorf("%w: inflating table: %v", ErrInvalidArchive, err)
	}

	fileCount := a.header.FileCount - a.header.Seed - 7
	offset := 0
	for i := uint32(0); i < fileCount; i++ {
		nameEnd := bytes.IndexByte(table[offset:], 0)
		if nameEnd < 0 {
			return fmt.Errorf("%w: entry %d name is not terminated", ErrInvalidArchive, i)
		}
		name := encoding.EUCKRToUTF8(table[offset : offset+nameEnd])
		offset += nameEnd + 1

		if offset+entryInfoSize > len(table) {
			return fmt.Errorf("%w: entry %d is truncated", ErrInvalidArchive, i)
		}
		info := table[offset:]
		entry := &Entry{
			Name:             encoding.NormalizePath(name),
			CompressedSize:   binary.LittleEndian.Uint32(info[0:]),
			AlignedSize:      binary.LittleEndian.Uint32(info[4:]),
			UncompressedSize: binary.LittleEndian.Uint32(info[8:]),
			Flags:            info[12],
			Offset:           binary.LittleEndian.Uint32(info[13:]),
		}
		offset += entryInfoSize

		// directories carry no file flag
		if entry.Flags&flagFile != 0 {
			a.entries[entry.Name] = entry
		}
	}
	return nil
}

// Len returns the number of files in the archive.
func (a *Archive) Len() int {
	return len(a.entries)
}

// List returns every file path in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.entries))
	for name := range a.entries {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Glob returns the sorted paths matching pattern, using path.Match syntax
// against normalized names.
func (a *Archive) Glob(pattern string) ([]string, error) {
	pattern = encoding.NormalizePath(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	var result []string
	for name := range a.entries {
		if ok, _ := path.Match(pattern, name); ok {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result, nil
}

// Contains reports whether the archive holds a file at name.
func (a *Archive) Contains(name string) bool {
	_, ok := a.entries[encoding.NormalizePath(name)]
	return ok
}

// Stat returns the entry for name.
func (a *Archive) Stat(name string) (*Entry, error) {
	entry, ok := a.entries[encoding.NormalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return entry, nil
}

// Read returns the uncompressed contents of name.
func (a *Archive) Read(name string) ([]byte, error) {
	entry, err := a.Stat(name)
	if err != nil {
		return nil, err
	}
	if entry.Flags&flagEncrypted != 0 {
		return nil, fmt.Errorf("%w: %s", ErrEncrypted, name)
	}
	if entry.CompressedSize > entry.AlignedSize {
		return nil, fmt.Errorf("%w: %s compressed size exceeds stored size", ErrInvalidArchive, name)
	}

	stored := make([]byte, entry.AlignedSize)
	if _, err := a.r.ReadAt(stored, int64(entry.Offset)+headerSize); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidArchive, name, err)
	}

	if entry.CompressedSize == entry.UncompressedSize {
		return stored[:entry.UncompressedSize], nil
	}
	data, err := inflate(stored[:entry.CompressedSize], entry.UncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("%w: inflating %s: %v", ErrInvalidArchive, name, err)
	}
	return data, nil
}

func inflate(compressed []byte, size uint32) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	result := make([]byte, size)
	if _, err := io.ReadFull(reader, result); err != nil {
		return nil, err
	}
	return result, nil
}
