package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// SPR format errors.
var (
	ErrInvalidSPRMagic       = errors.New("invalid SPR magic: expected 'SP'")
	ErrUnsupportedSPRVersion = errors.New("unsupported SPR version")
	ErrTruncatedSPRData      = errors.New("truncated SPR data")
)

const (
	sprPaletteSize = 256 * 4
	sprHeaderSize  = 4
)

// SPRVersion represents the SPR file version.
type SPRVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v SPRVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// usesRLE reports whether indexed images are run-length encoded (2.1+).
func (v SPRVersion) usesRLE() bool {
	return v.Major == 2 && v.Minor >= 1
}

// SPRImage is one sprite frame converted to straight-alpha RGBA.
type SPRImage struct {
	Width  uint16
	Height uint16
	Pixels []byte // RGBA, 4 bytes per pixel, row-major from the top-left
}

// SPRColor represents an RGBA palette entry.
type SPRColor struct {
	R, G, B, A uint8
}

// SPRPalette represents a 256-color palette. Index 0 is the transparent color.
type SPRPalette struct {
	Colors [256]SPRColor
}

// SPR represents a parsed sprite file.
type SPR struct {
	Version        SPRVersion
	IndexedCount   int
	TrueColorCount int
	Images         []SPRImage // indexed images first, then true-color images
	Palette        *SPRPalette
}

// ParseSPR parses an SPR file from raw bytes.
func ParseSPR(data []byte) (*SPR, error) {
	if len(data) < sprHeaderSize {
		return nil, ErrTruncatedSPRData
	}
	if data[0] != 'S' || data[1] != 'P' {
		return nil, ErrInvalidSPRMagic
	}

	// Version bytes are stored minor first.
	version := SPRVersion{Major: data[3], Minor: data[2]}
	switch {
	case version.Major < 1 || version.Major > 2:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSPRVersion, version)
	case version.Major == 1 && version.Minor < 1:
		return nil, fmt.Errorf("%w: %s (system palette not supported)", ErrUnsupportedSPRVersion, version)
	}

	// The palette trails the file for every supported version.
	if len(data) < sprHeaderSize+2+sprPaletteSize {
		return nil, ErrTruncatedSPRData
	}
	body := data[sprHeaderSize : len(data)-sprPaletteSize]
	spr := &SPR{
		Version: version,
		Palette: parsePalette(data[len(data)-sprPaletteSize:]),
	}

	r := bytes.NewReader(body)
	var indexed, trueColor uint16
	if err := binary.Read(r, binary.LittleEndian, &indexed); err != nil {
		return nil, fmt.Errorf("%w: reading indexed count", ErrTruncatedSPRData)
	}
	if version.Major >= 2 {
		if err := binary.Read(r, binary.LittleEndian, &trueColor); err != nil {
			return nil, fmt.Errorf("%w: reading true-color count", ErrTruncatedSPRData)
		}
	}
	spr.IndexedCount = int(indexed)
	spr.Images = make([]SPRImage, 0, int(indexed)+int(trueColor))

	for i := 0; i < int(indexed); i++ {
		img, err := readIndexedImage(r, spr.Palette, version.usesRLE())
		if err != nil {
			return nil, fmt.Errorf("parsing indexed image %d: %w", i, err)
		}
		spr.Images = append(spr.Images, img)
	}

	for i := 0; i < int(trueColor); i++ {
		// Some files declare more true-color frames than they carry.
		if r.Len() == 0 {
			break
		}
		img, err := readTrueColorImage(r)
		if err != nil {
			return nil, fmt.Errorf("parsing true-color image %d: %w", i, err)
		}
		spr.Images = append(spr.Images, img)
		spr.TrueColorCount++
	}

	return spr, nil
}

// ParseSPRFile parses an SPR file from disk.
func ParseSPRFile(path string) (*SPR, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SPR file: %w", err)
	}
	return ParseSPR(data)
}

func parsePalette(data []byte) *SPRPalette {
	p := &SPRPalette{}
	for i := range p.Colors {
		c := data[i*4 : i*4+4]
		p.Colors[i] = SPRColor{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
	return p
}

// readDimensions reads a frame size. Blank frames ((0|-1) sized) come back as
// ok=false and decode to a single transparent pixel.
func readDimensions(r *bytes.Reader) (w, h uint16, ok bool, err error) {
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return 0, 0, false, fmt.Errorf("%w: reading width", ErrTruncatedSPRData)
	}
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return 0, 0, false, fmt.Errorf("%w: reading height", ErrTruncatedSPRData)
	}
	if w == 0 || h == 0 || w == 0xFFFF || h == 0xFFFF {
		return 0, 0, false, nil
	}
	return w, h, true, nil
}

func blankImage() SPRImage {
	return SPRImage{Width: 1, Height: 1, Pixels: make([]byte, 4)}
}

func readIndexedImage(r *bytes.Reader, palette *SPRPalette, rle bool) (SPRImage, error) {
	w, h, ok, err := readDimensions(r)
	if err != nil || !ok {
		return blankImage(), err
	}

	count := int(w) * int(h)
	var indices []byte
	if rle {
		var size uint16
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return SPRImage{}, fmt.Errorf("%w: reading compressed size", ErrTruncatedSPRData)
		}
		packed := make([]byte, size)
		if _, err := io.ReadFull(r, packed); err != nil {
			return SPRImage{}, fmt.Errorf("%w: reading compressed data", ErrTruncatedSPRData)
		}
		indices = decompressRLE(packed, count)
	} else {
		indices = make([]byte, count)
		if _, err := io.ReadFull(r, indices); err != nil {
			return SPRImage{}, fmt.Errorf("%w: reading pixel indices", ErrTruncatedSPRData)
		}
	}

	pixels := make([]byte, count*4)
	for i, idx := range indices {
		if idx == 0 {
			continue
		}
		c := palette.Colors[idx]
		copy(pixels[i*4:], []byte{c.R, c.G, c.B, 255})
	}
	return SPRImage{Width: w, Height: h, Pixels: pixels}, nil
}

// decompressRLE expands zero-run encoded indices.
// 0x00 0xNN is NN zeros (0x00 0x00 is a single zero); other bytes are literal.
// Output is truncated or zero-padded to size.
func decompressRLE(packed []byte, size int) []byte {
	out := make([]byte, 0, size)
	for i := 0; i < len(packed) && len(out) < size; i++ {
		b := packed[i]
		if b != 0 {
			out = append(out, b)
			continue
		}
		i++
		if i >= len(packed) {
			break
		}
		run := max(int(packed[i]), 1)
		for ; run > 0 && len(out) < size; run-- {
			out = append(out, 0)
		}
	}
	return append(out, make([]byte, size-len(out))...)
}

// readTrueColorImage reads ABGR pixels, stored bottom row first.
func readTrueColorImage(r *bytes.Reader) (SPRImage, error) {
	w, h, ok, err := readDimensions(r)
	if err != nil || !ok {
		return blankImage(), err
	}

	count := int(w) * int(h)
	abgr := make([]byte, count*4)
	if _, err := io.ReadFull(r, abgr); err != nil {
		return SPRImage{}, fmt.Errorf("%w: reading ABGR data", ErrTruncatedSPRData)
	}

	pixels := make([]byte, count*4)
	for y := 0; y < int(h); y++ {
		src := abgr[(int(h)-1-y)*int(w)*4:]
		dst := pixels[y*int(w)*4:]
		for x := 0; x < int(w); x++ {
			s := src[x*4 : x*4+4]
			dst[x*4] = s[3]
			dst[x*4+1] = s[2]
			dst[x*4+2] = s[1]
			dst[x*4+3] = s[0]
		}
	}
	return SPRImage{Width: w, Height: h, Pixels: pixels}, nil
}
