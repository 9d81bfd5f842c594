package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
)

// TGA format errors.
var (
	ErrTruncatedTGAData   = errors.New("truncated TGA data")
	ErrUnsupportedTGAType = errors.New("unsupported TGA image")
)

// TGA image type constants.
const (
	TGATypeColorMapped    = 1
	TGATypeTrueColor      = 2
	TGATypeGrayscale      = 3
	TGATypeColorMappedRLE = 9
	TGATypeTrueColorRLE   = 10
	TGATypeGrayscaleRLE   = 11
)

const tgaHeaderSize = 18

type tgaHeader struct {
	IDLength     uint8
	ColorMapType uint8
	ImageType    uint8
	MapFirst     uint16
	MapLength    uint16
	MapEntryBits uint8
	OriginX      uint16
	OriginY      uint16
	Width        uint16
	Height       uint16
	PixelBits    uint8
	Descriptor   uint8
}

func (h tgaHeader) rle() bool {
	return h.ImageType >= TGATypeColorMappedRLE
}

func (h tgaHeader) baseType() uint8 {
	if h.rle() {
		return h.ImageType - 8
	}
	return h.ImageType
}

// DecodeTGA decodes uncompressed and RLE TGA images: true color (24/32 bit),
// grayscale (8 bit) and color mapped (8 bit indices, 24/32 bit palette).
// The result always has its origin at the top-left.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, ErrTruncatedTGAData
	}
	h := tgaHeader{
		IDLength:     data[0],
		ColorMapType: data[1],
		ImageType:    data[2],
		MapFirst:     binary.LittleEndian.Uint16(data[3:]),
		MapLength:    binary.LittleEndian.Uint16(data[5:]),
		MapEntryBits: data[7],
		OriginX:      binary.LittleEndian.Uint16(data[8:]),
		OriginY:      binary.LittleEndian.Uint16(data[10:]),
		Width:        binary.LittleEndian.Uint16(data[12:]),
		Height:       binary.LittleEndian.Uint16(data[14:]),
		PixelBits:    data[16],
		Descriptor:   data[17],
	}

	offset := tgaHeaderSize + int(h.IDLength)
	var palette []color.NRGBA
	if h.ColorMapType == 1 {
		entry := int(h.MapEntryBits) / 8
		if entry != 3 && entry != 4 {
			return nil, fmt.Errorf("%w: %d-bit palette", ErrUnsupportedTGAType, h.MapEntryBits)
		}
		end := offset + int(h.MapLength)*entry
		if end > len(data) {
			return nil, fmt.Errorf("%w: reading palette", ErrTruncatedTGAData)
		}
		palette = make([]color.NRGBA, h.MapLength)
		for i := range palette {
			palette[i] = bgra(data[offset+i*entry:], entry)
		}
		offset = end
	}

	decode, size, err := pixelDecoder(h, palette)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height)))
	pixels := int(h.Width) * int(h.Height)
	src := data[offset:]
	put := func(i int, c color.NRGBA) {
		x, y := i%int(h.Width), i/int(h.Width)
		if h.Descriptor&0x10 != 0 {
			x = int(h.Width) - 1 - x
		}
		if h.Descriptor&0x20 == 0 {
			y = int(h.Height) - 1 - y
		}
		img.SetNRGBA(x, y, c)
	}

	if !h.rle() {
		if len(src) < pixels*size {
			return nil, fmt.Errorf("%w: reading pixels", ErrTruncatedTGAData)
		}
		for i := 0; i < pixels; i++ {
			put(i, decode(src[i*size:]))
		}
		return img, nil
	}

	pos := 0
	for i := 0; i < pixels; {
		if pos >= len(src) {
			return nil, fmt.Errorf("%w: RLE packet %d", ErrTruncatedTGAData, i)
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			if pos+size > len(src) {
				return nil, fmt.Errorf("%w: RLE run", ErrTruncatedTGAData)
			}
			c := decode(src[pos:])
			pos += size
			for ; count > 0 && i < pixels; count-- {
				put(i, c)
				i++
			}
			continue
		}

		if pos+count*size > len(src) {
			return nil, fmt.Errorf("%w: raw packet", ErrTruncatedTGAData)
		}
		for ; count > 0 && i < pixels; count-- {
			put(i, decode(src[pos:]))
			pos += size
			i++
		}
	}
	return img, nil
}

// DecodeTGAFile decodes a TGA file from disk.
func DecodeTGAFile(path string) (*image.NRGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading TGA file: %w", err)
	}
	return DecodeTGA(data)
}

// pixelDecoder returns a function reading one stored pixel and its byte size.
func pixelDecoder(h tgaHeader, palette []color.NRGBA) (func([]byte) color.NRGBA, int, error) {
	switch h.baseType() {
	case TGATypeTrueColor:
		size := int(h.PixelBits) / 8
		if size != 3 && size != 4 {
			return nil, 0, fmt.Errorf("%w: %d-bit true color", ErrUnsupportedTGAType, h.PixelBits)
		}
		return func(p []byte) color.NRGBA { return bgra(p, size) }, size, nil
	case TGATypeGrayscale:
		if h.PixelBits != 8 {
			return nil, 0, fmt.Errorf("%w: %d-bit grayscale", ErrUnsupportedTGAType, h.PixelBits)
		}
		return func(p []byte) color.NRGBA { return color.NRGBA{R: p[0], G: p[0], B: p[0], A: 255} }, 1, nil
	case TGATypeColorMapped:
		if palette == nil || h.PixelBits != 8 {
			return nil, 0, fmt.Errorf("%w: color map without palette or %d-bit indices", ErrUnsupportedTGAType, h.PixelBits)
		}
		first := int(h.MapFirst)
		return func(p []byte) color.NRGBA {
			idx := int(p[0]) - first
			if idx < 0 || idx >= len(palette) {
				return color.NRGBA{}
			}
			return palette[idx]
		}, 1, nil
	}
	return nil, 0, fmt.Errorf("%w: type %d", ErrUnsupportedTGAType, h.ImageType)
}

func bgra(p []byte, size int) color.NRGBA {
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if size == 4 {
		c.A = p[3]
	}
	return c
}
