// Package pixel defines the pixel source consumed by the voxelizer and the
// adapters that turn decoded images and sprites into one.
package pixel

import (
	"image/color"
)

// Source is a rectangular grid of straight-alpha RGBA samples.
// Coordinates run from (0, 0) at the top-left corner to (width-1, height-1).
type Source interface {
	Size() (width, height int)
	RGBAAt(x, y int) color.RGBA
}

// Transparent reports whether a sample is empty. Any alpha above zero counts
// as fully occupied; partial alpha is not blended.
func Transparent(c color.RGBA) bool {
	return c.A == 0
}

// Buffer is an in-memory Source backed by a tightly packed RGBA slice.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8 // 4 bytes per pixel, row-major
}

// NewBuffer allocates a fully transparent buffer.
func NewBuffer(width, height int) *Buffer {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (int, int) {
	return b.Width, b.Height
}

// RGBAAt returns the sample at (x, y), or transparent black outside the buffer.
func (b *Buffer) RGBAAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return color.RGBA{}
	}
	i := (y*b.Width + x) * 4
	if i+3 >= len(b.Pix) {
		return color.RGBA{}
	}
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// SetRGBA stores c at (x, y). Out-of-range writes are ignored.
func (b *Buffer) SetRGBA(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Count returns the number of non-transparent samples in src.
func Count(src Source) int {
	w, h := src.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !Transparent(src.RGBAAt(x, y)) {
				n++
			}
		}
	}
	return n
}
