package pixel

import (
	"image"
	"image/color"
)

// FromImage copies any decoded image into a Buffer. Samples keep their
// stored (non-premultiplied) channel values so vertex colors match the file.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(bounds.Dx(), bounds.Dy())

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < buf.Height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			copy(buf.Pix[y*buf.Width*4:(y+1)*buf.Width*4], row[:buf.Width*4])
		}
		return buf
	case *image.Paletted:
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				c := src.Palette[src.ColorIndexAt(bounds.Min.X+x, bounds.Min.Y+y)]
				buf.SetRGBA(x, y, toStraight(c))
			}
		}
		return buf
	}

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			buf.SetRGBA(x, y, toStraight(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return buf
}

// toStraight converts any color to 8-bit straight alpha.
func toStraight(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}
