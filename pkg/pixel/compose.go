package pixel

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/EngoDev/voxelify/pkg/formats"
)

// placedLayer is a layer resolved to its sprite image and destination rectangle.
type placedLayer struct {
	img    formats.SPRImage
	rect   image.Rectangle
	mirror bool
	tint   [4]uint8
}

// ComposeFrame renders every layer of an ACT frame into one buffer cropped
// to the drawn area. Layers are scaled with nearest-neighbor sampling,
// mirrored and tinted; later layers cover earlier ones. Rotation is ignored.
func ComposeFrame(spr *formats.SPR, frame formats.Frame) (*Buffer, error) {
	var layers []placedLayer
	var bounds image.Rectangle
	for i, l := range frame.Layers {
		if l.SpriteID < 0 {
			continue
		}
		index := int(l.SpriteID)
		if l.SpriteType == 1 {
			index += spr.IndexedCount
		}
		if index >= len(spr.Images) {
			return nil, fmt.Errorf("%w: layer %d uses image %d of %d", ErrFrameOutOfRange, i, index, len(spr.Images))
		}
		img := spr.Images[index]

		w := scaled(img.Width, l.ScaleX)
		h := scaled(img.Height, l.ScaleY)
		origin := image.Pt(int(l.X)-w/2, int(l.Y)-h/2)
		p := placedLayer{
			img:    img,
			rect:   image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))},
			mirror: l.Mirrored() != (l.ScaleX < 0),
			tint:   l.Color,
		}
		layers = append(layers, p)
		bounds = bounds.Union(p.rect)
	}

	buf := NewBuffer(bounds.Dx(), bounds.Dy())
	src := &Buffer{}
	for _, p := range layers {
		src.Width, src.Height, src.Pix = int(p.img.Width), int(p.img.Height), p.img.Pixels
		w, h := p.rect.Dx(), p.rect.Dy()
		for dy := 0; dy < h; dy++ {
			for dx := 0; dx < w; dx++ {
				sx := dx * src.Width / w
				if p.mirror {
					sx = src.Width - 1 - sx
				}
				c := tint(src.RGBAAt(sx, dy*src.Height/h), p.tint)
				if Transparent(c) {
					continue
				}
				buf.SetRGBA(p.rect.Min.X-bounds.Min.X+dx, p.rect.Min.Y-bounds.Min.Y+dy, c)
			}
		}
	}
	return buf, nil
}

// scaled returns the drawn size of n pixels at scale s, at least one pixel
// for a non-empty image.
func scaled(n uint16, s float32) int {
	if n == 0 {
		return 0
	}
	v := int(math.Round(float64(n) * math.Abs(float64(s))))
	if v < 1 {
		return 1
	}
	return v
}

func tint(c color.RGBA, t [4]uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(t[0]) / 255),
		G: uint8(uint16(c.G) * uint16(t[1]) / 255),
		B: uint8(uint16(c.B) * uint16(t[2]) / 255),
		A: uint8(uint16(c.A) * uint16(t[3]) / 255),
	}
}
