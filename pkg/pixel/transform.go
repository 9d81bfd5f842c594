package pixel

import "image/color"

type flipped struct {
	src        Source
	horizontal bool
	vertical   bool
}

func (f flipped) Size() (int, int) {
	return f.src.Size()
}

func (f flipped) RGBAAt(x, y int) color.RGBA {
	w, h := f.src.Size()
	if f.horizontal {
		x = w - 1 - x
	}
	if f.vertical {
		y = h - 1 - y
	}
	return f.src.RGBAAt(x, y)
}

// FlipHorizontal mirrors src left to right.
func FlipHorizontal(src Source) Source {
	if f, ok := src.(flipped); ok {
		f.horizontal = !f.horizontal
		return f
	}
	return flipped{src: src, horizontal: true}
}

// FlipVertical mirrors src top to bottom.
func FlipVertical(src Source) Source {
	if f, ok := src.(flipped); ok {
		f.vertical = !f.vertical
		return f
	}
	return flipped{src: src, vertical: true}
}

type keyed struct {
	src Source
	key func(color.RGBA) bool
}

func (k keyed) Size() (int, int) {
	return k.src.Size()
}

func (k keyed) RGBAAt(x, y int) color.RGBA {
	c := k.src.RGBAAt(x, y)
	if k.key(c) {
		return color.RGBA{}
	}
	return c
}

// ColorKey makes every sample matched by key transparent.
func ColorKey(src Source, key func(color.RGBA) bool) Source {
	return keyed{src: src, key: key}
}

// IsMagentaKey matches the magenta transparency key used by BMP sprites.
// A small tolerance absorbs encoder rounding.
func IsMagentaKey(c color.RGBA) bool {
	return c.R >= 250 && c.G <= 10 && c.B >= 250
}
