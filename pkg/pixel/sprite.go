package pixel

import (
	"errors"
	"fmt"

	"github.com/EngoDev/voxelify/pkg/formats"
)

// ErrFrameOutOfRange is returned when a sprite has no image at the requested index.
var ErrFrameOutOfRange = errors.New("sprite frame out of range")

// FromSPR selects one image of a parsed sprite as a Source.
func FromSPR(spr *formats.SPR, frame int) (*Buffer, error) {
	if spr == nil || frame < 0 || frame >= len(spr.Images) {
		count := 0
		if spr != nil {
			count = len(spr.Images)
		}
		return nil, fmt.Errorf("%w: frame %d of %d", ErrFrameOutOfRange, frame, count)
	}
	img := spr.Images[frame]
	buf := NewBuffer(int(img.Width), int(img.Height))
	copy(buf.Pix, img.Pixels)
	return buf, nil
}
