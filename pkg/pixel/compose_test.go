package pixel

import (
	"errors"
	"image/color"
	"testing"

	"github.com/EngoDev/voxelify/pkg/formats"
)

var white = [4]uint8{255, 255, 255, 255}

// twoTone is a 2x1 image: red on the left, blue on the right.
func twoTone() formats.SPRImage {
	return formats.SPRImage{Width: 2, Height: 1, Pixels: []byte{255, 0, 0, 255, 0, 0, 255, 255}}
}

func TestComposeFrameSingleLayer(t *testing.T) {
	spr := &formats.SPR{IndexedCount: 1, Images: []formats.SPRImage{twoTone()}}
	frame := formats.Frame{Layers: []formats.Layer{{SpriteID: 0, Color: white, ScaleX: 1, ScaleY: 1}}}

	buf, err := ComposeFrame(spr, frame)
	if err != nil {
		t.Fatalf("ComposeFrame failed: %v", err)
	}
	if buf.Width != 2 || buf.Height != 1 {
		t.Fatalf("expected 2x1, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("expected red at left, got %v", got)
	}
}

func TestComposeFrameMirrorAndScale(t *testing.T) {
	spr := &formats.SPR{IndexedCount: 1, Images: []formats.SPRImage{twoTone()}}

	mirrored := formats.Frame{Layers: []formats.Layer{{SpriteID: 0, Flags: 1, Color: white, ScaleX: 1, ScaleY: 1}}}
	buf, err := ComposeFrame(spr, mirrored)
	if err != nil {
		t.Fatalf("ComposeFrame failed: %v", err)
	}
	if got := buf.RGBAAt(0, 0); got.B != 255 {
		t.Errorf("expected blue at left when mirrored, got %v", got)
	}

	// negative scale mirrors again
	doubled := formats.Frame{Layers: []formats.Layer{{SpriteID: 0, Flags: 1, Color: white, ScaleX: -2, ScaleY: 3}}}
	buf, err = ComposeFrame(spr, doubled)
	if err != nil {
		t.Fatalf("ComposeFrame failed: %v", err)
	}
	if buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("expected 4x3, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.RGBAAt(1, 2); got.R != 255 {
		t.Errorf("expected red in the left half, got %v", got)
	}
	if got := buf.RGBAAt(2, 0); got.B != 255 {
		t.Errorf("expected blue in the right half, got %v", got)
	}
}

func TestComposeFrameLayering(t *testing.T) {
	body := formats.SPRImage{Width: 3, Height: 3, Pixels: make([]byte, 36)}
	for i := 0; i < 9; i++ {
		copy(body.Pixels[i*4:], []byte{0, 255, 0, 255})
	}
	hat := formats.SPRImage{Width: 1, Height: 1, Pixels: []byte{10, 20, 30, 255}}
	spr := &formats.SPR{IndexedCount: 1, TrueColorCount: 1, Images: []formats.SPRImage{body, hat}}

	frame := formats.Frame{Layers: []formats.Layer{
		{SpriteID: 0, Color: white, ScaleX: 1, ScaleY: 1},
		{SpriteID: -1},
		// true-color image 0, one row above the body
		{SpriteID: 0, SpriteType: 1, X: 0, Y: -2, Color: [4]uint8{255, 255, 255, 255}, ScaleX: 1, ScaleY: 1},
		{SpriteID: 0, SpriteType: 1, X: 1, Y: 1, Color: [4]uint8{255, 0, 255, 255}, ScaleX: 1, ScaleY: 1},
	}}

	buf, err := ComposeFrame(spr, frame)
	if err != nil {
		t.Fatalf("ComposeFrame failed: %v", err)
	}
	// body covers -1..1, hat at y = -2
	if buf.Width != 3 || buf.Height != 4 {
		t.Fatalf("expected 3x4, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.RGBAAt(1, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("expected hat color at top, got %v", got)
	}
	if got := buf.RGBAAt(0, 0); !Transparent(got) {
		t.Errorf("expected transparent beside the hat, got %v", got)
	}
	if got := buf.RGBAAt(2, 3); got != (color.RGBA{10, 0, 30, 255}) {
		t.Errorf("expected tinted overlay over the body, got %v", got)
	}
	if got := buf.RGBAAt(0, 1); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("expected body color, got %v", got)
	}
}

func TestComposeFrameEmpty(t *testing.T) {
	buf, err := ComposeFrame(&formats.SPR{}, formats.Frame{Layers: []formats.Layer{{SpriteID: -1}}})
	if err != nil {
		t.Fatalf("ComposeFrame failed: %v", err)
	}
	if buf.Width != 0 || buf.Height != 0 {
		t.Errorf("expected empty buffer, got %dx%d", buf.Width, buf.Height)
	}
}

func TestComposeFrameMissingImage(t *testing.T) {
	spr := &formats.SPR{IndexedCount: 1, Images: []formats.SPRImage{twoTone()}}
	frame := formats.Frame{Layers: []formats.Layer{{SpriteID: 0, SpriteType: 1, Color: white, ScaleX: 1, ScaleY: 1}}}
	if _, err := ComposeFrame(spr, frame); !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("expected ErrFrameOutOfRange, got %v", err)
	}
}
