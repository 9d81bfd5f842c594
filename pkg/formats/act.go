package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ACT format errors.
var (
	ErrInvalidACTMagic       = errors.New("invalid ACT magic: expected 'AC'")
	ErrUnsupportedACTVersion = errors.New("unsupported ACT version")
	ErrTruncatedACTData      = errors.New("truncated ACT data")
)

const (
	actHeaderSize    = 16
	actRangeSize     = 32 // two unused 16-byte rectangles per frame
	actEventNameSize = 40
)

// ACTVersion is stored as minor, major and compared as 0xMMmm.
type ACTVersion uint16

// String returns the version as "Major.Minor".
func (v ACTVersion) String() string {
	return fmt.Sprintf("%d.%d", v>>8, v&0xFF)
}

// ACT is a parsed sprite animation: actions made of frames made of layers,
// each layer placing one SPR image relative to the sprite origin.
type ACT struct {
	Version   ACTVersion
	Actions   []Action
	Events    []string  // v2.1+
	Intervals []float32 // v2.2+, per action
}

// Action is one animation sequence, usually for a single facing direction.
type Action struct {
	Frames []Frame
}

// Frame is one pose.
type Frame struct {
	Layers       []Layer
	EventID      int32 // -1 = none
	AnchorPoints []AnchorPoint
}

// Layer places one SPR image. X and Y locate the image center relative to
// the sprite origin.
type Layer struct {
	X          int32
	Y          int32
	SpriteID   int32 // -1 = empty layer
	Flags      uint32
	Color      [4]uint8 // RGBA tint
	ScaleX     float32
	ScaleY     float32
	Rotation   float32 // degrees
	SpriteType int32   // 0 = indexed, 1 = true color
	Width      int32   // v2.5+
	Height     int32   // v2.5+
}

// Mirrored reports whether the layer is flipped horizontally.
func (l Layer) Mirrored() bool {
	return l.Flags&1 != 0
}

// AnchorPoint is an attachment point for headgear and weapons.
type AnchorPoint struct {
	X         int32
	Y         int32
	Attribute int32
}

// Frame returns the frame at (action, frame) or an error naming the range.
func (a *ACT) Frame(action, frame int) (Frame, error) {
	if action < 0 || action >= len(a.Actions) {
		return Frame{}, fmt.Errorf("action %d out of range [0,%d)", action, len(a.Actions))
	}
	frames := a.Actions[action].Frames
	if frame < 0 || frame >= len(frames) {
		return Frame{}, fmt.Errorf("frame %d out of range [0,%d) in action %d", frame, len(frames), action)
	}
	return frames[frame], nil
}

// actReader reads little-endian fields, remembering the first failure.
type actReader struct {
	r   *bytes.Reader
	err error
}

func (ar *actReader) read(what string, v any) {
	if ar.err != nil {
		return
	}
	if err := binary.Read(ar.r, binary.LittleEndian, v); err != nil {
		ar.err = fmt.Errorf("%w: reading %s", ErrTruncatedACTData, what)
	}
}

func (ar *actReader) skip(what string, n int64) {
	if ar.err != nil {
		return
	}
	if ar.r.Len() < int(n) {
		ar.err = fmt.Errorf("%w: skipping %s", ErrTruncatedACTData, what)
		return
	}
	ar.r.Seek(n, io.SeekCurrent)
}

// ParseACT parses an ACT file (versions 2.0 to 2.5) from raw bytes.
func ParseACT(data []byte) (*ACT, error) {
	if len(data) < actHeaderSize {
		return nil, ErrTruncatedACTData
	}
	if data[0] != 'A' || data[1] != 'C' {
		return nil, ErrInvalidACTMagic
	}

	version := ACTVersion(uint16(data[3])<<8 | uint16(data[2]))
	if version < 0x200 || version > 0x205 {
		return nil, fmt.Errorf("%w: 0x%X", ErrUnsupportedACTVersion, uint16(version))
	}
	actionCount := int(binary.LittleEndian.Uint16(data[4:6]))

	ar := &actReader{r: bytes.NewReader(data[actHeaderSize:])}
	act := &ACT{Version: version, Actions: make([]Action, actionCount)}

	for i := range act.Actions {
		var frameCount uint32
		ar.read("frame count", &frameCount)
		if ar.err == nil && int64(frameCount) > int64(ar.r.Len()) {
			return nil, fmt.Errorf("action %d: %w: %d frames", i, ErrTruncatedACTData, frameCount)
		}
		frames := make([]Frame, 0, frameCount)
		for j := uint32(0); j < frameCount && ar.err == nil; j++ {
			frames = append(frames, ar.frame(version))
		}
		if ar.err != nil {
			return nil, fmt.Errorf("action %d: %w", i, ar.err)
		}
		act.Actions[i].Frames = frames
	}

	// trailing sections are optional in practice
	if version >= 0x201 && ar.r.Len() >= 4 {
		var eventCount int32
		ar.read("event count", &eventCount)
		for i := int32(0); i < eventCount && ar.err == nil; i++ {
			var name [actEventNameSize]byte
			ar.read("event name", &name)
			if ar.err == nil {
				act.Events = append(act.Events, cString(name[:]))
			}
		}
		if ar.err != nil {
			return nil, ar.err
		}
	}
	if version >= 0x202 {
		act.Intervals = make([]float32, actionCount)
		for i := range act.Intervals {
			if ar.r.Len() < 4 {
				break
			}
			ar.read("interval", &act.Intervals[i])
		}
	}

	return act, nil
}

// ParseACTFile parses an ACT file from disk.
func ParseACTFile(path string) (*ACT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ACT file: %w", err)
	}
	return ParseACT(data)
}

func (ar *actReader) frame(version ACTVersion) Frame {
	ar.skip("frame ranges", actRangeSize)

	var layerCount uint32
	ar.read("layer count", &layerCount)
	if ar.err != nil {
		return Frame{}
	}
	if int64(layerCount) > int64(ar.r.Len()) {
		ar.err = fmt.Errorf("%w: %d layers", ErrTruncatedACTData, layerCount)
		return Frame{}
	}

	f := Frame{Layers: make([]Layer, 0, layerCount), EventID: -1}
	for i := uint32(0); i < layerCount && ar.err == nil; i++ {
		f.Layers = append(f.Layers, ar.layer(version))
	}
	ar.read("event id", &f.EventID)

	if version >= 0x203 {
		var anchorCount uint32
		ar.read("anchor count", &anchorCount)
		for i := uint32(0); i < anchorCount && ar.err == nil; i++ {
			var p AnchorPoint
			ar.skip("anchor padding", 4)
			ar.read("anchor x", &p.X)
			ar.read("anchor y", &p.Y)
			ar.read("anchor attribute", &p.Attribute)
			f.AnchorPoints = append(f.AnchorPoints, p)
		}
	}
	return f
}

func (ar *actReader) layer(version ACTVersion) Layer {
	var l Layer
	ar.read("layer x", &l.X)
	ar.read("layer y", &l.Y)
	ar.read("sprite id", &l.SpriteID)
	ar.read("flags", &l.Flags)
	ar.read("color", &l.Color)
	ar.read("x scale", &l.ScaleX)
	l.ScaleX = finiteOr(l.ScaleX, 1)
	if version >= 0x204 {
		ar.read("y scale", &l.ScaleY)
		l.ScaleY = finiteOr(l.ScaleY, 1)
	} else {
		l.ScaleY = l.ScaleX
	}
	ar.read("rotation", &l.Rotation)
	ar.read("sprite type", &l.SpriteType)
	if version >= 0x205 {
		ar.read("width", &l.Width)
		ar.read("height", &l.Height)
	}
	return l
}

func finiteOr(v, fallback float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return fallback
	}
	return v
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
