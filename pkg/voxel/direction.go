package voxel

import (
	vmath "github.com/EngoDev/voxelify/pkg/math"
)

// Coord is an integer grid coordinate.
type Coord struct {
	X, Y, Z int32
}

// Add returns c offset by o.
func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Less orders coordinates by Z, then Y, then X.
func (c Coord) Less(o Coord) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Vec3 returns the coordinate as the model-space position of the voxel's minimum corner.
func (c Coord) Vec3() vmath.Vec3 {
	return vmath.Vec3{X: float32(c.X), Y: float32(c.Y), Z: float32(c.Z)}
}

// Direction names one of the six axis-aligned faces of a voxel.
type Direction uint8

// Directions in emission order.
const (
	PosX Direction = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Directions lists every face direction in the order faces are emitted.
var Directions = [6]Direction{PosX, NegX, PosY, NegY, PosZ, NegZ}

var directionNames = [6]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

// String returns the signed axis name, e.g. "+X".
func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "?"
}

var offsets = [6]Coord{
	PosX: {1, 0, 0},
	NegX: {-1, 0, 0},
	PosY: {0, 1, 0},
	NegY: {0, -1, 0},
	PosZ: {0, 0, 1},
	NegZ: {0, 0, -1},
}

// Offset returns the unit step toward the neighbor sharing this face.
func (d Direction) Offset() Coord {
	return offsets[d]
}

// Normal returns the outward unit normal of this face.
func (d Direction) Normal() vmath.Vec3 {
	return offsets[d].Vec3()
}

// unitCorners holds each face's corners on the unit cube, counter-clockwise
// when viewed from outside, so triangles (0,1,2) and (0,2,3) face outward.
var unitCorners = [6][4]vmath.Vec3{
	PosX: {{X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 0, Z: 1}},
	NegX: {{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 0}},
	PosY: {{X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 0}},
	NegY: {{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 0, Z: 1}},
	PosZ: {{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1}},
	NegZ: {{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}},
}
