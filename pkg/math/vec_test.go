package math

import (
	"testing"
)

func TestVec3Add(t *testing.T) {
	got := Vec3{1, 2, 3}.Add(Vec3{4, 5, 6})
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Vec3.Add() = %v, want %v", got, want)
	}
}

func TestVec3Scale(t *testing.T) {
	got := Vec3{1, -2, 0.5}.Scale(2)
	want := Vec3{2, -4, 1}
	if got != want {
		t.Errorf("Vec3.Scale() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
	if back := y.Cross(x); back != (Vec3{0, 0, -1}) {
		t.Errorf("Vec3.Cross() reversed = %v, want {0 0 -1}", back)
	}
}

func TestVec3Length(t *testing.T) {
	if got := (Vec3{2, 3, 6}).Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got := a.Min(b); got != (Vec3{1, -1, -2}) {
		t.Errorf("Vec3.Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, 0}) {
		t.Errorf("Vec3.Max() = %v", got)
	}
}

func TestVec3Dot(t *testing.T) {
	if got := (Vec3{1, 2, 3}).Dot(Vec3{4, -5, 6}); got != 12 {
		t.Errorf("Vec3.Dot() = %v, want 12", got)
	}
}
