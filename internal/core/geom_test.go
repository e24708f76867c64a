package core

import (
	"math"
	"testing"
)

func TestCircleOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Circle
		expected bool
	}{
		{
			name:     "overlapping",
			a:        Circle{Pos: V(0, 0), Radius: 10},
			b:        Circle{Pos: V(15, 0), Radius: 10},
			expected: true,
		},
		{
			name:     "separate",
			a:        Circle{Pos: V(0, 0), Radius: 10},
			b:        Circle{Pos: V(30, 0), Radius: 10},
			expected: false,
		},
		{
			name:     "touching does not overlap",
			a:        Circle{Pos: V(0, 0), Radius: 10},
			b:        Circle{Pos: V(20, 0), Radius: 10},
			expected: false,
		},
		{
			name:     "contained",
			a:        Circle{Pos: V(0, 0), Radius: 50},
			b:        Circle{Pos: V(5, 5), Radius: 1},
			expected: true,
		},
		{
			name:     "diagonal",
			a:        Circle{Pos: V(0, 0), Radius: 5},
			b:        Circle{Pos: V(6, 6), Radius: 4},
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.expected {
				t.Errorf("Overlaps() is not symmetric")
			}
		})
	}
}

func TestVec2Ops(t *testing.T) {
	a := V(3, 4)
	if a.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", a.Len())
	}
	if got := a.Add(V(1, 1)); got != V(4, 5) {
		t.Errorf("Add() = %v", got)
	}
	if got := a.Sub(V(3, 4)); got != V(0, 0) {
		t.Errorf("Sub() = %v", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v", got)
	}
	if d := V(0, 0).Dist(a); d != 5 {
		t.Errorf("Dist() = %v, expected 5", d)
	}

	v := FromAngle(math.Pi/2, 10)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-10) > 1e-9 {
		t.Errorf("FromAngle(pi/2, 10) = %v", v)
	}
	if ang := V(0, 0).AngleTo(V(0, 5)); math.Abs(ang-math.Pi/2) > 1e-9 {
		t.Errorf("AngleTo() = %v", ang)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		if result := Clamp(tc.val, tc.min, tc.max); result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d",
				tc.val, tc.min, tc.max, result, tc.expected)
		}
	}

	if ClampF(1.5, -1, 1) != 1 || ClampF(-3, -1, 1) != -1 || ClampF(0.25, -1, 1) != 0.25 {
		t.Error("ClampF did not clamp to [-1, 1]")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 20)

	if !r.Contains(10, 10) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(30, 30) {
		t.Error("bottom-right corner is exclusive")
	}
	if r.Contains(5, 15) {
		t.Error("point left of rect should be outside")
	}
}
