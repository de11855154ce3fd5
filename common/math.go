package common

import "math"

// Vec2 is a direction or velocity on the ground plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec3 is a world-space position. The navigable plane is X/Z; Y is height.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// FloorIndex converts a world coordinate to a cell coordinate for the given period,
// clamped to [0, n-1]. NaN maps to 0 and infinities clamp to the edges.
func FloorIndex(coord, period float64, n int) int {
	if n <= 0 {
		return 0
	}
	if math.IsNaN(coord) || period <= 0 {
		return 0
	}
	f := math.Floor(coord / period)
	if f <= 0 {
		return 0
	}
	if f >= float64(n-1) {
		return n - 1
	}
	return int(f)
}
