package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 is a float64 2D vector in simulation or screen space
// Layout matches r2.Vec so the two convert freely
type Vec2 struct {
	X, Y float64
}

// V2 is shorthand for Vec2{x, y}
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromR2 converts a gonum vector
func FromR2(v r2.Vec) Vec2 {
	return Vec2(v)
}

// R2 converts to a gonum vector
func (v Vec2) R2() r2.Vec {
	return r2.Vec(v)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2(r2.Add(r2.Vec(v), r2.Vec(o)))
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2(r2.Sub(r2.Vec(v), r2.Vec(o)))
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2(r2.Scale(s, r2.Vec(v)))
}

func (v Vec2) Dot(o Vec2) float64 {
	return r2.Dot(r2.Vec(v), r2.Vec(o))
}

// Length returns the Euclidean norm
func (v Vec2) Length() float64 {
	return r2.Norm(r2.Vec(v))
}

// LengthSq returns the squared norm without sqrt
func (v Vec2) LengthSq() float64 {
	return r2.Norm2(r2.Vec(v))
}

// Normalize returns the unit vector, zero-safe
// The zero vector normalizes to the zero vector (r2.Unit would yield NaN)
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// LeftNormal returns the vector rotated 90° counter-clockwise: (-y, x)
func (v Vec2) LeftNormal() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// IsFinite reports whether both components are neither NaN nor ±Inf
func (v Vec2) IsFinite() bool {
	return IsFinite(v.X) && IsFinite(v.Y)
}

// FromPolar builds a vector of length radius at angle (radians, CCW from +X)
func FromPolar(angle, radius float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{X: c * radius, Y: s * radius}
}

// Dist2 returns the squared distance between two points
func Dist2(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Dist returns the distance between two points
func Dist(a, b Vec2) float64 {
	return math.Sqrt(Dist2(a, b))
}

// IsFinite reports whether f is neither NaN nor ±Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
