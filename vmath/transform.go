package vmath

import (
	"math"

	"github.com/pkg/errors"
)

// SingularTolerance is the |det| below which a transform is treated as non-invertible
const SingularTolerance = 1e-12

// ErrSingularMatrix is returned by Invert when the determinant is within tolerance of zero
var ErrSingularMatrix = errors.New("vmath: singular matrix")

// Transform is a 3x3 row-major homogeneous matrix acting on (x, y, 1)
//
//	| m[0] m[1] m[2] |   linear part m[0],m[1],m[3],m[4]
//	| m[3] m[4] m[5] |   translation m[2],m[5]
//	| m[6] m[7] m[8] |   projective row, [0 0 1] for affine maps
type Transform [9]float64

// Identity returns the identity transform
func Identity() Transform {
	return Transform{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Translation returns a pure translation by t
func Translation(t Vec2) Transform {
	m := Identity()
	m[2] = t.X
	m[5] = t.Y
	return m
}

// Scaling returns an axis-aligned scale
func Scaling(sx, sy float64) Transform {
	m := Identity()
	m[0] = sx
	m[4] = sy
	return m
}

// NewViewTransform builds scale-then-translate, the usual simulation to screen map
// Negative sy flips the Y axis so simulation +Y points up on screen
func NewViewTransform(sx, sy, tx, ty float64) Transform {
	return Translation(V2(tx, ty)).Mul(Scaling(sx, sy))
}

// Mul returns m*o, i.e. o applied first then m
func (m Transform) Mul(o Transform) Transform {
	var out Transform
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row*3+col] = m[row*3+0]*o[0*3+col] +
				m[row*3+1]*o[1*3+col] +
				m[row*3+2]*o[2*3+col]
		}
	}
	return out
}

// MapPoint applies the full map including translation
// Non-affine matrices are divided through by w; w == 0 maps to the raw x, y
func (m Transform) MapPoint(p Vec2) Vec2 {
	x := m[0]*p.X + m[1]*p.Y + m[2]
	y := m[3]*p.X + m[4]*p.Y + m[5]
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if w != 1 && w != 0 {
		x /= w
		y /= w
	}
	return Vec2{X: x, Y: y}
}

// MapDirection applies only the linear 2x2 part, for offsets and drag deltas
func (m Transform) MapDirection(v Vec2) Vec2 {
	return Vec2{
		X: m[0]*v.X + m[1]*v.Y,
		Y: m[3]*v.X + m[4]*v.Y,
	}
}

// Det returns the 3x3 determinant
func (m Transform) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invert returns the exact inverse via adjugate / determinant
func (m Transform) Invert() (Transform, error) {
	det := m.Det()
	if math.Abs(det) < SingularTolerance || !IsFinite(det) {
		return Transform{}, errors.Wrapf(ErrSingularMatrix, "det=%g", det)
	}
	inv := 1 / det

	// Transposed cofactor matrix
	return Transform{
		(m[4]*m[8] - m[5]*m[7]) * inv,
		(m[2]*m[7] - m[1]*m[8]) * inv,
		(m[1]*m[5] - m[2]*m[4]) * inv,

		(m[5]*m[6] - m[3]*m[8]) * inv,
		(m[0]*m[8] - m[2]*m[6]) * inv,
		(m[2]*m[3] - m[0]*m[5]) * inv,

		(m[3]*m[7] - m[4]*m[6]) * inv,
		(m[1]*m[6] - m[0]*m[7]) * inv,
		(m[0]*m[4] - m[1]*m[3]) * inv,
	}, nil
}
