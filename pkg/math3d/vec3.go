// Package math3d provides the vector and matrix primitives used by the
// rasterizer: fixed-size vectors, a 4x4 homogeneous matrix, a general matrix
// and the camera/projection/viewport transform builders.
package math3d

import (
	"errors"
	"math"
)

// ErrZeroVector is returned when a zero-length vector is normalized with
// NormalizeChecked.
var ErrZeroVector = errors.New("math3d: cannot normalize zero-length vector")

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// ScaleVec3 returns the scalar product s * v. It is identical to v.Scale(s).
func ScaleVec3(s float64, v Vec3) Vec3 {
	return v.Scale(s)
}

// Div returns the scalar division a / s.
func (a Vec3) Div(s float64) Vec3 {
	return Vec3{a.X / s, a.Y / s, a.Z / s}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// LenSq returns the squared length (faster, no sqrt).
func (a Vec3) LenSq() float64 {
	return a.Dot(a)
}

// Normalize returns the unit vector in the same direction.
// A zero vector normalizes to the zero vector; use NormalizeChecked when
// that case has to be reported.
func (a Vec3) Normalize() Vec3 {
	n, err := a.NormalizeChecked()
	if err != nil {
		return Vec3{}
	}
	return n
}

// NormalizeChecked returns the unit vector in the same direction, or
// ErrZeroVector if a has zero (or non-finite) length.
func (a Vec3) NormalizeChecked() (Vec3, error) {
	l := a.Len()
	if l == 0 || math.IsInf(l, 0) || math.IsNaN(l) {
		return Vec3{}, ErrZeroVector
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}, nil
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// XY drops the Z component.
func (a Vec3) XY() Vec2 {
	return Vec2{a.X, a.Y}
}

// At returns the component at ordinal i (0=X, 1=Y, 2=Z).
func (a Vec3) At(i int) (float64, bool) {
	switch i {
	case 0:
		return a.X, true
	case 1:
		return a.Y, true
	case 2:
		return a.Z, true
	}
	return 0, false
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
