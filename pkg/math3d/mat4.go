package math3d

import "math"

// Mat4 is a 4x4 homogeneous matrix stored in column-major order and
// addressed by (row, col) through Get and Set.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 3, v.X)
	m.Set(1, 3, v.Y)
	m.Set(2, 3, v.Z)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m.Set(0, 0, v.X)
	m.Set(1, 1, v.Y)
	m.Set(2, 2, v.Z)
	return m
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(1, 1, c)
	m.Set(1, 2, -s)
	m.Set(2, 1, s)
	m.Set(2, 2, c)
	return m
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(0, 0, c)
	m.Set(0, 2, s)
	m.Set(2, 0, -s)
	m.Set(2, 2, c)
	return m
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	m.Set(0, 0, c)
	m.Set(0, 1, -s)
	m.Set(1, 0, s)
	m.Set(1, 1, c)
	return m
}

// Rotate creates a rotation matrix around an arbitrary axis (Rodrigues).
func Rotate(axis Vec3, angle float64) Mat4 {
	a := axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c

	m := Identity()
	m.Set(0, 0, t*a.X*a.X+c)
	m.Set(0, 1, t*a.X*a.Y-s*a.Z)
	m.Set(0, 2, t*a.X*a.Z+s*a.Y)
	m.Set(1, 0, t*a.X*a.Y+s*a.Z)
	m.Set(1, 1, t*a.Y*a.Y+c)
	m.Set(1, 2, t*a.Y*a.Z-s*a.X)
	m.Set(2, 0, t*a.X*a.Z-s*a.Y)
	m.Set(2, 1, t*a.Y*a.Z+s*a.X)
	m.Set(2, 2, t*a.Z*a.Z+c)
	return m
}

// Mul multiplies two matrices: a * b. Applied to a vector, b acts first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			var sum float64
			for k := range 4 {
				sum += a.Get(row, k) * b.Get(k, col)
			}
			m.Set(row, col, sum)
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
// When w comes out zero the undivided coordinates are returned; use
// MulVec4 and Cartesian to detect that case.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	h := m.MulVec4(V4FromV3(v, 1))
	p, err := h.Cartesian()
	if err != nil {
		return h.Vec3()
	}
	return p
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t.Set(col, row, m.Get(row, col))
		}
	}
	return t
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.Matrix().Determinant()
}

// Inverse returns the inverse of the matrix, or ErrSingular.
func (m Mat4) Inverse() (Mat4, error) {
	inv, err := m.Matrix().Inverse()
	if err != nil {
		return Identity(), err
	}
	return MatrixToMat4(inv)
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Matrix converts m into a general 4x4 Matrix.
func (m Mat4) Matrix() Matrix {
	out := NewMatrix(4, 4)
	for row := range 4 {
		for col := range 4 {
			out.Set(row, col, m.Get(row, col))
		}
	}
	return out
}

// MatrixToMat4 converts a 4x4 Matrix into a Mat4.
func MatrixToMat4(m Matrix) (Mat4, error) {
	if m.Rows() != 4 || m.Cols() != 4 {
		return Mat4{}, ErrDimensionMismatch
	}
	var out Mat4
	for row := range 4 {
		for col := range 4 {
			out.Set(row, col, m.At(row, col))
		}
	}
	return out, nil
}
