package math3d

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrDimensionMismatch is returned when matrix shapes are incompatible.
	ErrDimensionMismatch = errors.New("math3d: matrix dimension mismatch")
	// ErrSingular is returned when inverting a matrix with zero determinant.
	ErrSingular = errors.New("math3d: matrix is singular")
)

// Matrix is a general rows x cols matrix stored row-major.
// The zero value is an empty 0x0 matrix.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero-filled rows x cols matrix.
func NewMatrix(rows, cols int) Matrix {
	return Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// IdentityMatrix returns the n x n identity matrix.
func IdentityMatrix(n int) Matrix {
	m := NewMatrix(n, n)
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m
}

// HomogeneousFromVec3 returns v as a 4x1 column with w = 1.
func HomogeneousFromVec3(v Vec3) Matrix {
	m := NewMatrix(4, 1)
	m.data[0], m.data[1], m.data[2], m.data[3] = v.X, v.Y, v.Z, 1
	return m
}

// Rows returns the number of rows.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m Matrix) Cols() int { return m.cols }

// At returns the element at (row, col). It panics when out of range.
func (m Matrix) At(row, col int) float64 {
	return m.data[m.index(row, col)]
}

// Set sets the element at (row, col). It panics when out of range.
func (m Matrix) Set(row, col int, v float64) {
	m.data[m.index(row, col)] = v
}

func (m Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("math3d: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// Mul returns a * b, or ErrDimensionMismatch when a.Cols() != b.Rows().
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Matrix) Mul(b Matrix) (Matrix, error) {
	if a.cols != b.rows {
		return Matrix{}, fmt.Errorf("%w: %dx%d * %dx%d", ErrDimensionMismatch, a.rows, a.cols, b.rows, b.cols)
	}
	out := NewMatrix(a.rows, b.cols)
	for i := range a.rows {
		for j := range b.cols {
			var sum float64
			for k := range a.cols {
				sum += a.data[i*a.cols+k] * b.data[k*b.cols+j]
			}
			out.data[i*out.cols+j] = sum
		}
	}
	return out, nil
}

// Transpose returns the transposed matrix.
func (m Matrix) Transpose() Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			out.data[j*out.cols+i] = m.data[i*m.cols+j]
		}
	}
	return out
}

// Equal reports whether a and b have the same shape and every element
// differs by at most eps.
func (a Matrix) Equal(b Matrix, eps float64) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > eps {
			return false
		}
	}
	return true
}

// Vec3 converts a 4x1 homogeneous column back to Cartesian coordinates by
// dividing rows 0..2 by row 3.
func (m Matrix) Vec3() (Vec3, error) {
	if m.rows != 4 || m.cols != 1 {
		return Vec3{}, fmt.Errorf("%w: want 4x1, have %dx%d", ErrDimensionMismatch, m.rows, m.cols)
	}
	return V4(m.data[0], m.data[1], m.data[2], m.data[3]).Cartesian()
}

// Determinant returns the determinant of a square matrix using Gaussian
// elimination with partial pivoting. Non-square matrices yield NaN.
func (m Matrix) Determinant() float64 {
	if m.rows != m.cols {
		return math.NaN()
	}
	n := m.rows
	a := m.clone()
	det := 1.0
	for col := range n {
		p := a.pivot(col)
		if a.data[p*n+col] == 0 {
			return 0
		}
		if p != col {
			a.swapRows(p, col)
			det = -det
		}
		d := a.data[col*n+col]
		det *= d
		for r := col + 1; r < n; r++ {
			f := a.data[r*n+col] / d
			for c := col; c < n; c++ {
				a.data[r*n+c] -= f * a.data[col*n+c]
			}
		}
	}
	return det
}

// Inverse returns the inverse of a square matrix by Gauss-Jordan
// elimination. It fails with ErrDimensionMismatch for non-square input and
// ErrSingular when no inverse exists.
func (m Matrix) Inverse() (Matrix, error) {
	if m.rows != m.cols {
		return Matrix{}, fmt.Errorf("%w: cannot invert %dx%d", ErrDimensionMismatch, m.rows, m.cols)
	}
	n := m.rows
	a := m.clone()
	inv := IdentityMatrix(n)
	for col := range n {
		p := a.pivot(col)
		if a.data[p*n+col] == 0 {
			return Matrix{}, ErrSingular
		}
		a.swapRows(p, col)
		inv.swapRows(p, col)

		d := a.data[col*n+col]
		for c := range n {
			a.data[col*n+c] /= d
			inv.data[col*n+c] /= d
		}
		for r := range n {
			if r == col {
				continue
			}
			f := a.data[r*n+col]
			if f == 0 {
				continue
			}
			for c := range n {
				a.data[r*n+c] -= f * a.data[col*n+c]
				inv.data[r*n+c] -= f * inv.data[col*n+c]
			}
		}
	}
	return inv, nil
}

// String formats the matrix one row per line.
func (m Matrix) String() string {
	var sb strings.Builder
	for i := range m.rows {
		for j := range m.cols {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		if i < m.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m Matrix) clone() Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// pivot returns the row at or below col with the largest magnitude in col.
func (m Matrix) pivot(col int) int {
	best := col
	for r := col + 1; r < m.rows; r++ {
		if math.Abs(m.data[r*m.cols+col]) > math.Abs(m.data[best*m.cols+col]) {
			best = r
		}
	}
	return best
}

func (m Matrix) swapRows(i, j int) {
	if i == j {
		return
	}
	ri := m.data[i*m.cols : (i+1)*m.cols]
	rj := m.data[j*m.cols : (j+1)*m.cols]
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}
