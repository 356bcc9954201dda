package math3d

import "math"

// Vec2 represents a 2D vector, used for texture coordinates and
// sub-pixel screen positions.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product a · b.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y)
}

// At returns the component at ordinal i (0=X, 1=Y).
func (a Vec2) At(i int) (float64, bool) {
	switch i {
	case 0:
		return a.X, true
	case 1:
		return a.Y, true
	}
	return 0, false
}

// Vec2i is an integer screen-space point.
type Vec2i struct {
	X, Y int
}

// V2i creates a new Vec2i.
func V2i(x, y int) Vec2i {
	return Vec2i{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2i) Add(b Vec2i) Vec2i {
	return Vec2i{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2i) Sub(b Vec2i) Vec2i {
	return Vec2i{a.X - b.X, a.Y - b.Y}
}

// At returns the component at ordinal i (0=X, 1=Y).
func (a Vec2i) At(i int) (int, bool) {
	switch i {
	case 0:
		return a.X, true
	case 1:
		return a.Y, true
	}
	return 0, false
}

// Vec2 converts to floating point.
func (a Vec2i) Vec2() Vec2 {
	return Vec2{float64(a.X), float64(a.Y)}
}
