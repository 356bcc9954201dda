package render

import (
	"image"
	"image/color"
	"math"
)

// DepthBuffer stores one depth per pixel. Larger values are closer to the
// camera; an untouched pixel holds -Inf.
type DepthBuffer struct {
	width, height int
	data          []float64 // x + y*width
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
	db.Clear()
	return db
}

// Size returns the buffer dimensions.
func (db *DepthBuffer) Size() (width, height int) {
	return db.width, db.height
}

// Clear resets every pixel to -Inf (call before each frame).
func (db *DepthBuffer) Clear() {
	// -Inf loses to any finite z, so the first fragment at a pixel always
	// lands. Fill by doubling the initialised prefix.
	n := len(db.data)
	if n == 0 {
		return
	}
	db.data[0] = math.Inf(-1)
	for i := 1; i < n; i *= 2 {
		copy(db.data[i:], db.data[:i])
	}
}

// At returns the depth at (x, y), or false when out of bounds.
func (db *DepthBuffer) At(x, y int) (float64, bool) {
	if x < 0 || x >= db.width || y < 0 || y >= db.height {
		return math.Inf(-1), false
	}
	return db.data[x+y*db.width], true
}

// Set stores z at (x, y) and reports whether (x, y) was in bounds.
func (db *DepthBuffer) Set(x, y int, z float64) bool {
	if x < 0 || x >= db.width || y < 0 || y >= db.height {
		return false
	}
	db.data[x+y*db.width] = z
	return true
}

// Image renders the buffer as a top-down grayscale image: the nearest
// written depth is white, the farthest a dark gray, untouched pixels black.
func (db *DepthBuffer) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, db.width, db.height))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, z := range db.data {
		if math.IsInf(z, 0) || math.IsNaN(z) {
			continue
		}
		lo = math.Min(lo, z)
		hi = math.Max(hi, z)
	}
	if lo > hi {
		return img
	}

	span := hi - lo
	for y := range db.height {
		for x := range db.width {
			z := db.data[x+y*db.width]
			if math.IsInf(z, 0) || math.IsNaN(z) {
				continue
			}
			v := 1.0
			if span > 0 {
				v = (z - lo) / span
			}
			img.SetGray(x, db.height-1-y, color.Gray{Y: uint8(32 + v*223)})
		}
	}
	return img
}
